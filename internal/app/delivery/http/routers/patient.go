package routers

import (
	"medblock-service/internal/app/delivery/http/controllers"
	"medblock-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachPatientRoutes(router chi.Router, middlewares *middlewares.Middlewares, patientController *controllers.PatientController) {
	router.Use(middlewares.Authenticate)

	router.Get("/", patientController.List)
	router.Post("/", patientController.Create)
	router.Get("/export", patientController.Export)

	router.Get("/{id}", patientController.Get)
	router.Put("/{id}", patientController.Update)
	router.Delete("/{id}", patientController.Delete)
	router.Patch("/{id}/restore", patientController.Restore)
}
