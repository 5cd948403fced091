package routers

import (
	"medblock-service/internal/app/delivery/http/controllers"
	"medblock-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachUserRoutes(router chi.Router, middlewares *middlewares.Middlewares, userController *controllers.UserController, verificationController *controllers.VerificationController) {
	router.Use(middlewares.Authenticate)

	router.Get("/", userController.List)
	router.Get("/me", userController.Me)
	router.Post("/me/verification", verificationController.Submit)
	router.Get("/verifications/pending", verificationController.ListPending)

	router.Get("/{id}", userController.Get)
	router.Put("/{id}", userController.Update)
	router.Delete("/{id}", userController.Delete)
	router.Patch("/{id}/role", userController.ChangeRole)
	router.Patch("/{id}/deactivate", userController.Deactivate)
	router.Patch("/{id}/activate", userController.Activate)
	router.Patch("/{id}/verification", verificationController.Review)
}
