package routers

import (
	"medblock-service/internal/app/config"
	"medblock-service/internal/app/delivery/http/controllers"
	"medblock-service/internal/app/delivery/http/middlewares"
	"medblock-service/internal/pkg/constvars"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Verification *controllers.VerificationController
	Patient      *controllers.PatientController
}

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	loginLimiter *middlewares.RateLimiter,
	ctrls Controllers,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{internalConfig.App.FrontendDomain},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", constvars.HeaderXRequestID},
		ExposedHeaders:   []string{constvars.HeaderXRequestID, constvars.HeaderContentDisposition},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)
	router.Use(middlewares.ErrorHandler)

	window := time.Duration(internalConfig.App.MaxTimeRequestsPerSeconds) * time.Second
	if window <= 0 {
		window = time.Second
	}
	router.Use(httprate.Limit(
		internalConfig.App.MaxRequests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(middlewares.TooManyRequests),
	))

	router.Use(middlewares.RequestTimeout)
	router.Use(middlewares.DefaultBodyLimit)

	router.NotFound(middlewares.NotFound)
	router.MethodNotAllowed(middlewares.MethodNotAllowed)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route(endpointPrefix(internalConfig.App.EndpointPrefix), func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			attachAuthRoutes(r, middlewares, loginLimiter, ctrls.Auth)
		})

		r.Route("/users", func(r chi.Router) {
			attachUserRoutes(r, middlewares, ctrls.User, ctrls.Verification)
		})

		r.Route("/patients", func(r chi.Router) {
			attachPatientRoutes(r, middlewares, ctrls.Patient)
		})
	})
}

func endpointPrefix(prefix string) string {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		return ""
	}
	return prefix
}
