package api

import (
	"net/http"
	"time"

	"freecode/internal/api/handler"
	"freecode/internal/api/middleware"
	"freecode/internal/app/service"
	"freecode/internal/common/security"
	"freecode/internal/domain/model"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	AllowedOrigins []string
	AuthRatePerSec float64
	AuthRateBurst  int
	RequestTimeout time.Duration
}

func NewRouter(
	cfg RouterConfig,
	tokens *security.TokenService,
	authService *service.AuthService,
	problemService *service.ProblemService,
	execService *service.ExecutionJobService,
) http.Handler {
	r := chi.NewRouter()

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(authService)
	problemHandler := handler.NewProblemHandler(problemService)
	execHandler := handler.NewExecutionHandler(execService)
	limiter := middleware.NewRateLimiter(cfg.AuthRatePerSec, cfg.AuthRateBurst, 10*time.Minute)

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.Group(func(public chi.Router) {
				public.Use(limiter.Handler)
				authHandler.RegisterRoutes(public)
			})
			auth.Group(func(protected chi.Router) {
				protected.Use(middleware.Verifier(tokens))
				protected.Use(middleware.Authenticator)
				authHandler.RegisterProtectedRoutes(protected)
			})
		})

		api.Route("/problems", problemHandler.RegisterRoutes)

		api.Route("/execute", func(exec chi.Router) {
			exec.Use(middleware.Verifier(tokens))
			exec.Use(middleware.Authenticator)
			execHandler.RegisterRoutes(exec)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.Verifier(tokens))
			admin.Use(middleware.Authenticator)
			admin.Use(middleware.RequireRole(model.RoleAdmin))
			adminHandler.RegisterRoutes(admin)
		})
	})

	return r
}
