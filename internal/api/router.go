package api

import (
	"log/slog"
	"net/http"
	"time"

	_ "loan-ledger/docs"
	"loan-ledger/internal/api/handler"
	mw "loan-ledger/internal/api/middleware"
	"loan-ledger/internal/config"
	"loan-ledger/internal/domain/customer"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const (
	jsonBodyLimit  = 1 << 20
	requestTimeout = 60 * time.Second
)

// Dependencies are the services the HTTP layer dispatches to.
type Dependencies struct {
	CustomerService customer.CustomerService
	Importer        handler.FileImporter
	Staging         handler.UploadStager
	DB              handler.Pinger
	// RateLimiter is created from config when nil. The caller owns Stop.
	RateLimiter *mw.RateLimiterMiddleware
}

func SetupRouter(deps Dependencies, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger)
	}

	setupMiddleware(router, cfg, rateLimiter, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupHealthEndpoint(router, deps.DB, logger)
	setupAuthRoutes(router, cfg, logger)
	setupCustomerRoutes(router, cfg, deps, logger)
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, rateLimiter *mw.RateLimiterMiddleware, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(requestTimeout))
	router.Use(rateLimiter.Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupHealthEndpoint(router *chi.Mux, db handler.Pinger, logger *slog.Logger) {
	router.Get("/health", handler.NewHealthHandler(db, logger).Health)
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(cfg.Server.Auth, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Use(mw.LimitBodyBytes(jsonBodyLimit))
		r.Post("/token", authHandler.GenerateBearerToken)
	})
}

func setupCustomerRoutes(router *chi.Mux, cfg *config.Config, deps Dependencies, logger *slog.Logger) {
	customers := handler.NewCustomerHandler(deps.CustomerService, logger)
	comments := handler.NewCommentHandler(deps.CustomerService, logger)
	imports := handler.NewImportHandler(deps.Importer, deps.Staging, logger)

	uploadLimit := cfg.Upload.MaxSizeBytes
	if uploadLimit <= 0 {
		uploadLimit = config.DefaultUploadMaxSize
	}

	router.Route("/api/customer", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))

		r.With(mw.LimitBodyBytes(uploadLimit)).Post("/import", imports.ImportCustomers)

		r.Group(func(r chi.Router) {
			r.Use(mw.LimitBodyBytes(jsonBodyLimit))

			r.Get("/", customers.ListCustomers)
			r.Post("/", customers.CreateCustomer)

			r.Patch("/comments/{commentId}", comments.UpdateComment)
			r.Delete("/comments/{commentId}", comments.DeleteComment)

			r.Route("/{accountNo}", func(r chi.Router) {
				r.Get("/", customers.GetCustomer)
				r.Delete("/", customers.DeleteCustomer)
				r.Patch("/comment", customers.UpdateCustomerComment)
				r.Get("/comments", comments.ListComments)
				r.Post("/comments", comments.AddComment)
				r.Delete("/comments", comments.DeleteAllComments)
			})
		})
	})
}
