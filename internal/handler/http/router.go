package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-analytics-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(opts RouterOptions, analyticsHandler AnalyticsHandler, reportHandler ReportHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: false,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(metrics.Middleware)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, "Method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dataset", analyticsHandler.GetDatasetInfo)
		r.Get("/filters", analyticsHandler.GetFilterOptions)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/home", analyticsHandler.GetHome)
			r.Get("/departments", analyticsHandler.GetDepartments)
			r.Get("/locations", analyticsHandler.GetLocations)
			r.Get("/performance", analyticsHandler.GetPerformance)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", analyticsHandler.ListEmployees)
			r.Get("/export", reportHandler.ExportEmployees)
		})
	})
	return r
}
