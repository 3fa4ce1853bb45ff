package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/salary-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Env            string
	Version        string
	AllowedOrigins []string
	LogLevel       slog.Level
}

type Handlers struct {
	Component   ComponentHandler
	RateSetting RateSettingHandler
	Salary      SalaryHandler
	Payroll     PayrollHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, m *metrics.Metrics, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "salary-engine"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

		r.Route("/components", func(r chi.Router) {
			r.Get("/", h.Component.List)
			r.Post("/", h.Component.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Component.Get)
				r.Put("/", h.Component.Update)
				r.Post("/deactivate", h.Component.Deactivate)
			})
		})

		r.Route("/rate-settings", func(r chi.Router) {
			r.Get("/", h.RateSetting.List)
			r.Route("/{key}", func(r chi.Router) {
				r.Get("/", h.RateSetting.Get)
				r.Put("/", h.RateSetting.Upsert)
				r.Delete("/", h.RateSetting.Delete)
			})
		})

		r.Route("/salaries", func(r chi.Router) {
			r.Get("/", h.Salary.List)
			r.Post("/", h.Salary.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Salary.Get)
				r.Put("/", h.Salary.Update)
				r.Delete("/", h.Salary.Delete)
				r.Get("/items", h.Salary.GetItems)
				r.Post("/calculate", h.Salary.Calculate)
				r.Post("/approve", h.Salary.Approve)
				r.Post("/pay", h.Salary.Pay)
				r.Post("/cancel", h.Salary.Cancel)
				r.Post("/reopen", h.Salary.Reopen)
			})
		})

		r.Route("/payrolls", func(r chi.Router) {
			r.Get("/", h.Payroll.List)
			r.Post("/", h.Payroll.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Payroll.Get)
				r.Get("/salaries", h.Payroll.ListSalaries)
				r.Post("/calculate", h.Payroll.Calculate)
				r.Post("/approve", h.Payroll.Approve)
				r.Post("/pay", h.Payroll.Pay)
				r.Post("/cancel", h.Payroll.Cancel)
			})
		})
	})
	return r
}
