package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/contactsmgr/contacts/internal/metrics"
	"github.com/contactsmgr/contacts/internal/middleware"
	"github.com/contactsmgr/contacts/internal/model"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Logger   *slog.Logger
	Recorder metrics.Recorder

	Base      *Handler
	Health    *HealthHandler
	Metrics   *MetricsHandler
	Persons   *PersonsHandler
	Countries *CountriesHandler
	Account   *AccountHandler

	Sessions   middleware.SessionLoader
	CookieName string
	Security   middleware.SecurityConfig
	CORS       middleware.CORSConfig
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger, cfg.Recorder))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.ResponseHeader(middleware.ResponseKeyHeader, middleware.ResponseKeyValue))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.LoadSession(middleware.SessionConfig{
		Logger:     cfg.Logger,
		Sessions:   cfg.Sessions,
		CookieName: cfg.CookieName,
	}))

	// Ops endpoints (no session required)
	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	r.Get("/metrics", cfg.Metrics.Metrics)

	r.Route("/Account", func(r chi.Router) {
		r.Use(middleware.MaxBodySize(cfg.Security.MaxRequestBodySize))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAnonymous)
			r.Get("/Register", cfg.Account.RegisterForm)
			r.Post("/Register", cfg.Account.Register)
			r.Get("/Login", cfg.Account.LoginForm)
			r.Post("/Login", cfg.Account.Login)
		})

		r.With(middleware.RequireLogin).Get("/Logout", cfg.Account.Logout)
		r.Get("/IsEmailAlreadyRegistered", cfg.Account.IsEmailAlreadyRegistered)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireLogin)

		r.Get("/", cfg.Persons.Index)

		r.Route("/persons", func(r chi.Router) {
			r.Use(middleware.MaxBodySize(cfg.Security.MaxRequestBodySize))

			r.Get("/index", cfg.Persons.Index)
			r.Get("/create", cfg.Persons.CreateForm)
			r.Post("/create", cfg.Persons.Create)
			r.Get("/edit/{personID}", cfg.Persons.EditForm)
			r.Post("/edit/{personID}", cfg.Persons.Edit)
			r.Get("/delete/{personID}", cfg.Persons.DeleteForm)
			r.Post("/delete/{personID}", cfg.Persons.Delete)
			r.Get("/PersonsCSV", cfg.Persons.CSV)
			r.Get("/PersonsExcel", cfg.Persons.Excel)
			r.Get("/PersonsPDF", cfg.Persons.PDF)
		})

		r.Route("/countries", func(r chi.Router) {
			r.Get("/", cfg.Countries.List)
			r.With(
				middleware.RequireRole(model.RoleAdmin),
				middleware.MaxBodySize(cfg.Security.MaxUploadSize),
			).Post("/UploadFromExcel", cfg.Countries.UploadFromExcel)
		})
	})

	// 404 and 405 handlers
	r.NotFound(cfg.Base.NotFound)
	r.MethodNotAllowed(cfg.Base.MethodNotAllowed)

	return r
}
