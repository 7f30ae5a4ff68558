package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/traincore/dashboard-bff/internal/api/handlers"
	"github.com/traincore/dashboard-bff/internal/config"
	"github.com/traincore/dashboard-bff/internal/logger"
	"github.com/traincore/dashboard-bff/internal/proxy"
	"github.com/traincore/dashboard-bff/middleware"
)

// Deps carries the wired handlers and shared middleware the router mounts.
type Deps struct {
	Attendees *handlers.AttendeeHandler
	Courses   *handlers.CourseHandler
	Templates *handlers.TemplateHandler
	Waitlist  *handlers.WaitlistHandler
	Remarks   *handlers.RemarkHandler
	Documents *handlers.DocumentHandler
	Readiness *handlers.ReadinessHandler
	Limiter   *middleware.RedisRateLimiter
}

func NewRouter(cfg *config.Config, deps Deps) (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(logger.Log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing("dashboard-bff"))
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.DashboardOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.HeaderXRequestID, middleware.HeaderXConfirm},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.RLEnabled {
		r.Use(httprate.LimitByIP(300, cfg.RLWindow))
	}

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/healthz", deps.Readiness.Healthz)
	r.Get("/api/readyz", deps.Readiness.Readyz)

	// Auth provider mounted under the dashboard origin: /api/auth -> /auth/v1
	authProxy, err := proxy.New(cfg.AuthServiceURL, "/api/auth", "/auth/v1")
	if err != nil {
		return nil, err
	}
	r.Mount("/api/auth", authProxy)

	// Operators can switch rate limiting off wholesale; the write routes then
	// run without the per-user limiter.
	writeLimit := func(next http.Handler) http.Handler { return next }
	if cfg.RLEnabled {
		writeLimit = deps.Limiter.Middleware(middleware.RateLimitConfig{
			Limit:  cfg.RLLimit,
			Window: cfg.RLWindow,
			KeyFn:  middleware.KeyByUser,
		})
	}
	confirm := middleware.RequireConfirmation

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret, cfg.JWTIssuer))
		r.Use(middleware.RequireSession)

		r.Route("/attendees", func(r chi.Router) {
			r.Get("/", deps.Attendees.List)
			r.With(writeLimit).Post("/", deps.Attendees.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", deps.Attendees.GetView)
				r.With(writeLimit).Put("/", deps.Attendees.Update)
				r.With(writeLimit, confirm).Delete("/", deps.Attendees.Delete)

				r.Route("/remarks", func(r chi.Router) {
					r.Get("/", deps.Remarks.List)
					r.With(writeLimit).Post("/", deps.Remarks.Create)
					r.With(writeLimit).Put("/{remarkID}", deps.Remarks.Update)
					r.With(writeLimit, confirm).Delete("/{remarkID}", deps.Remarks.Delete)
				})

				r.Route("/documents", func(r chi.Router) {
					r.Get("/", deps.Documents.List)
					r.With(writeLimit).Post("/", deps.Documents.Create)
					r.With(writeLimit).Post("/scan", deps.Documents.Scan)
					r.With(writeLimit).Put("/{documentID}", deps.Documents.Update)
					r.With(writeLimit, confirm).Delete("/{documentID}", deps.Documents.Delete)
					r.Get("/{documentID}/files/{fileID}/download", deps.Documents.Download)
				})

				r.Route("/waitlist", func(r chi.Router) {
					r.Get("/", deps.Waitlist.ListByAttendee)
					r.With(writeLimit).Post("/", deps.Waitlist.Create)
				})
			})
		})

		r.With(writeLimit, confirm).Delete("/waitlist/{recordID}", deps.Waitlist.Delete)

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", deps.Courses.List)
			r.With(writeLimit).Post("/", deps.Courses.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", deps.Courses.GetView)
				r.With(writeLimit).Put("/", deps.Courses.Update)
				r.With(writeLimit, confirm).Delete("/", deps.Courses.Delete)
				r.With(writeLimit, confirm).Post("/archive", deps.Courses.Archive)
				r.With(writeLimit).Post("/attendees", deps.Courses.AssignAttendee)
				r.With(writeLimit, confirm).Delete("/attendees/{attendeeID}", deps.Courses.RemoveAttendee)
				r.With(writeLimit, confirm).Post("/attendees/{attendeeID}/return-to-waitlist", deps.Courses.ReturnToWaitlist)
			})
		})

		r.Route("/course-templates", func(r chi.Router) {
			r.Get("/", deps.Templates.List)
			r.With(writeLimit).Post("/", deps.Templates.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", deps.Templates.GetView)
				r.With(writeLimit).Put("/", deps.Templates.Update)
				r.With(writeLimit, confirm).Delete("/", deps.Templates.Delete)
				r.With(writeLimit).Post("/schedule-course", deps.Templates.ScheduleCourse)
			})
		})
	})

	return r, nil
}
