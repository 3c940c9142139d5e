package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/casalia/realty-backend/api/controllers"
	"github.com/casalia/realty-backend/api/middleware"
	"github.com/casalia/realty-backend/internal/agents"
	"github.com/casalia/realty-backend/internal/appointments"
	"github.com/casalia/realty-backend/internal/auth"
	"github.com/casalia/realty-backend/internal/properties"
	"github.com/casalia/realty-backend/pkg/config"
	"github.com/casalia/realty-backend/pkg/enums"
	"github.com/casalia/realty-backend/pkg/logger"
	"github.com/casalia/realty-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           controllers.Pinger
	Redis        *redis.Client
	Registry     *prometheus.Registry
	Auth         auth.Service
	Appointments appointments.Service
	Properties   properties.Service
	Agents       agents.Service
}

// NewRouter assembles the public API surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.FrontendURL),
	)

	adminOnly := middleware.RequireAnyRole(logg, enums.UserRoleAdmin, enums.UserRoleSuperAdmin)
	superOnly := middleware.RequireAnyRole(logg, enums.UserRoleSuperAdmin)

	loginLimiter := func(next http.Handler) http.Handler { return next }
	if deps.Redis != nil {
		loginPolicy := middleware.NewAuthRateLimitPolicy(
			"login",
			cfg.AuthRateLimit.LoginWindow,
			cfg.AuthRateLimit.LoginIPLimit,
			cfg.AuthRateLimit.LoginEmailLimit,
		)
		loginLimiter = middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, pinger(deps.Redis)))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(loginLimiter).
			Post("/login", controllers.AuthLogin(deps.Auth, logg))
	})

	r.Route("/api/v1/properties", func(r chi.Router) {
		r.Get("/", controllers.ListProperties(deps.Properties, logg))
		r.Get("/{propertyId}", controllers.GetProperty(deps.Properties, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg), adminOnly)
			r.Post("/", controllers.CreateProperty(deps.Properties, logg))
			r.Patch("/{propertyId}", controllers.UpdateProperty(deps.Properties, logg))
			r.Delete("/{propertyId}", controllers.DeleteProperty(deps.Properties, logg))
		})
	})

	r.Route("/api/v1/appointments", func(r chi.Router) {
		r.Post("/", controllers.CreateAppointment(deps.Appointments, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/me", controllers.MyAppointments(deps.Appointments, logg))

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/", controllers.ListAppointments(deps.Appointments, logg))
				r.Get("/{appointmentId}", controllers.GetAppointment(deps.Appointments, logg))
				r.Patch("/{appointmentId}", controllers.UpdateAppointment(deps.Appointments, logg))
				r.Delete("/{appointmentId}", controllers.DeleteAppointment(deps.Appointments, logg))
			})

			r.With(superOnly).
				Patch("/{appointmentId}/reassign-agent", controllers.ReassignAppointmentAgent(deps.Appointments, logg))
		})
	})

	r.Route("/api/v1/agents", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg), adminOnly)
		r.Post("/", controllers.CreateAgent(deps.Agents, logg))
		r.Get("/", controllers.ListAgents(deps.Agents, logg))
		r.Get("/{agentId}", controllers.GetAgent(deps.Agents, logg))
		r.Patch("/{agentId}", controllers.UpdateAgent(deps.Agents, logg))
		r.Delete("/{agentId}", controllers.DeactivateAgent(deps.Agents, logg))
	})

	return r
}

// pinger hides the typed-nil pitfall when redis is not wired.
func pinger(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}
