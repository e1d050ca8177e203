package api

import (
	"context"
	"time"

	"viemind/config"
	"viemind/handlers/auth"
	"viemind/handlers/competitions"
	"viemind/handlers/organizations"
	"viemind/handlers/submissions"
	"viemind/handlers/users"
	"viemind/i18n"
	"viemind/middleware"
	"viemind/realtime"
	"viemind/services"
	"viemind/storage"

	"github.com/gin-gonic/gin"
)

// Dependencies holds everything the API routes are built from
type Dependencies struct {
	Config        *config.Config
	Store         storage.Storage
	Translator    *i18n.Translator
	Hub           *realtime.Hub
	Auth          *services.AuthService
	Competitions  *services.CompetitionService
	Participation *services.ParticipationService
	Profiles      *services.ProfileService
	Organizations *services.OrganizationService
	Support       services.SupportMailer // nil disables /api/support
}

// Register the endpoints of the API under /api
func Register(ctx context.Context, r *gin.Engine, deps Dependencies) {
	RegisterHealthRoutes(r, deps.Store)

	api := r.Group("/api")

	// Add metrics middleware to all routes
	api.Use(middleware.MetricsMiddleware())
	api.Use(middleware.LocaleMiddleware(deps.Translator))

	rl := deps.Config.RateLimit
	apiLimiter := middleware.NewRateLimiter("api", rl.APIRate, rl.APIBurst)
	authLimiter := middleware.NewRateLimiter("auth", rl.AuthRate, rl.AuthBurst)
	apiLimiter.StartCleanup(ctx, 10*time.Minute)
	authLimiter.StartCleanup(ctx, 10*time.Minute)
	api.Use(middleware.RateLimiterMiddleware(apiLimiter))

	authRequired := middleware.AuthMiddleware(deps.Auth)

	RegisterPingRoutes(api)
	RegisterSupportRoutes(api, deps.Support)

	auth.RegisterRoutes(api.Group("", middleware.RateLimiterMiddleware(authLimiter)), auth.NewHandler(deps.Auth), authRequired)
	competitions.RegisterRoutes(api, competitions.NewHandler(deps.Competitions, deps.Participation, deps.Hub), authRequired)
	submissions.RegisterRoutes(api, submissions.NewHandler(deps.Participation, deps.Config.MaxUploadBytes), authRequired)
	users.RegisterRoutes(api, users.NewHandler(deps.Profiles, deps.Participation), authRequired)
	organizations.RegisterRoutes(api, organizations.NewHandler(deps.Organizations), authRequired)

	// Register metrics endpoint
	RegisterMetricsRoutes(api)
}
