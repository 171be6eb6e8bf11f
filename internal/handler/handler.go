package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/winmix-match-service/internal/service"
)

// Deps are the collaborators the HTTP layer needs. Nil limiters disable limiting.
type Deps struct {
	Pinger        Pinger
	Matches       service.MatchService
	Analytics     service.AnalyticsService
	APILimiter    Limiter
	StrictLimiter Limiter
	Logger        zerolog.Logger
	// Production turns on HSTS.
	Production bool
}

// Register mounts middleware and all public routes on the given engine.
func Register(r *gin.Engine, d Deps) {
	r.Use(RequestID(), RequestLogger(d.Logger), Recovery(d.Logger), SecurityHeaders(d.Production))

	h := NewHealthHandler(d.Pinger)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}

		limited := api.Group("", RateLimit(d.APILimiter, d.Logger))
		NewMatchHandler(d.Matches).Register(limited, RateLimit(d.StrictLimiter, d.Logger))
		NewTeamHandler(d.Matches).Register(limited)
		NewAnalyticsHandler(d.Analytics).Register(limited)
	}
}
