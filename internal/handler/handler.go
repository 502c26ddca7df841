package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gullyscore/cricket-scoring-service/internal/live"
	"github.com/gullyscore/cricket-scoring-service/internal/observability"
	"github.com/gullyscore/cricket-scoring-service/internal/service"
)

// Register mounts all public routes on the given engine.
// Accepts service layer dependencies for API endpoints.
func Register(r *gin.Engine, repo Pinger, playerSvc service.PlayerService, matchSvc service.MatchService, hub *live.Hub, metrics *observability.Metrics) {
	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	// Prometheus scrape endpoint (root-level, outside the API group)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// Docs endpoints (root-level)
	RegisterDocs(r)

	api := r.Group(APIV1Prefix) // Versioning added via single source of truth
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewPlayerHandler(playerSvc).Register(api)
		NewMatchHandler(matchSvc, hub).Register(api)
	}
}
