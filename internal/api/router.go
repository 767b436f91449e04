package api

import (
	"github.com/gin-gonic/gin"

	"github.com/riftrewind/rewind-server/config"
	"github.com/riftrewind/rewind-server/internal/api/handler"
	"github.com/riftrewind/rewind-server/internal/api/middleware"
)

type Router struct {
	rewindHandler  *handler.RewindHandler
	compareHandler *handler.CompareHandler
	healthHandler  *handler.HealthHandler
	cfg            *config.Config
}

func NewRouter(
	rewindHandler *handler.RewindHandler,
	compareHandler *handler.CompareHandler,
	healthHandler *handler.HealthHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		rewindHandler:  rewindHandler,
		compareHandler: compareHandler,
		healthHandler:  healthHandler,
		cfg:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	engine.GET("/healthz", r.healthHandler.Check)

	api := engine.Group("/api/v1")
	{
		jobs := api.Group("/jobs")
		{
			rewind := jobs.Group("/rewind")
			rewind.Use(middleware.RequireFeature(r.cfg.Features.Rewind, "rewind"))
			{
				rewind.POST("", r.rewindHandler.Start)
				rewind.GET("/:jobId", r.rewindHandler.Status)
			}

			compare := jobs.Group("/compare")
			compare.Use(middleware.RequireFeature(r.cfg.Features.Compare, "compare"))
			{
				compare.POST("", r.compareHandler.Start)
				compare.GET("/:jobId", r.compareHandler.Status)
			}
		}
	}

	return engine
}
