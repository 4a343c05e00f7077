package rest

import (
	"github.com/emberquest/server/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// NewRouter builds the gin engine with the full middleware chain and all
// routes registered.
func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	if !h.cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.TraceID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RateLimit(rate.Limit(h.cfg.Security.RateLimitRPS), h.cfg.Security.RateLimitBurst))

	if h.cfg.Server.StaticDir != "" {
		r.Static("/app", h.cfg.Server.StaticDir)
	}

	api := r.Group("/api")
	{
		api.POST("/auth/login", h.Login)

		authed := api.Group("")
		authed.Use(middleware.Auth(h.cfg.Security, h.cache))
		{
			authed.POST("/auth/logout", h.Logout)
			authed.POST("/auth/refresh", h.Refresh)
			authed.GET("/profile", h.Profile)
			authed.GET("/stats", h.Stats)
			authed.GET("/quests", h.ListQuests)
			authed.POST("/quests/:id/accept", h.AcceptQuest)
			authed.POST("/quests/:id/claim", h.ClaimQuest)
			authed.POST("/quests/:id/abandon", h.AbandonQuest)
			authed.GET("/ranking/gold", h.GoldRanking)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth(h.cfg.Server.AdminKey))
		{
			admin.GET("/quests", h.AdminListQuests)
			admin.POST("/quests/reload", h.AdminReloadCatalog)
		}
	}
	return r
}
