package rest

import (
	"net/http"

	"github.com/emberquest/server/game/quest"
	"github.com/emberquest/server/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminListQuests dumps the full catalog including inactive quests.
func (h *Handler) AdminListQuests(c *gin.Context) {
	var quests []model.Quest
	err := h.db.WithContext(c.Request.Context()).
		Preload("Objectives").
		Order("id ASC").
		Find(&quests).Error
	if err != nil {
		h.logger.Error("catalog dump failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quests": quests})
}

// AdminReloadCatalog re-runs the idempotent catalog seeding, picking up
// built-in quests deleted by hand.
func (h *Handler) AdminReloadCatalog(c *gin.Context) {
	if err := quest.SeedCatalog(c.Request.Context(), h.db, h.logger); err != nil {
		h.logger.Error("catalog reload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	var count int64
	h.db.Model(&model.Quest{}).Count(&count)
	h.auditAction(c, "admin.catalog_reload", nil, nil, nil, gin.H{"quests": count}, "")
	c.JSON(http.StatusOK, gin.H{"quests": count})
}
