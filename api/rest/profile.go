package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Profile returns the character sheet with its statistics row. Fetching the
// profile also runs the daily-login evaluation, so long-lived sessions that
// never re-authenticate still roll their login quests over at midnight.
func (h *Handler) Profile(c *gin.Context) {
	char, ok := h.characterFor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if err := h.quests.EvaluateDailyLogin(ctx, char.ID, time.Now()); err != nil {
		h.logger.Error("daily login evaluation failed", zap.Int64("char_id", char.ID), zap.Error(err))
	}

	statsRow, err := h.ledger.Get(ctx, char.ID)
	if err != nil {
		h.logger.Error("statistics load failed", zap.Int64("char_id", char.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"character":  char,
		"statistics": statsRow,
	})
}
