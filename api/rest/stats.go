package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Stats returns the character's raw statistics row.
func (h *Handler) Stats(c *gin.Context) {
	char, ok := h.characterFor(c)
	if !ok {
		return
	}
	row, err := h.ledger.Get(c.Request.Context(), char.ID)
	if err != nil {
		h.logger.Error("statistics load failed", zap.Int64("char_id", char.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, row)
}
