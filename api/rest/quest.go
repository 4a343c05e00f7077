package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListQuests returns the active catalog annotated with the character's
// status and objective progress.
func (h *Handler) ListQuests(c *gin.Context) {
	char, ok := h.characterFor(c)
	if !ok {
		return
	}
	views, err := h.quests.ListForCharacter(c.Request.Context(), char)
	if err != nil {
		h.logger.Error("quest list failed", zap.Int64("char_id", char.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quests": views})
}

func questIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest id"})
		return 0, false
	}
	return id, true
}

// AcceptQuest starts a quest, seeding progress from past activity.
func (h *Handler) AcceptQuest(c *gin.Context) {
	char, ok := h.characterFor(c)
	if !ok {
		return
	}
	questID, ok := questIDParam(c)
	if !ok {
		return
	}

	uq, err := h.quests.Accept(c.Request.Context(), char.ID, questID)
	if err != nil {
		h.auditAction(c, "quest.accept", &char.ID, &questID, nil, nil, err.Error())
		h.questError(c, err)
		return
	}
	h.auditAction(c, "quest.accept", &char.ID, &questID, nil, uq, "")
	c.JSON(http.StatusOK, gin.H{"quest": uq})
}

// ClaimQuest turns a completed quest in and reports the granted rewards.
func (h *Handler) ClaimQuest(c *gin.Context) {
	char, ok := h.characterFor(c)
	if !ok {
		return
	}
	questID, ok := questIDParam(c)
	if !ok {
		return
	}

	result, err := h.quests.Claim(c.Request.Context(), char.ID, questID)
	if err != nil {
		h.auditAction(c, "quest.claim", &char.ID, &questID, nil, nil, err.Error())
		h.questError(c, err)
		return
	}
	h.auditAction(c, "quest.claim", &char.ID, &questID, nil, result, "")
	c.JSON(http.StatusOK, result)
}

// AbandonQuest drops an active quest and its progress.
func (h *Handler) AbandonQuest(c *gin.Context) {
	char, ok := h.characterFor(c)
	if !ok {
		return
	}
	questID, ok := questIDParam(c)
	if !ok {
		return
	}

	if err := h.quests.Abandon(c.Request.Context(), char.ID, questID); err != nil {
		h.auditAction(c, "quest.abandon", &char.ID, &questID, nil, nil, err.Error())
		h.questError(c, err)
		return
	}
	h.auditAction(c, "quest.abandon", &char.ID, &questID, nil, nil, "")
	c.JSON(http.StatusOK, gin.H{"message": "quest abandoned"})
}
