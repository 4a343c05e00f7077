package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/emberquest/server/audit"
	"github.com/emberquest/server/cache"
	"github.com/emberquest/server/config"
	"github.com/emberquest/server/game/quest"
	"github.com/emberquest/server/game/ranking"
	"github.com/emberquest/server/game/stats"
	"github.com/emberquest/server/middleware"
	"github.com/emberquest/server/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler carries the dependencies shared by all REST endpoints.
type Handler struct {
	db      *gorm.DB
	cfg     *config.Config
	cache   cache.Cache
	quests  *quest.Service
	ledger  *stats.Ledger
	ranking *ranking.Service
	audit   *audit.Service
	logger  *zap.Logger
}

func NewHandler(
	db *gorm.DB,
	cfg *config.Config,
	c cache.Cache,
	quests *quest.Service,
	ledger *stats.Ledger,
	rank *ranking.Service,
	auditSvc *audit.Service,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		db:      db,
		cfg:     cfg,
		cache:   c,
		quests:  quests,
		ledger:  ledger,
		ranking: rank,
		audit:   auditSvc,
		logger:  logger,
	}
}

// characterFor loads the account's character. Accounts own exactly one
// character, created at first login.
func (h *Handler) characterFor(c *gin.Context) (*model.Character, bool) {
	accountID := middleware.GetAccountID(c)
	var char model.Character
	err := h.db.WithContext(c.Request.Context()).
		Where("account_id = ?", accountID).
		First(&char).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
		return nil, false
	}
	if err != nil {
		h.logger.Error("character lookup failed", zap.Int64("account_id", accountID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}
	return &char, true
}

// questStatusCode maps engine validation errors to HTTP statuses.
func questStatusCode(err error) int {
	switch {
	case errors.Is(err, quest.ErrQuestNotFound),
		errors.Is(err, quest.ErrCharacterNotFound),
		errors.Is(err, quest.ErrObjectiveNotFound):
		return http.StatusNotFound
	case errors.Is(err, quest.ErrQuestInactive),
		errors.Is(err, quest.ErrLevelTooLow),
		errors.Is(err, quest.ErrPrerequisiteUnmet),
		errors.Is(err, quest.ErrLoginQuestAbandon):
		return http.StatusForbidden
	case errors.Is(err, quest.ErrAlreadyActive),
		errors.Is(err, quest.ErrAlreadyCompleted),
		errors.Is(err, quest.ErrAlreadyClaimed),
		errors.Is(err, quest.ErrNotActive),
		errors.Is(err, quest.ErrNotCompleted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) questError(c *gin.Context, err error) {
	code := questStatusCode(err)
	if code == http.StatusInternalServerError {
		h.logger.Error("quest operation failed", zap.Error(err))
		c.JSON(code, gin.H{"error": "internal error"})
		return
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

// isUniqueViolation detects duplicate-key errors from common drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") ||
		strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "already exists")
}

func (h *Handler) auditAction(c *gin.Context, action string, charID, questID *int64, req, resp interface{}, errMsg string) {
	if h.audit == nil {
		return
	}
	accountID := middleware.GetAccountID(c)
	var accountPtr *int64
	if accountID != 0 {
		accountPtr = &accountID
	}
	h.audit.Log(audit.Entry{
		TraceID:   c.GetString(middleware.TraceIDKey),
		CharID:    charID,
		AccountID: accountPtr,
		Action:    action,
		QuestID:   questID,
		Request:   req,
		Response:  resp,
		Error:     errMsg,
		IP:        c.ClientIP(),
	})
}
