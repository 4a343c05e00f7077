package rest

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/emberquest/server/game/stats"
	"github.com/emberquest/server/middleware"
	"github.com/emberquest/server/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type loginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=6,max=64"`
}

// Login authenticates an account, auto-registering unknown usernames with a
// starting character. A successful login stores the session token in the
// cache, bumps the login counter and runs the engine's login hooks.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	ctx := c.Request.Context()

	var account model.Account
	err := h.db.WithContext(ctx).Where("username = ?", req.Username).First(&account).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, regErr := h.register(c, req.Username, req.Password)
		if regErr != nil {
			if isUniqueViolation(regErr) {
				c.JSON(http.StatusConflict, gin.H{"error": "username taken"})
				return
			}
			h.logger.Error("registration failed", zap.String("username", req.Username), zap.Error(regErr))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		account = *created
	case err != nil:
		h.logger.Error("account lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	default:
		if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
	}
	if account.Status == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "account banned"})
		return
	}

	token, err := middleware.GenerateToken(account.ID, account.Username,
		h.cfg.Security.JWTSecret, h.cfg.Security.JWTTTLH)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if err := h.cache.Set(ctx, "session:"+token, "1", h.cfg.Security.JWTTTLH); err != nil {
		h.logger.Error("session store failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	now := time.Now()
	if err := h.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"last_login_at": now,
			"last_login_ip": c.ClientIP(),
		}).Error; err != nil {
		h.logger.Error("last login update failed", zap.Int64("account_id", account.ID), zap.Error(err))
	}

	var char model.Character
	if err := h.db.WithContext(ctx).Where("account_id = ?", account.ID).First(&char).Error; err != nil {
		h.logger.Error("character load failed", zap.Int64("account_id", account.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	// Login hooks are best effort; the session is already established.
	if err := h.ledger.Increment(ctx, char.ID, stats.CounterLoginsTotal, 1); err != nil {
		h.logger.Error("login counter failed", zap.Int64("char_id", char.ID), zap.Error(err))
	}
	if err := h.quests.OnLogin(ctx, char.ID); err != nil {
		h.logger.Error("login hook failed", zap.Int64("char_id", char.ID), zap.Error(err))
	}

	h.auditAction(c, "auth.login", &char.ID, nil,
		gin.H{"username": req.Username}, gin.H{"account_id": account.ID}, "")
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"account":   account,
		"character": char,
	})
}

// register creates the account and its starting character in one transaction.
func (h *Handler) register(c *gin.Context, username, password string) (*model.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	account := &model.Account{
		Username:     username,
		PasswordHash: string(hash),
	}
	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		char := &model.Character{
			AccountID: account.ID,
			Name:      username,
			ClassID:   1,
			Level:     1,
			Gold:      h.cfg.Game.StartingGold,
			HP:        100,
			MaxHP:     100,
		}
		return tx.Create(char).Error
	})
	if err != nil {
		return nil, err
	}
	h.logger.Info("account registered",
		zap.Int64("account_id", account.ID),
		zap.String("username", username))
	return account, nil
}

// Logout invalidates the current session token.
func (h *Handler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token != "" {
		if err := h.cache.Del(c.Request.Context(), "session:"+token); err != nil {
			h.logger.Error("session delete failed", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Refresh rotates the session token for an authenticated caller.
func (h *Handler) Refresh(c *gin.Context) {
	accountID := middleware.GetAccountID(c)
	var account model.Account
	if err := h.db.WithContext(c.Request.Context()).First(&account, accountID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
		return
	}

	token, err := middleware.GenerateToken(account.ID, account.Username,
		h.cfg.Security.JWTSecret, h.cfg.Security.JWTTTLH)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	ctx := c.Request.Context()
	if err := h.cache.Set(ctx, "session:"+token, "1", h.cfg.Security.JWTTTLH); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	old := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if old != "" {
		if err := h.cache.Del(ctx, "session:"+old); err != nil {
			h.logger.Error("old session delete failed", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
