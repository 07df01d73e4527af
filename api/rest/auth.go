package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mistfall/emberhold/cache"
	"github.com/mistfall/emberhold/config"
	mw "github.com/mistfall/emberhold/middleware"
	"github.com/mistfall/emberhold/model"
)

// AuthHandler serves login and logout. Unknown usernames register on
// first login, so there is no separate signup endpoint.
type AuthHandler struct {
	db     *gorm.DB
	cache  cache.Cache
	sec    config.SecurityConfig
	logger *zap.Logger
}

func NewAuthHandler(db *gorm.DB, c cache.Cache, sec config.SecurityConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, cache: c, sec: sec, logger: logger}
}

type loginRequest struct {
	Username string `json:"username" binding:"required,min=2,max=32"`
	Password string `json:"password" binding:"required,min=6,max=64"`
}

// Login authenticates, creating the account when the username is new.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var acc model.Account
	err := h.db.Where("username = ?", req.Username).First(&acc).Error
	if err == gorm.ErrRecordNotFound {
		acc, err = h.register(c, req)
		if err != nil {
			return // register already wrote the response
		}
	} else if err != nil {
		h.logger.Error("account lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	} else {
		if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong password"})
			return
		}
	}

	if acc.Status == model.AccountBanned {
		c.JSON(http.StatusForbidden, gin.H{"error": "account banned"})
		return
	}

	token, err := mw.GenerateToken(acc.ID, acc.Username, h.sec.JWTSecret, h.sec.JWTTTLH)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if err := h.cache.Set(c.Request.Context(), mw.SessionKey(token), "1", h.sec.JWTTTLH); err != nil {
		h.logger.Error("session store failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	now := time.Now()
	h.db.Model(&model.Account{}).Where("id = ?", acc.ID).
		Updates(map[string]interface{}{"last_login_at": now, "last_login_ip": c.ClientIP()})

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"account_id": acc.ID,
		"username":   acc.Username,
	})
}

// register creates the account for a first-time username. Writes the
// error response itself on failure.
func (h *AuthHandler) register(c *gin.Context, req loginRequest) (model.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		h.logger.Error("password hash failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return model.Account{}, err
	}
	acc := model.Account{Username: req.Username, PasswordHash: string(hash), Status: model.AccountActive}
	if err := h.db.Create(&acc).Error; err != nil {
		// Lost a race against a concurrent first login for the same name.
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "username taken, retry"})
		} else {
			h.logger.Error("account create failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return model.Account{}, err
	}
	h.logger.Info("account registered", zap.String("username", acc.Username), zap.Int64("account_id", acc.ID))
	return acc, nil
}

// Refresh rotates the caller's token: a new token and session replace
// the old ones in one call.
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	accountID := mw.GetAccountID(c)
	username := c.GetString(mw.UsernameKey)

	token, err := mw.GenerateToken(accountID, username, h.sec.JWTSecret, h.sec.JWTTTLH)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if err := h.cache.Set(c.Request.Context(), mw.SessionKey(token), "1", h.sec.JWTTTLH); err != nil {
		h.logger.Error("session store failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if old := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "); old != "" {
		if err := h.cache.Del(c.Request.Context(), mw.SessionKey(old)); err != nil {
			h.logger.Warn("old session delete failed", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout drops the session so the token stops working before expiry.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token != "" {
		if err := h.cache.Del(c.Request.Context(), mw.SessionKey(token)); err != nil {
			h.logger.Warn("session delete failed", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
