package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mistfall/emberhold/cache"
	"github.com/mistfall/emberhold/config"
)

const (
	AccountIDKey = "account_id"
	UsernameKey  = "username"
)

// SessionKey is the cache key holding a live login session for a token.
func SessionKey(token string) string { return "session:" + token }

func bearerToken(ctx *gin.Context) (string, bool) {
	h := ctx.GetHeader("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	return token, ok && token != ""
}

func deny(ctx *gin.Context, msg string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// Auth admits only requests carrying a valid Bearer JWT whose login
// session is still live in the cache. The cache check is what makes
// logout and bans take effect before the token itself expires.
func Auth(sec config.SecurityConfig, c cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx)
		if !ok {
			deny(ctx, "missing token")
			return
		}
		claims, err := ParseToken(token, sec.JWTSecret)
		if err != nil {
			deny(ctx, "invalid token")
			return
		}

		cacheCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		live, err := c.Exists(cacheCtx, SessionKey(token))
		cancel()
		if err != nil || !live {
			deny(ctx, "session expired")
			return
		}

		ctx.Set(AccountIDKey, claims.AccountID)
		ctx.Set(UsernameKey, claims.Username)
		ctx.Next()
	}
}

// GetAccountID retrieves the authenticated account id from the context.
func GetAccountID(c *gin.Context) int64 {
	if v, ok := c.Get(AccountIDKey); ok {
		return v.(int64)
	}
	return 0
}
