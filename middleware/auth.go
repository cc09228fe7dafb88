package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vmsocial/timeline/config"
	"github.com/vmsocial/timeline/utils"
)

const (
	// ContextUsernameKey stores the authenticated username inside Gin context.
	ContextUsernameKey = "username"
	// ContextTokenIDKey stores the token jti inside Gin context.
	ContextTokenIDKey = "token_id"
)

// AdminRequired ensures the request carries a valid, unrevoked JWT for the
// configured administrative identity. Every mutating route runs behind it.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "invalid token")
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(claims.ID) {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "token revoked")
			ctx.Abort()
			return
		}

		cfg := config.Get()
		if cfg.AdminUsername == "" || claims.Username != cfg.AdminUsername {
			utils.Error(ctx, http.StatusForbidden, 40301, "not authorized")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextTokenIDKey, claims.ID)
		ctx.Next()
	}
}
