package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vmsocial/timeline/config"
	"github.com/vmsocial/timeline/middleware"
	"github.com/vmsocial/timeline/utils"
)

// AuthController handles the administrative session. There is a single
// admin identity configured through the environment; no self-registration.
type AuthController struct{}

// NewAuthController creates a new AuthController instance.
func NewAuthController() *AuthController {
	return &AuthController{}
}

// Login verifies the configured admin credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	cfg := config.Get()
	if cfg.AdminUsername == "" || cfg.AdminPasswordHash == "" {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "admin credentials are not configured on server")
		return
	}

	// Same message for a bad username and a bad password.
	if req.Username != cfg.AdminUsername || !utils.CheckPassword(cfg.AdminPasswordHash, req.Password) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "incorrect username or password")
		return
	}

	duration := time.Duration(cfg.JWTExpireMinutes) * time.Minute
	token, err := utils.GenerateToken(cfg.AdminUsername, duration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(duration.Seconds()),
	})
}

// Logout revokes the presented token until its natural expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid authorization header")
		return
	}
	claims, err := utils.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid token")
		return
	}
	utils.BlacklistToken(claims.ID, claims.ExpiresAt.Time)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated identity.
func (a *AuthController) Me(ctx *gin.Context) {
	username, _ := ctx.Get(middleware.ContextUsernameKey)
	utils.Success(ctx, gin.H{"username": username})
}
