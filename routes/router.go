package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vmsocial/timeline/config"
	"github.com/vmsocial/timeline/controllers"
	"github.com/vmsocial/timeline/middleware"
	"github.com/vmsocial/timeline/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	// Patch payloads list explicit fields; unknown keys are an error, not a
	// silent no-op.
	gin.EnableJsonDecoderDisallowUnknownFields()

	r := gin.New()
	if utils.Logger != nil {
		r.Use(utils.Ginzap(utils.Logger))
		r.Use(utils.RecoveryWithZap(utils.Logger))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController()
	authorController := controllers.NewAuthorController(db)
	postController := controllers.NewPostController(db)
	textController := controllers.NewTextController(db)
	eventController := controllers.NewEventController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", middleware.RateLimitMiddleware(), authController.Login)
	authGroup.POST("/logout", middleware.AdminRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AdminRequired(), authController.Me)

	// Public read surface
	api.GET("/authors", authorController.ListAuthors)
	api.GET("/authors/:id", authorController.GetAuthor)
	api.GET("/posts", postController.ListPosts)
	api.GET("/posts/:id", postController.GetPost)
	api.GET("/posts/:id/thread", postController.GetThread)
	api.GET("/texts/by_post/:postId", textController.ListByPost)
	api.GET("/events", eventController.ListEvents)
	api.GET("/events/:id", eventController.GetEvent)
	api.GET("/stats", statsController.GetStats)

	// Every mutation requires the administrative token.
	protected := api.Group("")
	protected.Use(middleware.AdminRequired())
	protected.POST("/authors", authorController.CreateAuthor)
	protected.POST("/authors/ensure", authorController.EnsureAuthor)
	protected.PATCH("/authors/:id", authorController.UpdateAuthor)
	protected.DELETE("/authors/:id", authorController.DeleteAuthor)

	protected.POST("/posts", postController.CreatePost)
	protected.POST("/posts/:id/reply", postController.CreateReply)
	protected.PATCH("/posts/:id", postController.UpdatePost)
	protected.DELETE("/posts/:id", postController.DeletePost)

	protected.POST("/texts", textController.AddText)
	protected.PATCH("/texts/pair/:id", textController.EditPair)
	protected.DELETE("/texts/pair/:id", textController.DeletePair)

	protected.POST("/events", eventController.CreateEvent)
	protected.PATCH("/events/:id", eventController.UpdateEvent)
	protected.DELETE("/events/:id", eventController.DeleteEvent)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
