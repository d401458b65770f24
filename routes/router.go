package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"socialnet/config"
	"socialnet/controllers"
	"socialnet/middleware"
	"socialnet/services"
	"socialnet/utils"
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

	r := gin.New()
	// Access log goes to its own rolling file when configured; panics always
	// recover through zap.
	if cfg.GinPath != "" {
		gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
		if err == nil {
			r.Use(utils.Ginzap(gl, time.RFC3339, true))
			r.Use(utils.RecoveryWithZap(gl, false))
		} else {
			r.Use(gin.Recovery())
		}
	} else if utils.Logger != nil {
		r.Use(utils.RecoveryWithZap(utils.Logger, false))
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

	// Uploaded images are served from wherever UploadDir points, so an
	// overridden storage root still resolves under the public URL prefix.
	r.Static(controllers.UploadURLPrefix, cfg.UploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	postService := services.NewPostService(db)
	commentService := services.NewCommentService(db)

	postController := controllers.NewPostController(postService)
	commentController := controllers.NewCommentController(commentService)
	uploadController := controllers.NewUploadController()

	api := r.Group("/api/v1")

	// Reads are public; an optional token still identifies the caller.
	public := api.Group("")
	public.Use(middleware.AuthOptional())
	public.GET("/posts", postController.ListPosts)
	public.GET("/posts/:id", postController.GetPost)
	public.GET("/comments", commentController.ListComments)
	public.GET("/comments/:id", commentController.GetComment)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/upload", uploadController.UploadImage)
	protected.POST("/posts", postController.CreatePost)
	protected.PUT("/posts/:id", postController.UpdatePost)
	protected.PATCH("/posts/:id", postController.UpdatePost)
	protected.DELETE("/posts/:id", postController.DeletePost)
	protected.POST("/posts/:id/like", postController.LikePost)
	protected.DELETE("/posts/:id/unlike", postController.UnlikePost)
	protected.POST("/comments", commentController.CreateComment)
	protected.PUT("/comments/:id", commentController.UpdateComment)
	protected.PATCH("/comments/:id", commentController.UpdateComment)
	protected.DELETE("/comments/:id", commentController.DeleteComment)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
