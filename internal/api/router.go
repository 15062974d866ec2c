package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ammar1510/chatterbox/internal/database"
	"github.com/ammar1510/chatterbox/internal/metrics"
	"github.com/ammar1510/chatterbox/internal/service"
)

// RouterConfig carries the HTTP settings that are not owned by a service.
type RouterConfig struct {
	AllowedOrigins []string
	SecureCookies  bool
}

// NewRouter wires handlers, middleware and operational endpoints.
func NewRouter(db database.DBInterface, authSvc *service.AuthService, msgSvc *service.MessageService, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), metrics.Middleware())

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	authHandler := NewAuthHandler(authSvc, cfg.SecureCookies)
	messageHandler := NewMessageHandler(msgSvc)
	requireSession := AuthMiddleware(authSvc)

	authRoutes := router.Group("/api/auth")
	{
		authRoutes.POST("/signup", authHandler.Signup)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)
		authRoutes.PUT("/update-profile", requireSession, authHandler.UpdateProfile)
		authRoutes.GET("/check-auth", requireSession, authHandler.CheckAuth)
	}

	messageRoutes := router.Group("/api/messages", requireSession)
	{
		messageRoutes.GET("", messageHandler.Contacts)
		messageRoutes.GET("/:userId", messageHandler.Conversation)
		messageRoutes.POST("", messageHandler.Send)
	}

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			log.Warn("Health check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return router
}
