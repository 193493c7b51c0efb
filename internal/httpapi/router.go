package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/brand-assistant/internal/chat"
	"github.com/suPer8Hu/brand-assistant/internal/common"
	"github.com/suPer8Hu/brand-assistant/internal/config"
	"github.com/suPer8Hu/brand-assistant/internal/httpapi/handlers"
	"github.com/suPer8Hu/brand-assistant/internal/httpapi/middleware"
	"github.com/suPer8Hu/brand-assistant/internal/prompts"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, cfg config.Config, svc *chat.Service, reg *prompts.Registry) *gin.Engine {
	common.UseJSONFieldNames()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())
	r.Use(middleware.Recovery())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	h := handlers.NewHandler(db, cfg, svc, reg)

	r.GET("/ping", h.Ping)

	api := r.Group("/api")

	// auth
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)

	api.GET("/categories", h.ListCategories)

	authGroup := api.Group("/")
	authGroup.Use(middleware.AuthRequired(cfg.JWTSecret, cfg.CookieName))
	authGroup.GET("/auth/user", h.CurrentUser)

	// conversations (JWT required)
	authGroup.POST("/conversations", h.CreateConversation)
	authGroup.GET("/conversations", h.ListConversations)
	authGroup.GET("/conversations/:id", h.GetConversation)
	authGroup.PUT("/conversations/:id/title", h.UpdateConversationTitle)
	authGroup.POST("/conversations/:id/messages", h.SendMessage)
	return r
}

func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			// browsers refuse credentials with a wildcard origin
			cc.AllowAllOrigins = true
			return cc
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	cc.AllowOrigins = origins
	cc.AllowCredentials = true
	return cc
}
