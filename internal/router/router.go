package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"menuparser/internal/auth"
	"menuparser/internal/middleware"
	"menuparser/internal/parsing"
)

type Options struct {
	// ServiceSecret enables service-token auth on the parse routes.
	ServiceSecret []byte
	CORSOrigins   []string
}

func NewRouter(handler *parsing.Handler, opts Options) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Health check route
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("")
	if len(opts.ServiceSecret) > 0 {
		api.Use(
			middleware.AuthMiddleware(opts.ServiceSecret),
			middleware.RequireRole(auth.RoleParser, auth.RoleAdmin),
		)
	}
	{
		api.POST("/parse-menu", handler.ParseMenu)
		api.POST("/parse-menu-from-file", handler.ParseMenuFromFile)
		api.GET("/menus/:collection/:docId", handler.GetMenu)
	}

	return r
}
