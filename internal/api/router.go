package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/homely-dev/homely/internal/api/handlers"
	"github.com/homely-dev/homely/internal/auth"
	"github.com/homely-dev/homely/internal/config"
	"github.com/homely-dev/homely/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *gorm.DB, google auth.GoogleVerifier) *gin.Engine {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware())
	router.Use(corsMiddleware())

	authenticator := auth.NewAuthenticator(db, cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)

	userSvc := service.NewUserService(db)
	spaceSvc := service.NewSpaceService(db)
	widgetSvc := service.NewWidgetService(db)
	linkSvc := service.NewLinkService(db, service.NewHTTPMetadataFetcher())

	authHandler := handlers.NewAuthHandler(authenticator, google, userSvc)
	userHandler := handlers.NewUserHandler(userSvc)
	spaceHandler := handlers.NewSpaceHandler(spaceSvc)
	widgetHandler := handlers.NewWidgetHandler(widgetSvc)
	linkHandler := handlers.NewLinkHandler(linkSvc)

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/health/", handlers.HealthCheck)
		public.POST("/auth/login/", authHandler.Login)
		public.POST("/auth/google/", authHandler.GoogleLogin)
		public.POST("/auth/token/verify/", authHandler.VerifyToken)
		public.POST("/auth/token/refresh/", authHandler.RefreshToken)
		public.POST("/users/", userHandler.Register)
	}

	// Browsing routes: anonymous visitors see homepage spaces, signed-in
	// users additionally see their own.
	browse := router.Group("/api")
	browse.Use(authenticator.OptionalMiddleware())
	{
		browse.GET("/spaces/", spaceHandler.ListSpaces)
		browse.GET("/spaces/:id/", spaceHandler.GetSpace)
	}

	// Protected routes (require authentication)
	protected := router.Group("/api")
	protected.Use(authenticator.Middleware())
	{
		protected.POST("/auth/logout/", authHandler.Logout)

		protected.GET("/users/me/", userHandler.Me)
		protected.PATCH("/users/me/", userHandler.UpdateMe)

		protected.POST("/spaces/", spaceHandler.CreateSpace)
		protected.PATCH("/spaces/:id/", spaceHandler.UpdateSpace)
		protected.DELETE("/spaces/:id/", spaceHandler.DeleteSpace)
		protected.POST("/spaces/:id/clone/", spaceHandler.CloneSpace)
		protected.POST("/spaces/:id/toggle-bookmark/", spaceHandler.ToggleBookmark)
		protected.GET("/spaces/bookmarked/", spaceHandler.ListBookmarkedSpaces)

		protected.POST("/links/", linkHandler.GetOrCreateLink)

		protected.GET("/widgets/", widgetHandler.ListWidgets)
		protected.POST("/widgets/", widgetHandler.CreateWidget)
		protected.GET("/widgets/:id/", widgetHandler.GetWidget)
		protected.PATCH("/widgets/:id/", widgetHandler.UpdateWidget)
		protected.DELETE("/widgets/:id/", widgetHandler.DeleteWidget)
	}

	// Swagger documentation
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	slog.Info("API router initialized", "mode", cfg.Server.Mode)
	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		slog.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"ip", c.ClientIP(),
		)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
