package http

import (
	"github.com/gin-gonic/gin"
	"github.com/ix-ath/shelf-sense/config"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = MaxImageBytes

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		session := v1.Group("/session")
		{
			session.GET("", handler.GetSession)
			session.PUT("/image", handler.PutImage)
			session.DELETE("/image", handler.DeleteImage)
			session.PUT("/query", handler.PutQuery)
			session.PUT("/tags", handler.PutSessionTags)
			session.POST("/analyze", handler.Analyze)
			session.POST("/reset", handler.Reset)
			session.PUT("/focus", handler.PutFocus)
		}

		history := v1.Group("/history")
		{
			history.GET("", handler.ListHistory)
			history.POST("/:id/load", handler.LoadHistory)
			history.DELETE("", handler.ClearHistory)
		}

		prefs := v1.Group("/preferences")
		{
			prefs.GET("", handler.GetSettings)
			prefs.GET("/tags", handler.GetTags)
			prefs.POST("/tags/toggle", handler.ToggleTag)
			prefs.GET("/tags/catalog", handler.GetTagCatalog)
			prefs.GET("/theme", handler.GetTheme)
			prefs.PUT("/theme", handler.PutTheme)
		}

		v1.GET("/themes", handler.ListThemes)
	}

	return router
}
