package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hoppyhub/pkg/logger"
	"hoppyhub/pkg/metrics"
)

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(opinionHandler *OpinionHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("opinion-service"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link", "X-Pagination"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "opinion-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	opinions := router.Group("/opinions")
	{
		// Чтение публичное
		opinions.GET("", opinionHandler.ListOpinions)
		opinions.GET("/:id", opinionHandler.GetOpinion)

		// Мутации требуют аутентификации, авторство проверяется в сервисе
		protected := opinions.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.POST("", opinionHandler.CreateOpinion)
			protected.PUT("/:id", opinionHandler.UpdateOpinion)
			protected.DELETE("/:id", opinionHandler.DeleteOpinion)
		}
	}

	return router
}
