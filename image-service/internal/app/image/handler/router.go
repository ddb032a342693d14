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
// blobRoot - корневая директория хранилища для отдачи статики
func SetupRoutes(imageHandler *ImageHandler, blobRoot string) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("image-service"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "image-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Блобы отдаются как статика по тем же путям, что в URI
	router.Static("/blobs", blobRoot)

	images := router.Group("/images")
	{
		images.POST("", imageHandler.UploadImage)
		images.DELETE("", imageHandler.DeleteImage)
		images.DELETE("/prefix", imageHandler.DeleteImagesByPrefix)
	}

	return router
}
