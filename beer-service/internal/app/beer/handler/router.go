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
func SetupRoutes(beerHandler *BeerHandler, breweryHandler *BreweryHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("beer-service"))

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
			"service": "beer-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	breweries := router.Group("/breweries")
	{
		// Чтение публичное
		breweries.GET("", breweryHandler.ListBreweries)
		breweries.GET("/all", breweryHandler.GetAllBreweries)
		breweries.GET("/:id", breweryHandler.GetBrewery)

		// Мутации требуют аутентификации (и роли администратора в сервисе)
		protected := breweries.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.POST("", breweryHandler.CreateBrewery)
			protected.PUT("/:id", breweryHandler.UpdateBrewery)
			protected.DELETE("/:id", breweryHandler.DeleteBrewery)
		}
	}

	beers := router.Group("/beers")
	{
		beers.GET("", beerHandler.ListBeers)
		beers.GET("/:id", beerHandler.GetBeer)

		protected := beers.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.POST("", beerHandler.CreateBeer)
			protected.PUT("/:id", beerHandler.UpdateBeer)
			protected.DELETE("/:id", beerHandler.DeleteBeer)
			protected.POST("/:id/image", beerHandler.UploadBeerImage)
			protected.DELETE("/:id/image", beerHandler.DeleteBeerImage)
		}
	}

	return router
}
