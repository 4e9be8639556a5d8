// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/andresuchdata/storeops/backend-go/internal/api/handlers"
	"github.com/andresuchdata/storeops/backend-go/internal/api/middleware"
	"github.com/andresuchdata/storeops/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	StoreService          *service.StoreService
	RecommendationService *service.RecommendationService
	ExportService         *service.ExportService
	Sessions              *service.SessionStore
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", handlers.SessionHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", handlers.SessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	if services != nil {
		storeGroup := apiGroup.Group("/stores")

		if services.StoreService != nil {
			storeHandler := handlers.NewStoreHandler(services.StoreService)
			storeGroup.GET("", storeHandler.GetStores)
			storeGroup.GET("/:store/products/:product/forecast", storeHandler.GetProductForecast)
		}

		if services.RecommendationService != nil {
			recHandler := handlers.NewRecommendationHandler(services.RecommendationService, services.Sessions, services.ExportService)
			storeGroup.GET("/:store/recommendations", recHandler.GetRecommendations)
			storeGroup.GET("/:store/recommendations/export", recHandler.ExportRecommendations)
			storeGroup.POST("/:store/products/prefetch", recHandler.PrefetchProducts)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
