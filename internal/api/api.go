package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/api/handlers"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/api/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Reorder        handlers.ReorderEngine
	PurchaseOrders handlers.PurchaseOrderCreator
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
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

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Reorder != nil {
			reorderHandler := handlers.NewReorderHandler(services.Reorder)
			storeGroup := apiGroup.Group("/stores/:store")
			{
				reorderGroup := storeGroup.Group("/reorder")
				{
					reorderGroup.GET("", reorderHandler.GetReorderList)
					reorderGroup.GET("/suppliers", reorderHandler.GetReorderListBySupplier)
					reorderGroup.GET("/automatic", reorderHandler.GetAutomaticCandidates)
					reorderGroup.GET("/critical", reorderHandler.GetCriticalItems)
					reorderGroup.GET("/comparison", reorderHandler.GetSupplierComparison)
					reorderGroup.POST("/alerts", reorderHandler.DispatchLowStockAlerts)
					reorderGroup.DELETE("/cache", reorderHandler.InvalidateStoreCache)
				}
				storeGroup.GET("/products/:product/reorder", reorderHandler.GetRecommendation)
			}

			apiGroup.GET("/suppliers/:supplier/scorecard", reorderHandler.GetSupplierScoreCard)
			apiGroup.DELETE("/reorder/cache", reorderHandler.InvalidateAllCache)
		}

		if services.PurchaseOrders != nil {
			poHandler := handlers.NewPurchaseOrderHandler(services.PurchaseOrders)
			apiGroup.POST("/stores/:store/purchase-orders", poHandler.CreatePurchaseOrder)
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
