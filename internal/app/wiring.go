// Package app assembles the reorder engine from configuration.
package app

import (
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/cache"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/config"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/repository/postgres"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/service"
)

// Engine holds the wired services
type Engine struct {
	Reorder        *service.ReorderService
	PurchaseOrders *service.PurchaseOrderService
}

// NewEngine wires repositories, cache and notifier into the services
func NewEngine(cfg *config.Config, db *postgres.DB, cacheLayer cache.CacheLayer, notifier service.AlertNotifier) *Engine {
	ttls := cache.TTLsFromConfig(cfg.Cache)

	stockRepo := postgres.NewStockRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	salesRepo := postgres.NewSalesRepository(db)
	orderRepo := postgres.NewPurchaseOrderRepository(db)

	velocity := service.NewVelocityEstimator(salesRepo, cacheLayer, ttls.Velocity, cfg.Reorder.VelocityWindowDays)
	scorer := service.NewSupplierScorer(orderRepo, catalogRepo, cacheLayer, ttls.SupplierScore,
		cfg.Reorder.SupplierHistoryMonths, cfg.Reorder.DefaultLeadTimeDays)

	reorder := service.NewReorderService(service.ReorderDependencies{
		Stock:    stockRepo,
		Catalog:  catalogRepo,
		Orders:   orderRepo,
		Velocity: velocity,
		Scorer:   scorer,
		Planner:  service.NewQuantityPlanner(cfg.Reorder.DefaultLeadTimeDays),
		Cache:    cacheLayer,
		Notifier: notifier,
	}, ttls, cfg.Reorder.BuildConcurrency)

	return &Engine{
		Reorder:        reorder,
		PurchaseOrders: service.NewPurchaseOrderService(orderRepo, catalogRepo, scorer, reorder),
	}
}
