package service

import (
	"context"
	"fmt"
	"time"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/cache"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/repository"
)

const DefaultVelocityWindowDays = 30

// VelocityEstimator computes trailing average daily sales per product and store
type VelocityEstimator struct {
	sales         repository.SalesRepository
	cache         cache.CacheLayer
	ttl           time.Duration
	defaultWindow int
	now           func() time.Time
}

func NewVelocityEstimator(sales repository.SalesRepository, cacheImpl cache.CacheLayer, ttl time.Duration, defaultWindow int) *VelocityEstimator {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopCache()
	}
	if defaultWindow <= 0 {
		defaultWindow = DefaultVelocityWindowDays
	}
	if ttl <= 0 {
		ttl = cache.DefaultTTLs().Velocity
	}
	return &VelocityEstimator{
		sales:         sales,
		cache:         cacheImpl,
		ttl:           ttl,
		defaultWindow: defaultWindow,
		now:           time.Now,
	}
}

// Estimate returns units sold per day over the trailing window. A window of
// zero or less uses the configured default. No sales yields zero velocity.
func (e *VelocityEstimator) Estimate(ctx context.Context, productID, storeID int64, windowDays int) (domain.VelocityEstimate, error) {
	if windowDays <= 0 {
		windowDays = e.defaultWindow
	}

	key := cache.VelocityKey(productID, storeID, windowDays)
	policy := cache.Policy[domain.VelocityEstimate]{TTL: e.ttl, Tags: cache.StoreTags(storeID)}

	return cache.Remember(ctx, e.cache, key, policy, func(ctx context.Context) (domain.VelocityEstimate, error) {
		since := e.now().AddDate(0, 0, -windowDays)
		sold, err := e.sales.SumSoldQuantity(ctx, productID, storeID, since)
		if err != nil {
			return domain.VelocityEstimate{}, fmt.Errorf("velocity for product %d: %w", productID, err)
		}
		if sold < 0 {
			sold = 0
		}

		return domain.VelocityEstimate{
			ProductID:   productID,
			StoreID:     storeID,
			WindowDays:  windowDays,
			UnitsPerDay: float64(sold) / float64(windowDays),
		}, nil
	})
}
