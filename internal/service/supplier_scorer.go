package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/cache"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/repository"
	"github.com/shopspring/decimal"
)

const (
	DefaultReliabilityScore      = 50
	DefaultSupplierHistoryMonths = 6

	completionWeight  = 0.7
	timelinessWeight  = 0.3
	maxCostComponent  = 10.0
	leadTimeReference = 10.0
)

// SupplierScorer derives lead time, reliability and priority from purchase order history
type SupplierScorer struct {
	orders              repository.PurchaseOrderRepository
	catalog             repository.CatalogRepository
	cache               cache.CacheLayer
	ttl                 time.Duration
	historyMonths       int
	defaultLeadTimeDays float64
	now                 func() time.Time
}

func NewSupplierScorer(orders repository.PurchaseOrderRepository, catalog repository.CatalogRepository, cacheImpl cache.CacheLayer, ttl time.Duration, historyMonths int, defaultLeadTimeDays float64) *SupplierScorer {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopCache()
	}
	if historyMonths <= 0 {
		historyMonths = DefaultSupplierHistoryMonths
	}
	if defaultLeadTimeDays <= 0 {
		defaultLeadTimeDays = DefaultLeadTimeDays
	}
	if ttl <= 0 {
		ttl = cache.DefaultTTLs().SupplierScore
	}
	return &SupplierScorer{
		orders:              orders,
		catalog:             catalog,
		cache:               cacheImpl,
		ttl:                 ttl,
		historyMonths:       historyMonths,
		defaultLeadTimeDays: defaultLeadTimeDays,
		now:                 time.Now,
	}
}

func (s *SupplierScorer) since() time.Time {
	return s.now().AddDate(0, -s.historyMonths, 0)
}

// AverageLeadTimeDays is the mean ordered-to-received time of the supplier's
// recent orders, or the default when none were received.
func (s *SupplierScorer) AverageLeadTimeDays(ctx context.Context, supplierID int64) (float64, error) {
	if supplierID <= 0 {
		return s.defaultLeadTimeDays, nil
	}

	key := cache.SupplierKey(supplierID, cache.ShapeLeadTime)
	policy := cache.Policy[float64]{TTL: s.ttl, Tags: cache.SupplierTags(supplierID)}

	return cache.Remember(ctx, s.cache, key, policy, func(ctx context.Context) (float64, error) {
		outcomes, err := s.orders.ListPurchaseOrders(ctx, supplierID, s.since(), nil)
		if err != nil {
			return 0, fmt.Errorf("lead time for supplier %d: %w", supplierID, err)
		}
		return averageLeadTime(outcomes, s.defaultLeadTimeDays), nil
	})
}

// ReliabilityScore blends completion rate and on-time rate into 0-100
func (s *SupplierScorer) ReliabilityScore(ctx context.Context, supplierID int64) (int, error) {
	if supplierID <= 0 {
		return DefaultReliabilityScore, nil
	}

	key := cache.SupplierKey(supplierID, cache.ShapeReliability)
	policy := cache.Policy[int]{TTL: s.ttl, Tags: cache.SupplierTags(supplierID)}

	return cache.Remember(ctx, s.cache, key, policy, func(ctx context.Context) (int, error) {
		statuses := []domain.PurchaseOrderStatus{domain.POStatusCompleted, domain.POStatusCancelled}
		outcomes, err := s.orders.ListPurchaseOrders(ctx, supplierID, s.since(), statuses)
		if err != nil {
			return 0, fmt.Errorf("reliability for supplier %d: %w", supplierID, err)
		}
		return reliability(outcomes), nil
	})
}

// ScoreCard returns the supplier's scorecard without the store-scoped priority
func (s *SupplierScorer) ScoreCard(ctx context.Context, supplierID int64) (domain.SupplierScoreCard, error) {
	supplier, err := s.catalog.GetSupplier(ctx, supplierID)
	if err != nil {
		return domain.SupplierScoreCard{}, err
	}
	if supplier == nil {
		return domain.SupplierScoreCard{}, &domain.SupplierNotFoundError{SupplierID: supplierID}
	}

	lead, err := s.AverageLeadTimeDays(ctx, supplierID)
	if err != nil {
		return domain.SupplierScoreCard{}, err
	}
	score, err := s.ReliabilityScore(ctx, supplierID)
	if err != nil {
		return domain.SupplierScoreCard{}, err
	}

	return domain.SupplierScoreCard{
		SupplierID:          supplier.ID,
		SupplierName:        supplier.Name,
		AverageLeadTimeDays: lead,
		ReliabilityScore:    score,
	}, nil
}

// PriorityScore ranks a supplier within one store's reorder run
func PriorityScore(highPriorityCount, itemCount int, totalCost decimal.Decimal, leadTimeDays float64) float64 {
	cost, _ := totalCost.Div(decimal.NewFromInt(1000)).Float64()
	return float64(highPriorityCount)*10 +
		float64(itemCount)*2 +
		math.Min(cost, maxCostComponent) +
		math.Max(leadTimeReference-leadTimeDays, 0)
}

func averageLeadTime(outcomes []domain.PurchaseOrderOutcome, fallback float64) float64 {
	var total float64
	var n int
	for _, o := range outcomes {
		if days, ok := o.LeadTimeDays(); ok {
			total += days
			n++
		}
	}
	if n == 0 {
		return fallback
	}
	return total / float64(n)
}

func reliability(outcomes []domain.PurchaseOrderOutcome) int {
	var completed, cancelled, onTime int
	for _, o := range outcomes {
		switch o.Status {
		case domain.POStatusCompleted:
			completed++
			if o.DeliveredOnTime() {
				onTime++
			}
		case domain.POStatusCancelled:
			cancelled++
		}
	}
	if completed+cancelled == 0 {
		return DefaultReliabilityScore
	}

	completion := float64(completed) / float64(completed+cancelled) * 100
	timeliness := 100.0
	if completed > 0 {
		timeliness = float64(onTime) / float64(completed) * 100
	}
	return int(math.Round(completion*completionWeight + timeliness*timelinessWeight))
}
