package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/cache"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/repository"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// AutomaticReorderMaxDays is the days-remaining cutoff for automatic candidates
	AutomaticReorderMaxDays = 3
	DefaultBuildConcurrency = 8

	rankSeverityWeight = 1000
	rankDaysCap        = 100
)

// AlertNotifier delivers low-stock alerts to whatever notification channel is configured
type AlertNotifier interface {
	NotifyLowStock(ctx context.Context, alert domain.LowStockAlert) error
}

// ReorderDependencies groups the collaborators of ReorderService
type ReorderDependencies struct {
	Stock    repository.StockRepository
	Catalog  repository.CatalogRepository
	Orders   repository.PurchaseOrderRepository
	Velocity *VelocityEstimator
	Scorer   *SupplierScorer
	Planner  QuantityPlanner
	Cache    cache.CacheLayer
	Notifier AlertNotifier
}

// ReorderService builds reorder lists, supplier groupings and alerts for a store
type ReorderService struct {
	stock       repository.StockRepository
	catalog     repository.CatalogRepository
	orders      repository.PurchaseOrderRepository
	velocity    *VelocityEstimator
	scorer      *SupplierScorer
	planner     QuantityPlanner
	cache       cache.CacheLayer
	notifier    AlertNotifier
	ttls        cache.TTLs
	concurrency int
	now         func() time.Time
}

func NewReorderService(deps ReorderDependencies, ttls cache.TTLs, concurrency int) *ReorderService {
	if deps.Cache == nil {
		deps.Cache = cache.NewNoopCache()
	}
	if concurrency <= 0 {
		concurrency = DefaultBuildConcurrency
	}
	if deps.Planner.DefaultLeadTimeDays <= 0 {
		deps.Planner = NewQuantityPlanner(DefaultLeadTimeDays)
	}
	return &ReorderService{
		stock:       deps.Stock,
		catalog:     deps.Catalog,
		orders:      deps.Orders,
		velocity:    deps.Velocity,
		scorer:      deps.Scorer,
		planner:     deps.Planner,
		cache:       deps.Cache,
		notifier:    deps.Notifier,
		ttls:        ttls.OrDefaults(),
		concurrency: concurrency,
		now:         time.Now,
	}
}

func reportStorable(r domain.ReorderReport) bool { return !r.Partial }

func reportSupplierTags(r domain.ReorderReport) []string {
	ids := make([]int64, 0, len(r.Items))
	for _, item := range r.Items {
		ids = append(ids, item.SupplierID())
	}
	return cache.DistinctSupplierTags(ids...)
}

// GetReorderList returns every low-stock product of the store with its
// suggested reorder, most urgent first.
func (s *ReorderService) GetReorderList(ctx context.Context, storeID int64) (domain.ReorderReport, error) {
	policy := cache.Policy[domain.ReorderReport]{
		TTL:      s.ttls.ReorderList,
		Tags:     cache.StoreTags(storeID),
		TagsFor:  reportSupplierTags,
		Storable: reportStorable,
	}
	return cache.Remember(ctx, s.cache, cache.StoreKey(storeID, cache.ShapeReorderList), policy,
		func(ctx context.Context) (domain.ReorderReport, error) {
			return s.buildReport(ctx, storeID)
		})
}

func (s *ReorderService) buildReport(ctx context.Context, storeID int64) (domain.ReorderReport, error) {
	lowStock, err := s.stock.ListLowStock(ctx, storeID)
	if err != nil {
		return domain.ReorderReport{}, fmt.Errorf("list low stock for store %d: %w", storeID, err)
	}

	var (
		mu      sync.Mutex
		items   = make([]domain.ReorderRecommendation, 0, len(lowStock))
		skipped []domain.SkippedProduct
		g       errgroup.Group
	)
	g.SetLimit(s.concurrency)

	for _, item := range lowStock {
		item := item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := s.buildRecommendation(ctx, storeID, item)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn().Err(err).Int64("store_id", storeID).Int64("product_id", item.Product.ID).
					Msg("reorder: skipping product")
				skipped = append(skipped, domain.SkippedProduct{ProductID: item.Product.ID, Reason: err.Error()})
				return nil
			}
			items = append(items, rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.ReorderReport{}, err
	}

	SortByPriority(items)
	sort.Slice(skipped, func(i, j int) bool { return skipped[i].ProductID < skipped[j].ProductID })

	return domain.ReorderReport{
		StoreID:     storeID,
		Items:       items,
		Skipped:     skipped,
		Partial:     len(skipped) > 0,
		GeneratedAt: s.now(),
	}, nil
}

// GetRecommendation builds the recommendation for one product of the store,
// whether or not it is currently below threshold.
func (s *ReorderService) GetRecommendation(ctx context.Context, storeID, productID int64) (domain.ReorderRecommendation, error) {
	stock, err := s.stock.GetStock(ctx, productID, storeID)
	if err != nil {
		return domain.ReorderRecommendation{}, err
	}
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return domain.ReorderRecommendation{}, err
	}
	if product == nil {
		return domain.ReorderRecommendation{}, &domain.ProductNotFoundError{ProductID: productID, StoreID: storeID}
	}

	item := domain.LowStockItem{Product: *product, Stock: stock}
	if product.SupplierID != nil {
		supplier, err := s.catalog.GetSupplier(ctx, *product.SupplierID)
		if err != nil && !domain.IsNotFound(err) {
			return domain.ReorderRecommendation{}, err
		}
		item.Supplier = supplier
	}

	return s.buildRecommendation(ctx, storeID, item)
}

func (s *ReorderService) buildRecommendation(ctx context.Context, storeID int64, item domain.LowStockItem) (domain.ReorderRecommendation, error) {
	productID := item.Product.ID

	velocity, err := s.velocity.Estimate(ctx, productID, storeID, 0)
	if err != nil {
		return domain.ReorderRecommendation{}, err
	}

	var supplierID int64
	if item.Supplier != nil {
		supplierID = item.Supplier.ID
	}
	leadTime, err := s.scorer.AverageLeadTimeDays(ctx, supplierID)
	if err != nil {
		return domain.ReorderRecommendation{}, err
	}

	pending, err := s.orders.PendingOrderedQuantity(ctx, productID, storeID)
	if err != nil {
		return domain.ReorderRecommendation{}, fmt.Errorf("pending quantity for product %d: %w", productID, err)
	}
	lastOrdered, err := s.orders.LastOrderedAt(ctx, productID, storeID)
	if err != nil {
		return domain.ReorderRecommendation{}, fmt.Errorf("last order for product %d: %w", productID, err)
	}

	plan := s.planner.Plan(velocity.UnitsPerDay, leadTime, item.Stock)
	severity := item.Stock.Severity()

	deficit := item.Stock.Threshold - item.Stock.CurrentStock
	if deficit < 0 {
		deficit = 0
	}

	return domain.ReorderRecommendation{
		Product:              item.Product,
		Supplier:             item.Supplier,
		StoreID:              storeID,
		CurrentStock:         item.Stock.CurrentStock,
		Threshold:            item.Stock.Threshold,
		Deficit:              deficit,
		SuggestedQuantity:    plan.SuggestedQuantity,
		EstimatedCost:        item.Product.CostPrice.Mul(decimal.NewFromInt(int64(plan.SuggestedQuantity))),
		Severity:             severity,
		SeverityLabel:        severity.Label(),
		Critical:             item.Stock.IsCritical(),
		Velocity:             velocity.UnitsPerDay,
		DaysRemaining:        plan.DaysRemaining,
		PendingOrderQuantity: pending,
		LastOrderedAt:        lastOrdered,
		AverageLeadTimeDays:  leadTime,
		PriorityRank:         PriorityRank(severity, plan.DaysRemaining),
	}, nil
}

// PriorityRank orders recommendations: severity dominates, fewer days remaining breaks ties
func PriorityRank(severity domain.Severity, daysRemaining int) int {
	days := daysRemaining
	if days > rankDaysCap {
		days = rankDaysCap
	}
	if days < 0 {
		days = 0
	}
	return int(severity)*rankSeverityWeight + (rankDaysCap - days)
}

// SortByPriority sorts by rank descending, then product id for a stable order
func SortByPriority(items []domain.ReorderRecommendation) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].PriorityRank != items[j].PriorityRank {
			return items[i].PriorityRank > items[j].PriorityRank
		}
		return items[i].Product.ID < items[j].Product.ID
	})
}

// GetReorderListBySupplier groups the reorder list by supplier, suppliers with
// the most high-priority items first.
func (s *ReorderService) GetReorderListBySupplier(ctx context.Context, storeID int64) (domain.SupplierGroupReport, error) {
	policy := cache.Policy[domain.SupplierGroupReport]{
		TTL:  s.ttls.ReorderList,
		Tags: cache.StoreTags(storeID),
		TagsFor: func(r domain.SupplierGroupReport) []string {
			ids := make([]int64, 0, len(r.Groups))
			for _, g := range r.Groups {
				ids = append(ids, g.SupplierID())
			}
			return cache.DistinctSupplierTags(ids...)
		},
		Storable: func(r domain.SupplierGroupReport) bool { return !r.Partial },
	}
	return cache.Remember(ctx, s.cache, cache.StoreKey(storeID, cache.ShapeBySupplier), policy,
		func(ctx context.Context) (domain.SupplierGroupReport, error) {
			report, err := s.GetReorderList(ctx, storeID)
			if err != nil {
				return domain.SupplierGroupReport{}, err
			}
			return domain.SupplierGroupReport{
				StoreID:     storeID,
				Groups:      GroupBySupplier(report.Items),
				Skipped:     report.Skipped,
				Partial:     report.Partial,
				GeneratedAt: s.now(),
			}, nil
		})
}

// GroupBySupplier groups recommendations by supplier. Items keep their
// priority order inside each group.
func GroupBySupplier(items []domain.ReorderRecommendation) []domain.SupplierGroup {
	index := make(map[int64]int)
	var groups []domain.SupplierGroup

	for _, item := range items {
		id := item.SupplierID()
		pos, ok := index[id]
		if !ok {
			pos = len(groups)
			index[id] = pos
			groups = append(groups, domain.SupplierGroup{Supplier: item.Supplier, TotalEstimatedCost: decimal.Zero})
		}
		g := &groups[pos]
		g.Items = append(g.Items, item)
		g.ItemCount++
		g.TotalEstimatedCost = g.TotalEstimatedCost.Add(item.EstimatedCost)
		if item.Severity.IsHighPriority() {
			g.HighPriorityCount++
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].HighPriorityCount != groups[j].HighPriorityCount {
			return groups[i].HighPriorityCount > groups[j].HighPriorityCount
		}
		if c := groups[i].TotalEstimatedCost.Cmp(groups[j].TotalEstimatedCost); c != 0 {
			return c > 0
		}
		return groups[i].SupplierID() < groups[j].SupplierID()
	})
	return groups
}

// GetAutomaticReorderCandidates returns high-severity items about to run out
// that have nothing on order.
func (s *ReorderService) GetAutomaticReorderCandidates(ctx context.Context, storeID int64) (domain.ReorderReport, error) {
	return s.filteredReport(ctx, storeID, cache.ShapeAutomatic, IsAutomaticCandidate)
}

// IsAutomaticCandidate reports whether a recommendation may be ordered without review
func IsAutomaticCandidate(r domain.ReorderRecommendation) bool {
	return r.Severity.IsHighPriority() &&
		r.DaysRemaining <= AutomaticReorderMaxDays &&
		r.PendingOrderQuantity == 0
}

// GetCriticalItems returns out-of-stock items and those at or below a quarter of threshold
func (s *ReorderService) GetCriticalItems(ctx context.Context, storeID int64) (domain.ReorderReport, error) {
	return s.filteredReport(ctx, storeID, cache.ShapeCritical, func(r domain.ReorderRecommendation) bool {
		return r.Critical
	})
}

func (s *ReorderService) filteredReport(ctx context.Context, storeID int64, shape string, keep func(domain.ReorderRecommendation) bool) (domain.ReorderReport, error) {
	policy := cache.Policy[domain.ReorderReport]{
		TTL:      s.ttls.CriticalList,
		Tags:     cache.StoreTags(storeID),
		TagsFor:  reportSupplierTags,
		Storable: reportStorable,
	}
	return cache.Remember(ctx, s.cache, cache.StoreKey(storeID, shape), policy,
		func(ctx context.Context) (domain.ReorderReport, error) {
			report, err := s.GetReorderList(ctx, storeID)
			if err != nil {
				return domain.ReorderReport{}, err
			}
			filtered := make([]domain.ReorderRecommendation, 0)
			for _, item := range report.Items {
				if keep(item) {
					filtered = append(filtered, item)
				}
			}
			report.Items = filtered
			report.GeneratedAt = s.now()
			return report, nil
		})
}

// GetSupplierComparison scores every supplier appearing in the store's
// reorder list and ranks them by priority score.
func (s *ReorderService) GetSupplierComparison(ctx context.Context, storeID int64) (domain.SupplierComparisonReport, error) {
	policy := cache.Policy[domain.SupplierComparisonReport]{
		TTL:  s.ttls.ReorderList,
		Tags: cache.StoreTags(storeID),
		TagsFor: func(r domain.SupplierComparisonReport) []string {
			ids := make([]int64, 0, len(r.Suppliers))
			for _, c := range r.Suppliers {
				ids = append(ids, c.SupplierID)
			}
			return cache.DistinctSupplierTags(ids...)
		},
		Storable: func(r domain.SupplierComparisonReport) bool { return !r.Partial },
	}
	return cache.Remember(ctx, s.cache, cache.StoreKey(storeID, cache.ShapeComparison), policy,
		func(ctx context.Context) (domain.SupplierComparisonReport, error) {
			return s.buildComparison(ctx, storeID)
		})
}

func (s *ReorderService) buildComparison(ctx context.Context, storeID int64) (domain.SupplierComparisonReport, error) {
	grouped, err := s.GetReorderListBySupplier(ctx, storeID)
	if err != nil {
		return domain.SupplierComparisonReport{}, err
	}

	comparisons := make([]domain.SupplierComparison, 0, len(grouped.Groups))
	for _, group := range grouped.Groups {
		if group.Supplier == nil {
			continue
		}
		supplierID := group.Supplier.ID

		lead, err := s.scorer.AverageLeadTimeDays(ctx, supplierID)
		if err != nil {
			return domain.SupplierComparisonReport{}, err
		}
		reliability, err := s.scorer.ReliabilityScore(ctx, supplierID)
		if err != nil {
			return domain.SupplierComparisonReport{}, err
		}

		comparisons = append(comparisons, domain.SupplierComparison{
			SupplierScoreCard: domain.SupplierScoreCard{
				SupplierID:          supplierID,
				SupplierName:        group.Supplier.Name,
				AverageLeadTimeDays: lead,
				ReliabilityScore:    reliability,
				PriorityScore:       PriorityScore(group.HighPriorityCount, group.ItemCount, group.TotalEstimatedCost, lead),
			},
			ItemCount:          group.ItemCount,
			HighPriorityCount:  group.HighPriorityCount,
			TotalEstimatedCost: group.TotalEstimatedCost,
		})
	}

	sort.SliceStable(comparisons, func(i, j int) bool {
		if comparisons[i].PriorityScore != comparisons[j].PriorityScore {
			return comparisons[i].PriorityScore > comparisons[j].PriorityScore
		}
		return comparisons[i].SupplierID < comparisons[j].SupplierID
	})
	for i := range comparisons {
		comparisons[i].Rank = i + 1
	}

	return domain.SupplierComparisonReport{
		StoreID:     storeID,
		Suppliers:   comparisons,
		Skipped:     grouped.Skipped,
		Partial:     grouped.Partial,
		GeneratedAt: s.now(),
	}, nil
}

// GetSupplierScoreCard returns a supplier's lead time and reliability
func (s *ReorderService) GetSupplierScoreCard(ctx context.Context, supplierID int64) (domain.SupplierScoreCard, error) {
	return s.scorer.ScoreCard(ctx, supplierID)
}

// DispatchLowStockAlerts publishes the store's critical items. Nothing is
// sent when the store has no critical items.
func (s *ReorderService) DispatchLowStockAlerts(ctx context.Context, storeID int64) (domain.LowStockAlert, error) {
	critical, err := s.GetCriticalItems(ctx, storeID)
	if err != nil {
		return domain.LowStockAlert{}, err
	}

	alert := domain.LowStockAlert{StoreID: storeID, Items: critical.Items, GeneratedAt: s.now()}
	if len(alert.Items) == 0 || s.notifier == nil {
		return alert, nil
	}

	if err := s.notifier.NotifyLowStock(ctx, alert); err != nil {
		return alert, fmt.Errorf("notify low stock for store %d: %w", storeID, err)
	}
	log.Info().Int64("store_id", storeID).Int("items", len(alert.Items)).
		Int("out_of_stock", alert.OutOfStockCount()).Msg("reorder: low-stock alert dispatched")
	return alert, nil
}

// InvalidateStoreCache drops every cached entry of the store
func (s *ReorderService) InvalidateStoreCache(ctx context.Context, storeID int64) error {
	return s.cache.InvalidateTags(ctx, cache.StoreTag(storeID))
}

// InvalidateSupplierCache drops supplier scores and every store list containing the supplier
func (s *ReorderService) InvalidateSupplierCache(ctx context.Context, supplierID int64) error {
	return s.cache.InvalidateTags(ctx, cache.SupplierTag(supplierID))
}

func (s *ReorderService) InvalidateAllReorderCache(ctx context.Context) error {
	return s.cache.InvalidateTags(ctx, cache.ReorderTag)
}
