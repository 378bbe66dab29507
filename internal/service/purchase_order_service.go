package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// StoreCacheInvalidator drops a store's cached reorder data
type StoreCacheInvalidator interface {
	InvalidateStoreCache(ctx context.Context, storeID int64) error
}

// PurchaseOrderService turns an accepted reorder selection into a pending purchase order
type PurchaseOrderService struct {
	orders      repository.PurchaseOrderRepository
	catalog     repository.CatalogRepository
	scorer      *SupplierScorer
	invalidator StoreCacheInvalidator
	validate    *validator.Validate
	now         func() time.Time
}

func NewPurchaseOrderService(orders repository.PurchaseOrderRepository, catalog repository.CatalogRepository, scorer *SupplierScorer, invalidator StoreCacheInvalidator) *PurchaseOrderService {
	return &PurchaseOrderService{
		orders:      orders,
		catalog:     catalog,
		scorer:      scorer,
		invalidator: invalidator,
		validate:    newValidator(),
		now:         time.Now,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// CreatePurchaseOrderFromReorder validates the selection, prices every line and
// persists the order with its lines in one transaction. All lines must share
// one supplier; otherwise MixedSupplierError is returned and nothing is written.
func (s *PurchaseOrderService) CreatePurchaseOrderFromReorder(ctx context.Context, req domain.CreatePurchaseOrderRequest) (*domain.PurchaseOrder, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	supplierID, err := singleSupplier(req.Lines)
	if err != nil {
		return nil, err
	}

	supplier, err := s.catalog.GetSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, &domain.SupplierNotFoundError{SupplierID: supplierID}
	}

	lines, total, err := s.priceLines(ctx, req)
	if err != nil {
		return nil, err
	}

	leadTime, err := s.scorer.AverageLeadTimeDays(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	header := &domain.PurchaseOrder{
		PONumber:           newPONumber(now),
		SupplierID:         supplierID,
		StoreID:            req.StoreID,
		Status:             domain.POStatusPending,
		OrderedAt:          now,
		ExpectedDeliveryAt: now.Add(time.Duration(leadTime * float64(24*time.Hour))),
		TotalAmount:        total,
		Notes:              req.Notes,
		CreatedBy:          req.ActorID,
	}

	created, err := s.orders.CreatePurchaseOrder(ctx, header, lines)
	if err != nil {
		return nil, fmt.Errorf("create purchase order for supplier %d: %w", supplierID, err)
	}

	if err := s.invalidator.InvalidateStoreCache(ctx, req.StoreID); err != nil {
		log.Warn().Err(err).Int64("store_id", req.StoreID).Msg("purchase order: store cache invalidation failed")
	}

	log.Info().Str("po_number", created.PONumber).Int64("store_id", req.StoreID).
		Int64("supplier_id", supplierID).Int("lines", len(lines)).Msg("purchase order created")
	return created, nil
}

func (s *PurchaseOrderService) validateRequest(req domain.CreatePurchaseOrderRequest) error {
	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &domain.ValidationError{Field: fieldPath(fe.Namespace()), Message: fmt.Sprintf("failed %q rule", fe.Tag())}
		}
		return &domain.ValidationError{Field: "request", Message: err.Error()}
	}

	for i, line := range req.Lines {
		if line.UnitCost.IsNegative() {
			return &domain.ValidationError{Field: fmt.Sprintf("lines[%d].unit_cost", i), Message: "must not be negative"}
		}
	}
	return nil
}

// fieldPath strips the root struct name from a validator namespace
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func singleSupplier(lines []domain.ReorderLineSelection) (int64, error) {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, line := range lines {
		if _, ok := seen[line.SupplierID]; ok {
			continue
		}
		seen[line.SupplierID] = struct{}{}
		ids = append(ids, line.SupplierID)
	}
	if len(ids) != 1 {
		return 0, &domain.MixedSupplierError{SupplierIDs: ids}
	}
	return ids[0], nil
}

// priceLines resolves each product and falls back to its cost price when the
// selection carries no unit cost.
func (s *PurchaseOrderService) priceLines(ctx context.Context, req domain.CreatePurchaseOrderRequest) ([]domain.PurchaseOrderLine, decimal.Decimal, error) {
	lines := make([]domain.PurchaseOrderLine, 0, len(req.Lines))
	total := decimal.Zero

	for _, sel := range req.Lines {
		product, err := s.catalog.GetProduct(ctx, sel.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if product == nil {
			return nil, decimal.Zero, &domain.ProductNotFoundError{ProductID: sel.ProductID}
		}

		unitCost := sel.UnitCost
		if unitCost.IsZero() {
			unitCost = product.CostPrice
		}
		lineTotal := unitCost.Mul(decimal.NewFromInt(int64(sel.Quantity)))
		total = total.Add(lineTotal)

		lines = append(lines, domain.PurchaseOrderLine{
			ProductID:       sel.ProductID,
			QuantityOrdered: sel.Quantity,
			UnitCost:        unitCost,
			TotalCost:       lineTotal,
			Notes:           sel.Notes,
		})
	}
	return lines, total, nil
}

func newPONumber(now time.Time) string {
	return fmt.Sprintf("PO-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}
