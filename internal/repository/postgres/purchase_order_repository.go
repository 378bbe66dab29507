package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type purchaseOrderRepository struct {
	db *DB
}

func NewPurchaseOrderRepository(db *DB) *purchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) ListPurchaseOrders(ctx context.Context, supplierID int64, since time.Time, statuses []domain.PurchaseOrderStatus) ([]domain.PurchaseOrderOutcome, error) {
	filterClause, args := buildPurchaseOrderFilterClause(purchaseOrderFilter{
		SupplierID: supplierID,
		Since:      &since,
		Statuses:   statuses,
	}, "po.", 1)

	query := fmt.Sprintf(`
		SELECT
			po.id,
			po.supplier_id,
			po.status,
			po.ordered_at,
			po.received_at,
			po.expected_delivery_at
		FROM purchase_orders po
		WHERE 1=1
		%s
		ORDER BY po.ordered_at
	`, filterClause)

	var outcomes []domain.PurchaseOrderOutcome
	if err := r.db.SelectContext(ctx, &outcomes, query, args...); err != nil {
		return nil, fmt.Errorf("error listing purchase orders: %w", err)
	}

	log.Debug().
		Int64("supplier_id", supplierID).
		Int("orders", len(outcomes)).
		Msg("purchase orders: supplier history fetched")

	return outcomes, nil
}

func (r *purchaseOrderRepository) PendingOrderedQuantity(ctx context.Context, productID, storeID int64) (int, error) {
	filterClause, args := buildPurchaseOrderFilterClause(purchaseOrderFilter{
		StoreID:  storeID,
		Statuses: domain.OpenPOStatuses,
	}, "po.", 2)

	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(GREATEST(poi.quantity_ordered - COALESCE(poi.quantity_received, 0), 0)), 0)
		FROM purchase_order_items poi
		JOIN purchase_orders po ON po.id = poi.purchase_order_id
		WHERE poi.product_id = $1
		%s
	`, filterClause)

	var pending int
	if err := r.db.GetContext(ctx, &pending, query, append([]interface{}{productID}, args...)...); err != nil {
		return 0, fmt.Errorf("error getting pending ordered quantity: %w", err)
	}
	return pending, nil
}

func (r *purchaseOrderRepository) LastOrderedAt(ctx context.Context, productID, storeID int64) (*time.Time, error) {
	query := `
		SELECT MAX(po.ordered_at)
		FROM purchase_order_items poi
		JOIN purchase_orders po ON po.id = poi.purchase_order_id
		WHERE poi.product_id = $1
		  AND po.store_id = $2
	`

	var last sql.NullTime
	if err := r.db.GetContext(ctx, &last, query, productID, storeID); err != nil {
		return nil, fmt.Errorf("error getting last ordered date: %w", err)
	}
	if !last.Valid {
		return nil, nil
	}
	return &last.Time, nil
}

// CreatePurchaseOrder inserts the header, every line and the recomputed total
// in one transaction. Any failure rolls the whole order back.
func (r *purchaseOrderRepository) CreatePurchaseOrder(ctx context.Context, header *domain.PurchaseOrder, lines []domain.PurchaseOrderLine) (*domain.PurchaseOrder, error) {
	if len(lines) == 0 {
		return nil, &domain.ValidationError{Field: "lines", Message: "at least one line is required"}
	}

	created := *header
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		headerQuery := `
			INSERT INTO purchase_orders (
				po_number, supplier_id, store_id, status, ordered_at,
				expected_delivery_at, total_amount, notes, created_by, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
			RETURNING id
		`
		if err := tx.QueryRowxContext(ctx, headerQuery,
			created.PONumber,
			created.SupplierID,
			created.StoreID,
			created.Status,
			created.OrderedAt,
			created.ExpectedDeliveryAt,
			created.TotalAmount,
			created.Notes,
			created.CreatedBy,
		).Scan(&created.ID); err != nil {
			return fmt.Errorf("failed to insert purchase order: %w", err)
		}

		lineQuery := `
			INSERT INTO purchase_order_items (
				purchase_order_id, product_id, quantity_ordered, unit_cost, total_cost, notes
			) VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		stmt, err := tx.PreparexContext(ctx, lineQuery)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		created.Lines = make([]domain.PurchaseOrderLine, 0, len(lines))
		for _, line := range lines {
			line.PurchaseOrderID = created.ID
			if err := stmt.QueryRowxContext(ctx,
				line.PurchaseOrderID,
				line.ProductID,
				line.QuantityOrdered,
				line.UnitCost,
				line.TotalCost,
				line.Notes,
			).Scan(&line.ID); err != nil {
				return fmt.Errorf("failed to insert purchase order line for product %d: %w", line.ProductID, err)
			}
			created.Lines = append(created.Lines, line)
		}

		totalQuery := `
			UPDATE purchase_orders
			SET total_amount = (
				SELECT COALESCE(SUM(total_cost), 0)
				FROM purchase_order_items
				WHERE purchase_order_id = $1
			)
			WHERE id = $1
			RETURNING total_amount
		`
		if err := tx.QueryRowxContext(ctx, totalQuery, created.ID).Scan(&created.TotalAmount); err != nil {
			return fmt.Errorf("failed to persist purchase order total: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}
