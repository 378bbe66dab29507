package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

type stockRepository struct {
	db *DB
}

func NewStockRepository(db *DB) *stockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) GetStock(ctx context.Context, productID, storeID int64) (domain.StockLevel, error) {
	query := `
		SELECT
			ps.product_id,
			ps.store_id,
			ps.stock AS current_stock,
			ps.low_stock_threshold AS threshold,
			ps.min_order_quantity
		FROM product_store ps
		WHERE ps.product_id = $1 AND ps.store_id = $2
	`

	var level domain.StockLevel
	err := r.db.GetContext(ctx, &level, query, productID, storeID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StockLevel{}, &domain.ProductNotFoundError{ProductID: productID, StoreID: storeID}
	}
	if err != nil {
		return domain.StockLevel{}, fmt.Errorf("error getting stock level: %w", err)
	}
	return level, nil
}

type lowStockRow struct {
	ProductID        int64           `db:"product_id"`
	ProductName      string          `db:"product_name"`
	SKU              string          `db:"sku"`
	CostPrice        decimal.Decimal `db:"cost_price"`
	SupplierID       sql.NullInt64   `db:"supplier_id"`
	SupplierName     sql.NullString  `db:"supplier_name"`
	StoreID          int64           `db:"store_id"`
	CurrentStock     int             `db:"current_stock"`
	Threshold        int             `db:"threshold"`
	MinOrderQuantity sql.NullInt64   `db:"min_order_quantity"`
}

func (r *stockRepository) ListLowStock(ctx context.Context, storeID int64) ([]domain.LowStockItem, error) {
	query := `
		SELECT
			p.id AS product_id,
			p.name AS product_name,
			p.sku,
			COALESCE(p.cost_price, 0) AS cost_price,
			s.id AS supplier_id,
			s.name AS supplier_name,
			ps.store_id,
			ps.stock AS current_stock,
			ps.low_stock_threshold AS threshold,
			ps.min_order_quantity
		FROM product_store ps
		JOIN products p ON p.id = ps.product_id
		LEFT JOIN suppliers s ON s.id = p.supplier_id
		WHERE ps.store_id = $1
		  AND ps.stock <= ps.low_stock_threshold
		ORDER BY p.id
	`

	var rows []lowStockRow
	if err := r.db.SelectContext(ctx, &rows, query, storeID); err != nil {
		return nil, fmt.Errorf("error listing low stock: %w", err)
	}

	items := make([]domain.LowStockItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (row lowStockRow) toDomain() domain.LowStockItem {
	item := domain.LowStockItem{
		Product: domain.Product{
			ID:        row.ProductID,
			Name:      row.ProductName,
			SKU:       row.SKU,
			CostPrice: row.CostPrice,
		},
		Stock: domain.StockLevel{
			ProductID:    row.ProductID,
			StoreID:      row.StoreID,
			CurrentStock: row.CurrentStock,
			Threshold:    row.Threshold,
		},
	}
	if row.SupplierID.Valid {
		id := row.SupplierID.Int64
		item.Product.SupplierID = &id
		item.Supplier = &domain.Supplier{ID: id, Name: row.SupplierName.String}
	}
	if row.MinOrderQuantity.Valid {
		moq := int(row.MinOrderQuantity.Int64)
		item.Stock.MinOrderQuantity = &moq
	}
	return item
}
