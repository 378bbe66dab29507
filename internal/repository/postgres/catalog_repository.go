package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
)

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	query := `
		SELECT id, name, sku, COALESCE(cost_price, 0) AS cost_price, supplier_id
		FROM products
		WHERE id = $1
	`

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ProductNotFoundError{ProductID: productID}
	}
	if err != nil {
		return nil, fmt.Errorf("error getting product: %w", err)
	}
	return &product, nil
}

func (r *catalogRepository) GetSupplier(ctx context.Context, supplierID int64) (*domain.Supplier, error) {
	var supplier domain.Supplier
	err := r.db.GetContext(ctx, &supplier, `SELECT id, name FROM suppliers WHERE id = $1`, supplierID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.SupplierNotFoundError{SupplierID: supplierID}
	}
	if err != nil {
		return nil, fmt.Errorf("error getting supplier: %w", err)
	}
	return &supplier, nil
}
