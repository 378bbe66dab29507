package postgres

import (
	"context"
	"fmt"
	"time"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) *salesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) SumSoldQuantity(ctx context.Context, productID, storeID int64, since time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(si.quantity), 0)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE si.product_id = $1
		  AND s.store_id = $2
		  AND s.created_at >= $3
	`

	var total int
	if err := r.db.GetContext(ctx, &total, query, productID, storeID, since); err != nil {
		return 0, fmt.Errorf("error summing sold quantity: %w", err)
	}
	return total, nil
}
