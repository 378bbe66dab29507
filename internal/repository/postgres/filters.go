package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
	"github.com/lib/pq"
)

// purchaseOrderFilter narrows purchase-order queries
type purchaseOrderFilter struct {
	SupplierID int64
	StoreID    int64
	ProductID  int64
	Since      *time.Time
	Statuses   []domain.PurchaseOrderStatus
}

// buildPurchaseOrderFilterClause constructs the WHERE conditions for a
// purchase-order query. alias is the purchase_orders alias including the dot.
func buildPurchaseOrderFilterClause(filter purchaseOrderFilter, alias string, startIndex int) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	idx := startIndex

	if filter.SupplierID > 0 {
		clauses = append(clauses, fmt.Sprintf("%ssupplier_id = $%d", alias, idx))
		args = append(args, filter.SupplierID)
		idx++
	}

	if filter.StoreID > 0 {
		clauses = append(clauses, fmt.Sprintf("%sstore_id = $%d", alias, idx))
		args = append(args, filter.StoreID)
		idx++
	}

	if filter.Since != nil {
		clauses = append(clauses, fmt.Sprintf("COALESCE(%sordered_at, %screated_at) >= $%d", alias, alias, idx))
		args = append(args, *filter.Since)
		idx++
	}

	if len(filter.Statuses) > 0 {
		clauses = append(clauses, fmt.Sprintf("%sstatus = ANY($%d::text[])", alias, idx))
		args = append(args, pq.Array(domain.StatusStrings(filter.Statuses)))
		idx++
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return "AND " + strings.Join(clauses, " AND "), args
}
