// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Store represents a store location
type Store struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Supplier represents a vendor products are purchased from
type Supplier struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Product is the subset of the product catalog the reorder engine needs
type Product struct {
	ID         int64           `json:"id" db:"id"`
	Name       string          `json:"name" db:"name"`
	SKU        string          `json:"sku" db:"sku"`
	CostPrice  decimal.Decimal `json:"cost_price" db:"cost_price"`
	SupplierID *int64          `json:"supplier_id,omitempty" db:"supplier_id"`
}

// StockLevel is the on-hand position of one product in one store.
// MinOrderQuantity is nil when the store has no explicit batch minimum.
type StockLevel struct {
	ProductID        int64 `json:"product_id" db:"product_id"`
	StoreID          int64 `json:"store_id" db:"store_id"`
	CurrentStock     int   `json:"current_stock" db:"current_stock"`
	Threshold        int   `json:"threshold" db:"threshold"`
	MinOrderQuantity *int  `json:"min_order_quantity,omitempty" db:"min_order_quantity"`
}

// EffectiveMinOrderQuantity falls back to the low-stock threshold when no
// explicit minimum is configured.
func (s StockLevel) EffectiveMinOrderQuantity() int {
	if s.MinOrderQuantity != nil && *s.MinOrderQuantity > 0 {
		return *s.MinOrderQuantity
	}
	return s.Threshold
}

// Severity classifies this stock level
func (s StockLevel) Severity() Severity {
	return ClassifySeverity(s.CurrentStock, s.Threshold)
}

// IsCritical reports the stricter dashboard cut: out of stock or at most a
// quarter of the threshold.
func (s StockLevel) IsCritical() bool {
	if s.CurrentStock == 0 {
		return true
	}
	return float64(s.CurrentStock) <= float64(s.Threshold)*CriticalStockRatio
}

// LowStockItem is a row of the low-stock listing: product, its supplier and
// the store-scoped stock level.
type LowStockItem struct {
	Product  Product
	Supplier *Supplier
	Stock    StockLevel
}

// VelocityEstimate is the trailing average daily sales rate for a product in a store
type VelocityEstimate struct {
	ProductID   int64   `json:"product_id"`
	StoreID     int64   `json:"store_id"`
	WindowDays  int     `json:"window_days"`
	UnitsPerDay float64 `json:"units_per_day"`
}

// ReorderRecommendation is the enriched reorder suggestion for one low-stock product
type ReorderRecommendation struct {
	Product              Product         `json:"product"`
	Supplier             *Supplier       `json:"supplier,omitempty"`
	StoreID              int64           `json:"store_id"`
	CurrentStock         int             `json:"current_stock"`
	Threshold            int             `json:"threshold"`
	Deficit              int             `json:"deficit"`
	SuggestedQuantity    int             `json:"suggested_quantity"`
	EstimatedCost        decimal.Decimal `json:"estimated_cost"`
	Severity             Severity        `json:"severity"`
	SeverityLabel        string          `json:"severity_label"`
	Critical             bool            `json:"critical"`
	Velocity             float64         `json:"velocity"`
	DaysRemaining        int             `json:"days_remaining"`
	PendingOrderQuantity int             `json:"pending_order_quantity"`
	LastOrderedAt        *time.Time      `json:"last_ordered_at,omitempty"`
	AverageLeadTimeDays  float64         `json:"average_lead_time_days"`
	PriorityRank         int             `json:"priority_rank"`
}

// SupplierID returns the recommended supplier id, or 0 when the product has none
func (r ReorderRecommendation) SupplierID() int64 {
	if r.Supplier == nil {
		return 0
	}
	return r.Supplier.ID
}

// SkippedProduct records a product whose recommendation could not be built
type SkippedProduct struct {
	ProductID int64  `json:"product_id"`
	Reason    string `json:"reason"`
}

// ReorderReport is the result of a reorder run for one store. Partial is set
// when at least one product was skipped because its data was unavailable.
type ReorderReport struct {
	StoreID     int64                   `json:"store_id"`
	Items       []ReorderRecommendation `json:"items"`
	Skipped     []SkippedProduct        `json:"skipped,omitempty"`
	Partial     bool                    `json:"partial"`
	GeneratedAt time.Time               `json:"generated_at"`
}
