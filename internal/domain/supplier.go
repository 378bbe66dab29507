package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierScoreCard holds the slowly-changing performance metrics of a supplier
type SupplierScoreCard struct {
	SupplierID          int64   `json:"supplier_id"`
	SupplierName        string  `json:"supplier_name,omitempty"`
	AverageLeadTimeDays float64 `json:"average_lead_time_days"`
	ReliabilityScore    int     `json:"reliability_score"`
	PriorityScore       float64 `json:"priority_score"`
}

// SupplierGroup is the reorder list of one store narrowed to one supplier
type SupplierGroup struct {
	Supplier           *Supplier               `json:"supplier,omitempty"`
	ItemCount          int                     `json:"item_count"`
	TotalEstimatedCost decimal.Decimal         `json:"total_estimated_cost"`
	HighPriorityCount  int                     `json:"high_priority_count"`
	Items              []ReorderRecommendation `json:"items"`
}

// SupplierID returns the group's supplier id, or 0 for products without a supplier
func (g SupplierGroup) SupplierID() int64 {
	if g.Supplier == nil {
		return 0
	}
	return g.Supplier.ID
}

// SupplierComparison is a scorecard plus the per-store ranking fields
type SupplierComparison struct {
	SupplierScoreCard
	ItemCount          int             `json:"item_count"`
	HighPriorityCount  int             `json:"high_priority_count"`
	TotalEstimatedCost decimal.Decimal `json:"total_estimated_cost"`
	Rank               int             `json:"rank"`
}

// SupplierGroupReport is a store's reorder list grouped by supplier
type SupplierGroupReport struct {
	StoreID     int64            `json:"store_id"`
	Groups      []SupplierGroup  `json:"groups"`
	Skipped     []SkippedProduct `json:"skipped,omitempty"`
	Partial     bool             `json:"partial"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// SupplierComparisonReport ranks the suppliers of one store's reorder run
type SupplierComparisonReport struct {
	StoreID     int64                `json:"store_id"`
	Suppliers   []SupplierComparison `json:"suppliers"`
	Skipped     []SkippedProduct     `json:"skipped,omitempty"`
	Partial     bool                 `json:"partial"`
	GeneratedAt time.Time            `json:"generated_at"`
}
