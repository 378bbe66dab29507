package service

import (
	"math"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
)

const (
	// UnboundedDaysRemaining stands in for "never runs out" when there is no demand
	UnboundedDaysRemaining = 999
	DefaultLeadTimeDays    = 7.0
	MinimumSafetyStock     = 10.0
	SafetyStockDays        = 3.0

	ceilEpsilon = 1e-9
)

// ReorderPlan is the sizing of one reorder
type ReorderPlan struct {
	SafetyStock       int
	SuggestedQuantity int
	DaysRemaining     int
}

// QuantityPlanner sizes reorders from demand velocity and supplier lead time
type QuantityPlanner struct {
	DefaultLeadTimeDays float64
}

func NewQuantityPlanner(defaultLeadTimeDays float64) QuantityPlanner {
	if defaultLeadTimeDays <= 0 {
		defaultLeadTimeDays = DefaultLeadTimeDays
	}
	return QuantityPlanner{DefaultLeadTimeDays: defaultLeadTimeDays}
}

// Plan returns the suggested quantity, never below the store's minimum order
// quantity (the threshold when no minimum is configured).
func (p QuantityPlanner) Plan(velocity, leadTimeDays float64, stock domain.StockLevel) ReorderPlan {
	if velocity < 0 {
		velocity = 0
	}
	if leadTimeDays <= 0 {
		leadTimeDays = p.DefaultLeadTimeDays
		if leadTimeDays <= 0 {
			leadTimeDays = DefaultLeadTimeDays
		}
	}

	safety := math.Max(MinimumSafetyStock, velocity*SafetyStockDays)
	suggested := int(math.Ceil(velocity*leadTimeDays + safety - ceilEpsilon))
	if floor := stock.EffectiveMinOrderQuantity(); suggested < floor {
		suggested = floor
	}

	return ReorderPlan{
		SafetyStock:       int(math.Ceil(safety - ceilEpsilon)),
		SuggestedQuantity: suggested,
		DaysRemaining:     DaysRemaining(stock.CurrentStock, velocity),
	}
}

// DaysRemaining truncates stock/velocity to whole days, or returns
// UnboundedDaysRemaining when there is no demand signal.
func DaysRemaining(currentStock int, velocity float64) int {
	if velocity <= 0 {
		return UnboundedDaysRemaining
	}
	days := float64(currentStock) / velocity
	if days >= UnboundedDaysRemaining {
		return UnboundedDaysRemaining
	}
	return int(days)
}
