package service

import (
	"testing"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestQuantityPlanner_Plan(t *testing.T) {
	planner := NewQuantityPlanner(7)

	tests := []struct {
		name          string
		velocity      float64
		leadTime      float64
		stock         domain.StockLevel
		wantQuantity  int
		wantSafety    int
		wantRemaining int
	}{
		{
			name:          "demand driven",
			velocity:      10,
			leadTime:      7,
			stock:         domain.StockLevel{CurrentStock: 12, Threshold: 15},
			wantQuantity:  100,
			wantSafety:    30,
			wantRemaining: 1,
		},
		{
			name:          "no demand falls to minimum safety stock",
			velocity:      0,
			leadTime:      7,
			stock:         domain.StockLevel{CurrentStock: 4, Threshold: 5},
			wantQuantity:  10,
			wantSafety:    10,
			wantRemaining: UnboundedDaysRemaining,
		},
		{
			name:          "floored at threshold when no minimum order quantity",
			velocity:      0,
			leadTime:      7,
			stock:         domain.StockLevel{CurrentStock: 3, Threshold: 40},
			wantQuantity:  40,
			wantSafety:    10,
			wantRemaining: UnboundedDaysRemaining,
		},
		{
			name:          "floored at explicit minimum order quantity",
			velocity:      1,
			leadTime:      7,
			stock:         domain.StockLevel{CurrentStock: 3, Threshold: 40, MinOrderQuantity: intPtr(24)},
			wantQuantity:  24,
			wantSafety:    10,
			wantRemaining: 3,
		},
		{
			name:          "missing lead time uses default",
			velocity:      2,
			leadTime:      0,
			stock:         domain.StockLevel{CurrentStock: 9, Threshold: 10},
			wantQuantity:  24,
			wantSafety:    10,
			wantRemaining: 4,
		},
		{
			name:          "fractional demand rounds up",
			velocity:      0.5,
			leadTime:      5,
			stock:         domain.StockLevel{CurrentStock: 0, Threshold: 5},
			wantQuantity:  13,
			wantSafety:    10,
			wantRemaining: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := planner.Plan(tt.velocity, tt.leadTime, tt.stock)
			assert.Equal(t, tt.wantQuantity, plan.SuggestedQuantity)
			assert.Equal(t, tt.wantSafety, plan.SafetyStock)
			assert.Equal(t, tt.wantRemaining, plan.DaysRemaining)
		})
	}
}

func TestQuantityPlanner_NeverBelowMinimumOrder(t *testing.T) {
	planner := NewQuantityPlanner(7)
	for _, velocity := range []float64{0, 0.1, 1, 3.3, 25} {
		for _, threshold := range []int{0, 5, 50, 500} {
			stock := domain.StockLevel{CurrentStock: 1, Threshold: threshold}
			plan := planner.Plan(velocity, 7, stock)
			assert.GreaterOrEqual(t, plan.SuggestedQuantity, stock.EffectiveMinOrderQuantity())
		}
	}
}

func TestDaysRemaining(t *testing.T) {
	assert.Equal(t, UnboundedDaysRemaining, DaysRemaining(50, 0))
	assert.Equal(t, UnboundedDaysRemaining, DaysRemaining(50, -1))
	assert.Equal(t, 2, DaysRemaining(5, 2))
	assert.Equal(t, 0, DaysRemaining(0, 4))
	assert.Equal(t, UnboundedDaysRemaining, DaysRemaining(100000, 1))
}
