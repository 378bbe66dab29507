package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		threshold int
		want      Severity
	}{
		{"out of stock", 0, 20, SeverityOutOfStock},
		{"out of stock without policy", 0, 0, SeverityOutOfStock},
		{"no policy", 5, 0, SeverityNone},
		{"ratio 0.2 boundary", 4, 20, SeverityCritical},
		{"ratio 0.25", 5, 20, SeverityHigh},
		{"ratio 0.5 boundary", 10, 20, SeverityHigh},
		{"ratio 0.55", 11, 20, SeverityModerate},
		{"ratio 0.8 boundary", 16, 20, SeverityModerate},
		{"ratio 0.9", 18, 20, SeverityLow},
		{"ratio 1.0 boundary", 20, 20, SeverityLow},
		{"above threshold", 21, 20, SeverityNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifySeverity(tc.stock, tc.threshold))
		})
	}
}

func TestClassifySeverity_OutOfStockIsAlwaysFive(t *testing.T) {
	for threshold := 0; threshold <= 500; threshold++ {
		assert.Equal(t, SeverityOutOfStock, ClassifySeverity(0, threshold), "threshold %d", threshold)
	}
}

func TestClassifySeverity_MonotonicInStock(t *testing.T) {
	for _, threshold := range []int{1, 3, 7, 10, 20, 33, 100, 250} {
		prev := ClassifySeverity(0, threshold)
		for stock := 1; stock <= threshold*2; stock++ {
			got := ClassifySeverity(stock, threshold)
			assert.LessOrEqual(t, int(got), int(prev), "threshold %d stock %d", threshold, stock)
			prev = got
		}
	}
}

func TestSeverityLabel(t *testing.T) {
	assert.Equal(t, "out_of_stock", SeverityOutOfStock.Label())
	assert.Equal(t, "critical", SeverityCritical.Label())
	assert.Equal(t, "ok", SeverityNone.Label())
	assert.Equal(t, "unknown", Severity(9).Label())
	assert.True(t, SeverityCritical.IsHighPriority())
	assert.False(t, SeverityHigh.IsHighPriority())
}
