package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStockLevel_IsCritical(t *testing.T) {
	assert.True(t, StockLevel{CurrentStock: 0, Threshold: 20}.IsCritical())
	assert.True(t, StockLevel{CurrentStock: 5, Threshold: 20}.IsCritical())
	assert.False(t, StockLevel{CurrentStock: 6, Threshold: 20}.IsCritical())
	assert.False(t, StockLevel{CurrentStock: 3, Threshold: 0}.IsCritical())

	// critical (<=25%) and severity 4 (<=20%) are distinct cuts
	level := StockLevel{CurrentStock: 5, Threshold: 20}
	assert.True(t, level.IsCritical())
	assert.Equal(t, SeverityHigh, level.Severity())
}

func TestStockLevel_EffectiveMinOrderQuantity(t *testing.T) {
	moq := 24
	zero := 0
	assert.Equal(t, 24, StockLevel{Threshold: 15, MinOrderQuantity: &moq}.EffectiveMinOrderQuantity())
	assert.Equal(t, 15, StockLevel{Threshold: 15}.EffectiveMinOrderQuantity())
	assert.Equal(t, 15, StockLevel{Threshold: 15, MinOrderQuantity: &zero}.EffectiveMinOrderQuantity())
}

func TestPurchaseOrderOutcome(t *testing.T) {
	ordered := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	received := ordered.Add(36 * time.Hour)
	expected := ordered.Add(48 * time.Hour)

	o := PurchaseOrderOutcome{OrderedAt: &ordered, ReceivedAt: &received, ExpectedDeliveryAt: &expected}
	days, ok := o.LeadTimeDays()
	assert.True(t, ok)
	assert.InDelta(t, 1.5, days, 1e-9)
	assert.True(t, o.DeliveredOnTime())

	o.ExpectedDeliveryAt = &ordered
	assert.False(t, o.DeliveredOnTime())

	_, ok = PurchaseOrderOutcome{OrderedAt: &ordered}.LeadTimeDays()
	assert.False(t, ok)
}

func TestErrors(t *testing.T) {
	err := &MixedSupplierError{SupplierIDs: []int64{9, 3}}
	assert.Equal(t, "purchase order lines must share one supplier, got suppliers [3,9]", err.Error())

	wrapped := fmt.Errorf("assemble: %w", &SupplierNotFoundError{SupplierID: 4})
	assert.True(t, IsNotFound(wrapped))
	assert.True(t, IsNotFound(&ProductNotFoundError{ProductID: 1, StoreID: 2}))
	assert.False(t, IsNotFound(errors.New("boom")))
	assert.Equal(t, "product 1 not found in store 2", (&ProductNotFoundError{ProductID: 1, StoreID: 2}).Error())
}

func TestParsePOStatus(t *testing.T) {
	status, ok := ParsePOStatus(" Completed ")
	assert.True(t, ok)
	assert.Equal(t, POStatusCompleted, status)
	assert.Equal(t, "Cancelled", POStatusCancelled.Label())

	_, ok = ParsePOStatus("shipped")
	assert.False(t, ok)
}
