package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderOutcome is the historical view of an order used for supplier scoring
type PurchaseOrderOutcome struct {
	ID                 int64               `json:"id" db:"id"`
	SupplierID         int64               `json:"supplier_id" db:"supplier_id"`
	Status             PurchaseOrderStatus `json:"status" db:"status"`
	OrderedAt          *time.Time          `json:"ordered_at" db:"ordered_at"`
	ReceivedAt         *time.Time          `json:"received_at" db:"received_at"`
	ExpectedDeliveryAt *time.Time          `json:"expected_delivery_at" db:"expected_delivery_at"`
}

// LeadTimeDays returns the ordered-to-received duration in days, or false when
// either timestamp is missing.
func (o PurchaseOrderOutcome) LeadTimeDays() (float64, bool) {
	if o.OrderedAt == nil || o.ReceivedAt == nil {
		return 0, false
	}
	return o.ReceivedAt.Sub(*o.OrderedAt).Hours() / 24, true
}

// DeliveredOnTime reports whether a received order arrived on or before its
// expected delivery date. Orders without an expectation count as on time.
func (o PurchaseOrderOutcome) DeliveredOnTime() bool {
	if o.ReceivedAt == nil {
		return false
	}
	if o.ExpectedDeliveryAt == nil {
		return true
	}
	return !o.ReceivedAt.After(*o.ExpectedDeliveryAt)
}

// PurchaseOrder is the header of a persisted purchase order
type PurchaseOrder struct {
	ID                 int64               `json:"id" db:"id"`
	PONumber           string              `json:"po_number" db:"po_number"`
	SupplierID         int64               `json:"supplier_id" db:"supplier_id"`
	StoreID            int64               `json:"store_id" db:"store_id"`
	Status             PurchaseOrderStatus `json:"status" db:"status"`
	OrderedAt          time.Time           `json:"ordered_at" db:"ordered_at"`
	ExpectedDeliveryAt time.Time           `json:"expected_delivery_at" db:"expected_delivery_at"`
	TotalAmount        decimal.Decimal     `json:"total_amount" db:"total_amount"`
	Notes              string              `json:"notes" db:"notes"`
	CreatedBy          int64               `json:"created_by" db:"created_by"`
	Lines              []PurchaseOrderLine `json:"lines" db:"-"`
}

// PurchaseOrderLine is one product line of a purchase order
type PurchaseOrderLine struct {
	ID              int64           `json:"id" db:"id"`
	PurchaseOrderID int64           `json:"purchase_order_id" db:"purchase_order_id"`
	ProductID       int64           `json:"product_id" db:"product_id"`
	QuantityOrdered int             `json:"quantity_ordered" db:"quantity_ordered"`
	UnitCost        decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost" db:"total_cost"`
	Notes           string          `json:"notes,omitempty" db:"notes"`
}

// ReorderLineSelection is one accepted line of a reorder list the caller wants to purchase
type ReorderLineSelection struct {
	ProductID  int64           `json:"product_id" validate:"required,gt=0"`
	SupplierID int64           `json:"supplier_id" validate:"required,gt=0"`
	Quantity   int             `json:"quantity" validate:"required,gt=0"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Notes      string          `json:"notes" validate:"max=500"`
}

// CreatePurchaseOrderRequest is the input to purchase-order assembly
type CreatePurchaseOrderRequest struct {
	StoreID int64                  `json:"store_id" validate:"required,gt=0"`
	ActorID int64                  `json:"actor_id" validate:"required,gt=0"`
	Notes   string                 `json:"notes" validate:"max=1000"`
	Lines   []ReorderLineSelection `json:"lines" validate:"required,min=1,dive"`
}
