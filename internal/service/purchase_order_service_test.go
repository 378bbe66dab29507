package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var poNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

type poFixture struct {
	svc         *PurchaseOrderService
	orders      *mockPurchaseOrderRepository
	catalog     *mockCatalogRepository
	invalidator *mockInvalidator
}

func newPOFixture() *poFixture {
	f := &poFixture{
		orders:      new(mockPurchaseOrderRepository),
		catalog:     new(mockCatalogRepository),
		invalidator: new(mockInvalidator),
	}
	scorer := NewSupplierScorer(f.orders, f.catalog, nil, time.Hour, 6, 7)
	scorer.now = func() time.Time { return poNow }
	f.svc = NewPurchaseOrderService(f.orders, f.catalog, scorer, f.invalidator)
	f.svc.now = func() time.Time { return poNow }
	return f
}

func validRequest() domain.CreatePurchaseOrderRequest {
	return domain.CreatePurchaseOrderRequest{
		StoreID: 3,
		ActorID: 11,
		Notes:   "weekly restock",
		Lines: []domain.ReorderLineSelection{
			{ProductID: 1, SupplierID: 1, Quantity: 50, UnitCost: decimal.RequireFromString("1.25")},
			{ProductID: 2, SupplierID: 1, Quantity: 20},
		},
	}
}

func TestPurchaseOrderService_Create(t *testing.T) {
	f := newPOFixture()
	f.catalog.On("GetSupplier", mock.Anything, int64(1)).Return(freshFarms, nil)
	f.catalog.On("GetProduct", mock.Anything, int64(1)).Return(&domain.Product{ID: 1, CostPrice: decimal.NewFromInt(9)}, nil)
	f.catalog.On("GetProduct", mock.Anything, int64(2)).Return(&domain.Product{ID: 2, CostPrice: decimal.RequireFromString("3.10")}, nil)

	ordered := poNow.AddDate(0, -1, 0)
	f.orders.On("ListPurchaseOrders", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Return([]domain.PurchaseOrderOutcome{{Status: domain.POStatusCompleted, OrderedAt: timePtr(ordered), ReceivedAt: timePtr(ordered.AddDate(0, 0, 4))}}, nil)

	var header *domain.PurchaseOrder
	var lines []domain.PurchaseOrderLine
	f.orders.On("CreatePurchaseOrder", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			header = args.Get(1).(*domain.PurchaseOrder)
			lines = args.Get(2).([]domain.PurchaseOrderLine)
		}).
		Return(&domain.PurchaseOrder{ID: 77, PONumber: "PO-20240315-ABCDEF12", Status: domain.POStatusPending}, nil)
	f.invalidator.On("InvalidateStoreCache", mock.Anything, int64(3)).Return(nil)

	created, err := f.svc.CreatePurchaseOrderFromReorder(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(77), created.ID)

	require.NotNil(t, header)
	assert.Equal(t, domain.POStatusPending, header.Status)
	assert.Equal(t, int64(1), header.SupplierID)
	assert.Equal(t, int64(3), header.StoreID)
	assert.Equal(t, int64(11), header.CreatedBy)
	assert.Equal(t, poNow.AddDate(0, 0, 4), header.ExpectedDeliveryAt)
	assert.True(t, strings.HasPrefix(header.PONumber, "PO-20240315-"))
	// 50 x 1.25 + 20 x 3.10 (cost price fallback)
	assert.True(t, header.TotalAmount.Equal(decimal.RequireFromString("124.50")), header.TotalAmount.String())

	require.Len(t, lines, 2)
	assert.True(t, lines[1].UnitCost.Equal(decimal.RequireFromString("3.10")))
	assert.True(t, lines[0].TotalCost.Equal(decimal.RequireFromString("62.50")))

	f.invalidator.AssertExpectations(t)
}

func TestPurchaseOrderService_MixedSuppliersWritesNothing(t *testing.T) {
	f := newPOFixture()
	req := validRequest()
	req.Lines[1].SupplierID = 9

	_, err := f.svc.CreatePurchaseOrderFromReorder(context.Background(), req)
	var mixed *domain.MixedSupplierError
	require.ErrorAs(t, err, &mixed)
	assert.ElementsMatch(t, []int64{1, 9}, mixed.SupplierIDs)

	f.orders.AssertNotCalled(t, "CreatePurchaseOrder", mock.Anything, mock.Anything, mock.Anything)
	f.catalog.AssertNotCalled(t, "GetSupplier", mock.Anything, mock.Anything)
	f.invalidator.AssertNotCalled(t, "InvalidateStoreCache", mock.Anything, mock.Anything)
}

func TestPurchaseOrderService_ValidationNamesField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.CreatePurchaseOrderRequest)
		field  string
	}{
		{"no lines", func(r *domain.CreatePurchaseOrderRequest) { r.Lines = nil }, "lines"},
		{"zero quantity", func(r *domain.CreatePurchaseOrderRequest) { r.Lines[1].Quantity = 0 }, "lines[1].quantity"},
		{"missing product", func(r *domain.CreatePurchaseOrderRequest) { r.Lines[0].ProductID = 0 }, "lines[0].product_id"},
		{"missing store", func(r *domain.CreatePurchaseOrderRequest) { r.StoreID = 0 }, "store_id"},
		{"negative unit cost", func(r *domain.CreatePurchaseOrderRequest) { r.Lines[0].UnitCost = decimal.NewFromInt(-1) }, "lines[0].unit_cost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPOFixture()
			req := validRequest()
			tt.mutate(&req)

			_, err := f.svc.CreatePurchaseOrderFromReorder(context.Background(), req)
			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
			f.orders.AssertNotCalled(t, "CreatePurchaseOrder", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPurchaseOrderService_UnknownSupplierAndProduct(t *testing.T) {
	f := newPOFixture()
	f.catalog.On("GetSupplier", mock.Anything, int64(1)).Return(nil, nil)

	_, err := f.svc.CreatePurchaseOrderFromReorder(context.Background(), validRequest())
	var supplierErr *domain.SupplierNotFoundError
	require.ErrorAs(t, err, &supplierErr)

	f = newPOFixture()
	f.catalog.On("GetSupplier", mock.Anything, int64(1)).Return(freshFarms, nil)
	f.catalog.On("GetProduct", mock.Anything, int64(1)).Return(&domain.Product{ID: 1}, nil)
	f.catalog.On("GetProduct", mock.Anything, int64(2)).Return(nil, &domain.ProductNotFoundError{ProductID: 2})

	_, err = f.svc.CreatePurchaseOrderFromReorder(context.Background(), validRequest())
	var productErr *domain.ProductNotFoundError
	require.ErrorAs(t, err, &productErr)
	assert.Equal(t, int64(2), productErr.ProductID)
	f.orders.AssertNotCalled(t, "CreatePurchaseOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseOrderService_RepositoryFailureSkipsInvalidation(t *testing.T) {
	f := newPOFixture()
	f.catalog.On("GetSupplier", mock.Anything, int64(1)).Return(freshFarms, nil)
	f.catalog.On("GetProduct", mock.Anything, mock.Anything).Return(&domain.Product{CostPrice: decimal.NewFromInt(1)}, nil)
	f.orders.On("ListPurchaseOrders", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.PurchaseOrderOutcome{}, nil)
	f.orders.On("CreatePurchaseOrder", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("serialization failure"))

	_, err := f.svc.CreatePurchaseOrderFromReorder(context.Background(), validRequest())
	assert.ErrorContains(t, err, "serialization failure")
	f.invalidator.AssertNotCalled(t, "InvalidateStoreCache", mock.Anything, mock.Anything)
}

func TestPurchaseOrderService_InvalidationFailureIsNotFatal(t *testing.T) {
	f := newPOFixture()
	f.catalog.On("GetSupplier", mock.Anything, int64(1)).Return(freshFarms, nil)
	f.catalog.On("GetProduct", mock.Anything, mock.Anything).Return(&domain.Product{CostPrice: decimal.NewFromInt(1)}, nil)
	f.orders.On("ListPurchaseOrders", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.PurchaseOrderOutcome{}, nil)
	f.orders.On("CreatePurchaseOrder", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.PurchaseOrder{ID: 5}, nil)
	f.invalidator.On("InvalidateStoreCache", mock.Anything, int64(3)).Return(errors.New("redis down"))

	created, err := f.svc.CreatePurchaseOrderFromReorder(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
}
