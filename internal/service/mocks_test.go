package service

import (
	"context"
	"time"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockStockRepository struct {
	mock.Mock
}

func (m *mockStockRepository) GetStock(ctx context.Context, productID, storeID int64) (domain.StockLevel, error) {
	args := m.Called(ctx, productID, storeID)
	return args.Get(0).(domain.StockLevel), args.Error(1)
}

func (m *mockStockRepository) ListLowStock(ctx context.Context, storeID int64) ([]domain.LowStockItem, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LowStockItem), args.Error(1)
}

type mockCatalogRepository struct {
	mock.Mock
}

func (m *mockCatalogRepository) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalogRepository) GetSupplier(ctx context.Context, supplierID int64) (*domain.Supplier, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Supplier), args.Error(1)
}

type mockSalesRepository struct {
	mock.Mock
}

func (m *mockSalesRepository) SumSoldQuantity(ctx context.Context, productID, storeID int64, since time.Time) (int, error) {
	args := m.Called(ctx, productID, storeID, since)
	return args.Int(0), args.Error(1)
}

type mockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *mockPurchaseOrderRepository) ListPurchaseOrders(ctx context.Context, supplierID int64, since time.Time, statuses []domain.PurchaseOrderStatus) ([]domain.PurchaseOrderOutcome, error) {
	args := m.Called(ctx, supplierID, since, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseOrderOutcome), args.Error(1)
}

func (m *mockPurchaseOrderRepository) PendingOrderedQuantity(ctx context.Context, productID, storeID int64) (int, error) {
	args := m.Called(ctx, productID, storeID)
	return args.Int(0), args.Error(1)
}

func (m *mockPurchaseOrderRepository) LastOrderedAt(ctx context.Context, productID, storeID int64) (*time.Time, error) {
	args := m.Called(ctx, productID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *mockPurchaseOrderRepository) CreatePurchaseOrder(ctx context.Context, header *domain.PurchaseOrder, lines []domain.PurchaseOrderLine) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, header, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyLowStock(ctx context.Context, alert domain.LowStockAlert) error {
	return m.Called(ctx, alert).Error(0)
}

type mockInvalidator struct {
	mock.Mock
}

func (m *mockInvalidator) InvalidateStoreCache(ctx context.Context, storeID int64) error {
	return m.Called(ctx, storeID).Error(0)
}
