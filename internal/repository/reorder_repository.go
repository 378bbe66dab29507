package repository

import (
	"context"
	"time"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
)

// StockRepository reads store-scoped stock levels. Stock is mutated by the
// sale and receiving workflows; this side is read-only.
type StockRepository interface {
	// GetStock returns domain.ProductNotFoundError when the product is not stocked in the store.
	GetStock(ctx context.Context, productID, storeID int64) (domain.StockLevel, error)
	// ListLowStock returns every product of the store at or below its threshold.
	ListLowStock(ctx context.Context, storeID int64) ([]domain.LowStockItem, error)
}

// CatalogRepository resolves products and suppliers
type CatalogRepository interface {
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)
	GetSupplier(ctx context.Context, supplierID int64) (*domain.Supplier, error)
}

// SalesRepository reads committed sale lines
type SalesRepository interface {
	SumSoldQuantity(ctx context.Context, productID, storeID int64, since time.Time) (int, error)
}

// PurchaseOrderRepository reads purchase-order history and writes new orders
type PurchaseOrderRepository interface {
	// ListPurchaseOrders returns the supplier's orders placed since the given time.
	// An empty status filter returns every status.
	ListPurchaseOrders(ctx context.Context, supplierID int64, since time.Time, statuses []domain.PurchaseOrderStatus) ([]domain.PurchaseOrderOutcome, error)
	PendingOrderedQuantity(ctx context.Context, productID, storeID int64) (int, error)
	LastOrderedAt(ctx context.Context, productID, storeID int64) (*time.Time, error)
	// CreatePurchaseOrder persists the header and all lines atomically.
	CreatePurchaseOrder(ctx context.Context, header *domain.PurchaseOrder, lines []domain.PurchaseOrderLine) (*domain.PurchaseOrder, error)
}
