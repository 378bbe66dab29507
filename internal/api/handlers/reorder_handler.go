package handlers

import (
	"context"
	"net/http"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
	"github.com/gin-gonic/gin"
)

// ReorderEngine is the read and cache-control surface of the reorder service
type ReorderEngine interface {
	GetReorderList(ctx context.Context, storeID int64) (domain.ReorderReport, error)
	GetReorderListBySupplier(ctx context.Context, storeID int64) (domain.SupplierGroupReport, error)
	GetAutomaticReorderCandidates(ctx context.Context, storeID int64) (domain.ReorderReport, error)
	GetCriticalItems(ctx context.Context, storeID int64) (domain.ReorderReport, error)
	GetSupplierComparison(ctx context.Context, storeID int64) (domain.SupplierComparisonReport, error)
	GetRecommendation(ctx context.Context, storeID, productID int64) (domain.ReorderRecommendation, error)
	GetSupplierScoreCard(ctx context.Context, supplierID int64) (domain.SupplierScoreCard, error)
	DispatchLowStockAlerts(ctx context.Context, storeID int64) (domain.LowStockAlert, error)
	InvalidateStoreCache(ctx context.Context, storeID int64) error
	InvalidateAllReorderCache(ctx context.Context) error
}

type ReorderHandler struct {
	engine ReorderEngine
}

func NewReorderHandler(engine ReorderEngine) *ReorderHandler {
	return &ReorderHandler{engine: engine}
}

// storeReport serves one of the store-scoped report reads
func storeReport[T any](c *gin.Context, message string, read func(ctx context.Context, storeID int64) (T, error)) {
	storeID, ok := pathID(c, "store")
	if !ok {
		return
	}

	report, err := read(c.Request.Context(), storeID)
	if err != nil {
		writeError(c, err, message)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReorderHandler) GetReorderList(c *gin.Context) {
	storeReport(c, "failed to build reorder list", h.engine.GetReorderList)
}

func (h *ReorderHandler) GetReorderListBySupplier(c *gin.Context) {
	storeReport(c, "failed to group reorder list by supplier", h.engine.GetReorderListBySupplier)
}

func (h *ReorderHandler) GetAutomaticCandidates(c *gin.Context) {
	storeReport(c, "failed to fetch automatic reorder candidates", h.engine.GetAutomaticReorderCandidates)
}

func (h *ReorderHandler) GetCriticalItems(c *gin.Context) {
	storeReport(c, "failed to fetch critical items", h.engine.GetCriticalItems)
}

func (h *ReorderHandler) GetSupplierComparison(c *gin.Context) {
	storeReport(c, "failed to compare suppliers", h.engine.GetSupplierComparison)
}

func (h *ReorderHandler) DispatchLowStockAlerts(c *gin.Context) {
	storeReport(c, "failed to dispatch low-stock alerts", h.engine.DispatchLowStockAlerts)
}

func (h *ReorderHandler) GetRecommendation(c *gin.Context) {
	storeID, ok := pathID(c, "store")
	if !ok {
		return
	}
	productID, ok := pathID(c, "product")
	if !ok {
		return
	}

	rec, err := h.engine.GetRecommendation(c.Request.Context(), storeID, productID)
	if err != nil {
		writeError(c, err, "failed to build recommendation")
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *ReorderHandler) GetSupplierScoreCard(c *gin.Context) {
	supplierID, ok := pathID(c, "supplier")
	if !ok {
		return
	}

	card, err := h.engine.GetSupplierScoreCard(c.Request.Context(), supplierID)
	if err != nil {
		writeError(c, err, "failed to fetch supplier scorecard")
		return
	}

	c.JSON(http.StatusOK, card)
}

func (h *ReorderHandler) InvalidateStoreCache(c *gin.Context) {
	storeID, ok := pathID(c, "store")
	if !ok {
		return
	}

	if err := h.engine.InvalidateStoreCache(c.Request.Context(), storeID); err != nil {
		writeError(c, err, "failed to invalidate store cache")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ReorderHandler) InvalidateAllCache(c *gin.Context) {
	if err := h.engine.InvalidateAllReorderCache(c.Request.Context()); err != nil {
		writeError(c, err, "failed to invalidate reorder cache")
		return
	}

	c.Status(http.StatusNoContent)
}
