package handlers

import (
	"context"
	"net/http"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
	"github.com/gin-gonic/gin"
)

// PurchaseOrderCreator assembles purchase orders from reorder selections
type PurchaseOrderCreator interface {
	CreatePurchaseOrderFromReorder(ctx context.Context, req domain.CreatePurchaseOrderRequest) (*domain.PurchaseOrder, error)
}

type PurchaseOrderHandler struct {
	creator PurchaseOrderCreator
}

func NewPurchaseOrderHandler(creator PurchaseOrderCreator) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{creator: creator}
}

type createPurchaseOrderBody struct {
	ActorID int64                         `json:"actor_id"`
	Notes   string                        `json:"notes"`
	Lines   []domain.ReorderLineSelection `json:"lines"`
}

// CreatePurchaseOrder creates a pending order for the store from accepted reorder lines
func (h *PurchaseOrderHandler) CreatePurchaseOrder(c *gin.Context) {
	storeID, ok := pathID(c, "store")
	if !ok {
		return
	}

	var body createPurchaseOrderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	order, err := h.creator.CreatePurchaseOrderFromReorder(c.Request.Context(), domain.CreatePurchaseOrderRequest{
		StoreID: storeID,
		ActorID: body.ActorID,
		Notes:   body.Notes,
		Lines:   body.Lines,
	})
	if err != nil {
		writeError(c, err, "failed to create purchase order")
		return
	}

	c.JSON(http.StatusCreated, order)
}
