package domain

import "strings"

// PurchaseOrderStatus is the lifecycle state of a purchase order
type PurchaseOrderStatus string

const (
	POStatusDraft     PurchaseOrderStatus = "draft"
	POStatusPending   PurchaseOrderStatus = "pending"
	POStatusOrdered   PurchaseOrderStatus = "ordered"
	POStatusPartial   PurchaseOrderStatus = "partial"
	POStatusCompleted PurchaseOrderStatus = "completed"
	POStatusCancelled PurchaseOrderStatus = "cancelled"
)

var poStatusLabels = map[PurchaseOrderStatus]string{
	POStatusDraft:     "Draft",
	POStatusPending:   "Pending",
	POStatusOrdered:   "Ordered",
	POStatusPartial:   "Partially Received",
	POStatusCompleted: "Completed",
	POStatusCancelled: "Cancelled",
}

// OpenPOStatuses are the statuses whose remaining quantity counts as pending
var OpenPOStatuses = []PurchaseOrderStatus{POStatusPending, POStatusOrdered, POStatusPartial}

// Label returns a human-readable label for a PO status.
func (s PurchaseOrderStatus) Label() string {
	if label, ok := poStatusLabels[s]; ok {
		return label
	}

	return "Draft"
}

// ParsePOStatus returns the status for a given label (case-insensitive).
func ParsePOStatus(label string) (PurchaseOrderStatus, bool) {
	status := PurchaseOrderStatus(strings.ToLower(strings.TrimSpace(label)))
	_, ok := poStatusLabels[status]

	return status, ok
}

// StatusStrings converts statuses for use as a SQL array parameter
func StatusStrings(statuses []PurchaseOrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
