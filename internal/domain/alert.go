package domain

import "time"

// LowStockAlert is the payload handed to the notification trigger when a
// store has critical items.
type LowStockAlert struct {
	StoreID     int64                   `json:"store_id"`
	Items       []ReorderRecommendation `json:"items"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// OutOfStockCount returns how many alert items have no stock left
func (a LowStockAlert) OutOfStockCount() int {
	n := 0
	for _, item := range a.Items {
		if item.CurrentStock == 0 {
			n++
		}
	}
	return n
}
