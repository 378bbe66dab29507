package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// MixedSupplierError is returned when a reorder selection spans more than one supplier
type MixedSupplierError struct {
	SupplierIDs []int64
}

func (e *MixedSupplierError) Error() string {
	ids := append([]int64(nil), e.SupplierIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("purchase order lines must share one supplier, got suppliers [%s]", strings.Join(parts, ","))
}

// ProductNotFoundError is returned when a product or its store stock level does not exist
type ProductNotFoundError struct {
	ProductID int64
	StoreID   int64
}

func (e *ProductNotFoundError) Error() string {
	if e.StoreID > 0 {
		return fmt.Sprintf("product %d not found in store %d", e.ProductID, e.StoreID)
	}
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// SupplierNotFoundError is returned when a supplier does not exist
type SupplierNotFoundError struct {
	SupplierID int64
}

func (e *SupplierNotFoundError) Error() string {
	return fmt.Sprintf("supplier %d not found", e.SupplierID)
}

// ValidationError names the offending field of a rejected request
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsNotFound reports whether err is a product or supplier lookup miss
func IsNotFound(err error) bool {
	var productErr *ProductNotFoundError
	var supplierErr *SupplierNotFoundError
	return errors.As(err, &productErr) || errors.As(err, &supplierErr)
}
