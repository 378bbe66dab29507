package cache

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/config"
)

// ReorderTag is carried by every reorder engine entry; flushing it resets the engine cache.
const ReorderTag = "reorder"

const (
	defaultReorderListTTL   = 5 * time.Minute
	defaultCriticalListTTL  = 3 * time.Minute
	defaultSupplierScoreTTL = time.Hour
	defaultVelocityTTL      = time.Hour
)

// Query shapes used in store-scoped keys
const (
	ShapeReorderList = "list"
	ShapeBySupplier  = "by_supplier"
	ShapeAutomatic   = "automatic"
	ShapeCritical    = "critical"
	ShapeComparison  = "supplier_comparison"
	ShapeVelocity    = "velocity"
	ShapeLeadTime    = "lead_time"
	ShapeReliability = "reliability"
)

// TTLs holds the time-to-live of each entry family
type TTLs struct {
	ReorderList   time.Duration
	CriticalList  time.Duration
	SupplierScore time.Duration
	Velocity      time.Duration
}

func TTLsFromConfig(cfg config.CacheConfig) TTLs {
	return TTLs{
		ReorderList:   secondsOr(cfg.ReorderListTTLSeconds, defaultReorderListTTL),
		CriticalList:  secondsOr(cfg.CriticalListTTLSeconds, defaultCriticalListTTL),
		SupplierScore: secondsOr(cfg.SupplierScoreTTLSeconds, defaultSupplierScoreTTL),
		Velocity:      secondsOr(cfg.VelocityTTLSeconds, defaultVelocityTTL),
	}
}

func DefaultTTLs() TTLs {
	return TTLsFromConfig(config.CacheConfig{})
}

// OrDefaults replaces every non-positive TTL with its default.
func (t TTLs) OrDefaults() TTLs {
	d := DefaultTTLs()
	return TTLs{
		ReorderList:   durationOr(t.ReorderList, d.ReorderList),
		CriticalList:  durationOr(t.CriticalList, d.CriticalList),
		SupplierScore: durationOr(t.SupplierScore, d.SupplierScore),
		Velocity:      durationOr(t.Velocity, d.Velocity),
	}
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

func secondsOr(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func StoreTag(storeID int64) string {
	return fmt.Sprintf("store:%d", storeID)
}

func SupplierTag(supplierID int64) string {
	return fmt.Sprintf("supplier:%d", supplierID)
}

// StoreTags returns the tags of a store-scoped entry, plus one tag per
// supplier whose data the entry contains.
func StoreTags(storeID int64, supplierIDs ...int64) []string {
	return append([]string{ReorderTag, StoreTag(storeID)}, DistinctSupplierTags(supplierIDs...)...)
}

// DistinctSupplierTags returns one tag per distinct known supplier, skipping ids <= 0
func DistinctSupplierTags(supplierIDs ...int64) []string {
	var tags []string
	seen := make(map[int64]struct{}, len(supplierIDs))
	for _, id := range supplierIDs {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		tags = append(tags, SupplierTag(id))
	}
	return tags
}

func SupplierTags(supplierID int64) []string {
	return []string{ReorderTag, SupplierTag(supplierID)}
}

// StoreKey builds a store-scoped key such as
// "reorder:store:3:velocity:product=12|window=30". Params are sorted so the
// same query always maps to one key.
func StoreKey(storeID int64, shape string, params ...string) string {
	return withParams(fmt.Sprintf("reorder:store:%d:%s", storeID, shape), params)
}

func SupplierKey(supplierID int64, shape string, params ...string) string {
	return withParams(fmt.Sprintf("reorder:supplier:%d:%s", supplierID, shape), params)
}

func VelocityKey(productID, storeID int64, windowDays int) string {
	return StoreKey(storeID, ShapeVelocity,
		fmt.Sprintf("product=%d", productID),
		fmt.Sprintf("window=%d", windowDays))
}

func withParams(base string, params []string) string {
	if len(params) == 0 {
		return base
	}
	sorted := append([]string(nil), params...)
	sort.Strings(sorted)
	return base + ":" + strings.Join(sorted, "|")
}
