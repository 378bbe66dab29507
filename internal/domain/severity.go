package domain

// Severity is the 0-5 urgency of a low-stock situation
type Severity int

const (
	SeverityNone       Severity = 0
	SeverityLow        Severity = 1
	SeverityModerate   Severity = 2
	SeverityHigh       Severity = 3
	SeverityCritical   Severity = 4
	SeverityOutOfStock Severity = 5
)

// HighPrioritySeverity is the lowest severity counted as high priority.
const HighPrioritySeverity = SeverityCritical

// CriticalStockRatio is the dashboard "critical" cut, independent of the 0.2
// severity-4 bucket.
const CriticalStockRatio = 0.25

// severityBands is ordered from worst to mildest; the first band whose
// ceiling is >= ratio wins, so exact boundaries land in the worse bucket.
var severityBands = []struct {
	maxRatio float64
	severity Severity
}{
	{0.2, SeverityCritical},
	{0.5, SeverityHigh},
	{0.8, SeverityModerate},
	{1.0, SeverityLow},
}

var severityLabels = map[Severity]string{
	SeverityNone:       "ok",
	SeverityLow:        "low",
	SeverityModerate:   "moderate",
	SeverityHigh:       "high",
	SeverityCritical:   "critical",
	SeverityOutOfStock: "out_of_stock",
}

// ClassifySeverity maps a stock position to a severity. Out of stock is always
// SeverityOutOfStock; otherwise a zero threshold means no policy is set and
// yields SeverityNone.
func ClassifySeverity(currentStock, threshold int) Severity {
	if currentStock <= 0 {
		return SeverityOutOfStock
	}
	if threshold <= 0 {
		return SeverityNone
	}

	ratio := float64(currentStock) / float64(threshold)
	for _, band := range severityBands {
		if ratio <= band.maxRatio {
			return band.severity
		}
	}
	return SeverityNone
}

// Label returns a human-readable label for the severity.
func (s Severity) Label() string {
	if label, ok := severityLabels[s]; ok {
		return label
	}
	return "unknown"
}

// IsHighPriority reports whether the severity counts toward high-priority totals
func (s Severity) IsHighPriority() bool {
	return s >= HighPrioritySeverity
}
