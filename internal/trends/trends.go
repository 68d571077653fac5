// Package trends serves per-provider GPU price trend signals and an
// aggregate view derived from them. The table is shipped data, static for
// the process lifetime.
package trends

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("trend data not available")

// Trend labels for a single provider.
const (
	LabelIncreasing = "increasing"
	LabelDecreasing = "decreasing"
	LabelStable     = "stable"
)

// Aggregate labels derived from the sign of the average change.
const (
	OverallIncreasing = "prices_increasing"
	OverallDecreasing = "prices_decreasing"
	OverallStable     = "prices_stable"
)

// Record is one provider's market signal.
type Record struct {
	Provider      string          `json:"provider"`
	Label         string          `json:"trend"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Analysis      string          `json:"analysis"`
}

// Aggregate is the all-provider view. The overall label comes from the sign
// of the average change, not a majority vote of per-provider labels.
type Aggregate struct {
	OverallLabel         string            `json:"overall_trend"`
	AverageChangePercent decimal.Decimal   `json:"average_change_percent"`
	PerProvider          map[string]Record `json:"providers"`
}

type Aggregator struct {
	records map[string]Record
	order   []string
}

func New(records []Record) *Aggregator {
	a := &Aggregator{records: make(map[string]Record, len(records))}
	for _, r := range records {
		key := strings.ToLower(r.Provider)
		if _, dup := a.records[key]; !dup {
			a.order = append(a.order, r.Provider)
		}
		a.records[key] = r
	}
	return a
}

// Provider returns one provider's trend record, case-insensitively.
func (a *Aggregator) Provider(provider string) (Record, error) {
	r, ok := a.records[strings.ToLower(provider)]
	if !ok {
		return Record{}, fmt.Errorf("%w for provider %s", ErrNotFound, provider)
	}
	return r, nil
}

// All computes the aggregate view: exact arithmetic mean of every change
// percentage, rounded to one decimal place.
func (a *Aggregator) All() (Aggregate, error) {
	if len(a.records) == 0 {
		return Aggregate{}, ErrNotFound
	}

	sum := decimal.Zero
	perProvider := make(map[string]Record, len(a.records))
	for _, name := range a.order {
		r := a.records[strings.ToLower(name)]
		sum = sum.Add(r.ChangePercent)
		perProvider[name] = r
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(a.order)))).Round(1)

	return Aggregate{
		OverallLabel:         overallLabel(avg),
		AverageChangePercent: avg,
		PerProvider:          perProvider,
	}, nil
}

func overallLabel(avg decimal.Decimal) string {
	threshold := decimal.RequireFromString("0.5")
	switch {
	case avg.LessThan(threshold.Neg()):
		return OverallDecreasing
	case avg.GreaterThan(threshold):
		return OverallIncreasing
	default:
		return OverallStable
	}
}

// defaultRecords is the shipped trend table.
func defaultRecords() []Record {
	return []Record{
		{Provider: "AWS", Label: LabelDecreasing, ChangePercent: decimal.RequireFromString("-2.1"),
			Analysis: "Reserved capacity expansion is pulling on-demand GPU prices down slightly"},
		{Provider: "Azure", Label: LabelDecreasing, ChangePercent: decimal.RequireFromString("-8.5"),
			Analysis: "Aggressive AI capacity build-out with steep cuts across the NC series"},
		{Provider: "GCP", Label: LabelDecreasing, ChangePercent: decimal.RequireFromString("-6.3"),
			Analysis: "Competitive repricing against AWS, strongest on K80 and V100 classes"},
	}
}

// NewDefault builds the aggregator over the shipped table.
func NewDefault() *Aggregator {
	return New(defaultRecords())
}
