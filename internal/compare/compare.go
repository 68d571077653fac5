// Package compare computes pairwise provider price comparisons from a static
// table of precomputed facts. Lookups are symmetric: the table stores each
// pair once under a canonical order, and a reversed query gets its price
// attribution swapped on the way out.
package compare

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("comparison not available")

// Entry is one precomputed pairwise fact, stored under the canonical
// (lexicographic) provider order.
type Entry struct {
	ProviderA      string
	ProviderB      string
	Key            string // instance type or GPU model, e.g. "V100"
	PriceA         decimal.Decimal
	PriceB         decimal.Decimal
	Cheaper        string
	SavingsPercent decimal.Decimal // (max-min)/max*100, one decimal place
}

// Result is a comparison with prices attributed to the providers in the
// order the caller asked for them.
type Result struct {
	Provider1      string          `json:"provider1"`
	Provider2      string          `json:"provider2"`
	Key            string          `json:"key"`
	Price1         decimal.Decimal `json:"provider1_price"`
	Price2         decimal.Decimal `json:"provider2_price"`
	Cheaper        string          `json:"recommendation"`
	SavingsPercent decimal.Decimal `json:"savings_percent"`
}

type pairKey struct {
	a, b, key string
}

type Comparator struct {
	entries map[pairKey]Entry
}

// canonicalProvider maps arbitrary casing onto the table's spelling.
var canonicalProvider = map[string]string{
	"aws":   "AWS",
	"azure": "Azure",
	"gcp":   "GCP",
}

func Canonical(provider string) string {
	if c, ok := canonicalProvider[strings.ToLower(provider)]; ok {
		return c
	}
	return provider
}

// New builds a comparator, asserting every entry's cheaper-provider label and
// savings figure against its own prices. The table is shipped data, not user
// input, but a data-entry slip here would silently invert recommendations.
func New(entries []Entry) (*Comparator, error) {
	c := &Comparator{entries: make(map[pairKey]Entry, len(entries))}
	for _, e := range entries {
		if e.ProviderA > e.ProviderB {
			return nil, fmt.Errorf("entry %s/%s %s: providers not in canonical order", e.ProviderA, e.ProviderB, e.Key)
		}
		cheaper := e.ProviderA
		if e.PriceB.LessThan(e.PriceA) {
			cheaper = e.ProviderB
		}
		if e.Cheaper != cheaper {
			return nil, fmt.Errorf("entry %s/%s %s: cheaper_provider %q does not match prices", e.ProviderA, e.ProviderB, e.Key, e.Cheaper)
		}
		if want := Savings(e.PriceA, e.PriceB); !e.SavingsPercent.Equal(want) {
			return nil, fmt.Errorf("entry %s/%s %s: savings %s, expected %s", e.ProviderA, e.ProviderB, e.Key, e.SavingsPercent, want)
		}
		c.entries[pairKey{e.ProviderA, e.ProviderB, e.Key}] = e
	}
	return c, nil
}

// Savings returns (max-min)/max*100 rounded to one decimal place.
func Savings(a, b decimal.Decimal) decimal.Decimal {
	max, min := a, b
	if b.GreaterThan(a) {
		max, min = b, a
	}
	if max.IsZero() {
		return decimal.Zero
	}
	return max.Sub(min).Div(max).Mul(decimal.NewFromInt(100)).Round(1)
}

// Compare looks up the pair under canonical provider casing in both orders.
// Prices track provider identity: a reversed hit swaps the attribution so
// provider1 always gets provider1's price.
func (c *Comparator) Compare(provider1, provider2, key string) (Result, error) {
	p1 := Canonical(provider1)
	p2 := Canonical(provider2)

	if e, ok := c.entries[pairKey{p1, p2, key}]; ok {
		return Result{
			Provider1:      p1,
			Provider2:      p2,
			Key:            key,
			Price1:         e.PriceA,
			Price2:         e.PriceB,
			Cheaper:        e.Cheaper,
			SavingsPercent: e.SavingsPercent,
		}, nil
	}

	if e, ok := c.entries[pairKey{p2, p1, key}]; ok {
		return Result{
			Provider1:      p1,
			Provider2:      p2,
			Key:            key,
			Price1:         e.PriceB,
			Price2:         e.PriceA,
			Cheaper:        e.Cheaper,
			SavingsPercent: e.SavingsPercent,
		}, nil
	}

	return Result{}, fmt.Errorf("%w for %s vs %s with key %s", ErrNotFound, p1, p2, key)
}
