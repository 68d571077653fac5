// Package catalog holds the structured table of priced GPU instance
// offerings and answers filtered and free-text lookups over it. The store is
// populated once at startup and read-only afterwards.
package catalog

import (
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoData reports that the store has no records at all, which is distinct
// from a filter that simply matched nothing.
var ErrNoData = errors.New("pricing data unavailable")

// SearchTextLimit caps free-text results so a single tool response stays
// small enough to feed back to the model.
const SearchTextLimit = 5

// InstanceRecord is one priced offering. Unique per (provider, instance type).
type InstanceRecord struct {
	Provider     string          `json:"provider"`
	InstanceType string          `json:"instance_type"`
	GPUType      string          `json:"gpu_type"`
	GPUCount     int             `json:"gpu_count"`
	VCPUs        int             `json:"vcpus"`
	MemoryGB     float64         `json:"memory_gb"`
	PricePerHour decimal.Decimal `json:"price_per_hour"`
	Region       string          `json:"region"`
}

// TextMatch is a free-text search hit with its grouping context.
type TextMatch struct {
	Provider string         `json:"provider"`
	Category string         `json:"category"`
	Record   InstanceRecord `json:"data"`
}

// Filter narrows a catalog search. Zero values mean "unset"; set filters are
// combined with logical AND.
type Filter struct {
	Provider        string
	GPUType         string
	MinGPUCount     int
	MaxPricePerHour decimal.Decimal
}

type entry struct {
	category string
	record   InstanceRecord
}

// Store is the read-only pricing catalog. Result order is intentionally not
// stable: searches shuffle their output with a store-local source so tests
// can pin a seed.
type Store struct {
	entries []entry

	mu  sync.Mutex
	rng *rand.Rand
}

// NewStore builds a catalog from grouped seed data (provider -> category ->
// records). Pass seed 0 for time-based shuffling; any other value makes
// result order reproducible.
func NewStore(data map[string]map[string][]InstanceRecord, seed int64) *Store {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Store{rng: rand.New(rand.NewSource(seed))}
	for provider, categories := range data {
		for category, records := range categories {
			for _, r := range records {
				if r.Provider == "" {
					r.Provider = provider
				}
				s.entries = append(s.entries, entry{category: category, record: r})
			}
		}
	}
	return s
}

// Empty reports whether the store loaded no records.
func (s *Store) Empty() bool {
	return len(s.entries) == 0
}

// Len returns the number of loaded records.
func (s *Store) Len() int {
	return len(s.entries)
}

// Search returns every record satisfying all set filters. An unknown
// provider yields an empty result, not an error; ErrNoData is returned only
// when the store itself is empty.
func (s *Store) Search(f Filter) ([]InstanceRecord, error) {
	if s.Empty() {
		return nil, ErrNoData
	}

	var results []InstanceRecord
	for _, e := range s.entries {
		if !matches(e.record, f) {
			continue
		}
		results = append(results, e.record)
	}

	s.shuffleRecords(results)
	return results, nil
}

func matches(r InstanceRecord, f Filter) bool {
	if f.Provider != "" && !strings.EqualFold(r.Provider, f.Provider) {
		return false
	}
	if f.GPUType != "" && r.GPUType != f.GPUType {
		return false
	}
	if f.MinGPUCount > 0 && r.GPUCount < f.MinGPUCount {
		return false
	}
	if !f.MaxPricePerHour.IsZero() && r.PricePerHour.GreaterThan(f.MaxPricePerHour) {
		return false
	}
	return true
}

// SearchText matches records whose serialized form contains the lowercased
// query substring, capped at SearchTextLimit hits. This is the compatibility
// path for the plain substring search tool variant.
func (s *Store) SearchText(query string) ([]TextMatch, error) {
	if s.Empty() {
		return nil, ErrNoData
	}

	q := strings.ToLower(query)
	var results []TextMatch
	for _, e := range s.entries {
		serialized, err := json.Marshal(e.record)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(string(serialized)), q) {
			results = append(results, TextMatch{
				Provider: e.record.Provider,
				Category: e.category,
				Record:   e.record,
			})
			if len(results) == SearchTextLimit {
				break
			}
		}
	}
	return results, nil
}

func (s *Store) shuffleRecords(records []InstanceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
}
