package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(defaultData(), 42)
}

func TestSearch_AllFiltersAND(t *testing.T) {
	s := testStore(t)

	results, err := s.Search(Filter{
		Provider:        "AWS",
		GPUType:         "V100",
		MinGPUCount:     1,
		MaxPricePerHour: decimal.RequireFromString("5.00"),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "AWS", r.Provider)
	assert.Equal(t, "p3.2xlarge", r.InstanceType)
	assert.True(t, r.PricePerHour.Equal(decimal.RequireFromString("3.06")))
}

func TestSearch_FilterSatisfaction(t *testing.T) {
	s := testStore(t)

	results, err := s.Search(Filter{GPUType: "K80", MinGPUCount: 2})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, "K80", r.GPUType)
		assert.GreaterOrEqual(t, r.GPUCount, 2)
	}

	results, err = s.Search(Filter{MaxPricePerHour: decimal.RequireFromString("1.00")})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.True(t, r.PricePerHour.LessThanOrEqual(decimal.RequireFromString("1.00")),
			"price %s exceeds filter", r.PricePerHour)
	}
}

func TestSearch_ProviderCaseInsensitive(t *testing.T) {
	s := testStore(t)

	lower, err := s.Search(Filter{Provider: "aws"})
	require.NoError(t, err)
	upper, err := s.Search(Filter{Provider: "AWS"})
	require.NoError(t, err)
	assert.Equal(t, len(upper), len(lower))
	assert.NotEmpty(t, lower)
}

func TestSearch_UnknownProviderEmptyNotError(t *testing.T) {
	s := testStore(t)

	results, err := s.Search(Filter{Provider: "DigitalOcean"})
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_EmptyStoreDataUnavailable(t *testing.T) {
	s := NewStore(nil, 1)

	_, err := s.Search(Filter{})
	assert.ErrorIs(t, err, ErrNoData)

	_, err = s.SearchText("anything")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSearch_DeterministicUnderFixedSeed(t *testing.T) {
	a := NewStore(defaultData(), 7)
	b := NewStore(defaultData(), 7)

	ra, err := a.Search(Filter{})
	require.NoError(t, err)
	rb, err := b.Search(Filter{})
	require.NoError(t, err)
	assert.Equal(t, ra, rb)
}

func TestSearchText_MatchesAnyField(t *testing.T) {
	s := testStore(t)

	matches, err := s.SearchText("v100")
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Equal(t, "V100", m.Record.GPUType)
		assert.Equal(t, "GPU_Instances", m.Category)
	}

	matches, err = s.SearchText("us-east-1")
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Equal(t, "AWS", m.Provider)
	}
}

func TestSearchText_CapsResults(t *testing.T) {
	s := testStore(t)

	// Every record contains "gpu" via the category-independent gpu_type field key.
	matches, err := s.SearchText("gpu")
	require.NoError(t, err)
	assert.Len(t, matches, SearchTextLimit)
}

func TestSearchText_NoMatch(t *testing.T) {
	s := testStore(t)

	matches, err := s.SearchText("does-not-exist-anywhere")
	assert.NoError(t, err)
	assert.Empty(t, matches)
}
