package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_DirectLookup(t *testing.T) {
	c := NewDefault()

	res, err := c.Compare("AWS", "Azure", "V100")
	require.NoError(t, err)
	assert.Equal(t, "AWS", res.Provider1)
	assert.Equal(t, "Azure", res.Provider2)
	assert.True(t, res.Price1.Equal(dec("3.06")))
	assert.True(t, res.Price2.Equal(dec("2.80")))
	assert.Equal(t, "Azure", res.Cheaper)
	assert.True(t, res.SavingsPercent.Equal(dec("8.5")))
}

func TestCompare_ReversedLookupSwapsAttribution(t *testing.T) {
	c := NewDefault()

	// Stored order is AWS-then-Azure; asking Azure-first must attribute
	// Azure's price to provider1.
	res, err := c.Compare("Azure", "AWS", "V100")
	require.NoError(t, err)
	assert.Equal(t, "Azure", res.Provider1)
	assert.True(t, res.Price1.Equal(dec("2.80")))
	assert.True(t, res.Price2.Equal(dec("3.06")))
	assert.Equal(t, "Azure", res.Cheaper)
	assert.True(t, res.SavingsPercent.Equal(dec("8.5")))
}

func TestCompare_RoundTripSymmetry(t *testing.T) {
	c := NewDefault()

	for _, e := range defaultEntries() {
		forward, err := c.Compare(e.ProviderA, e.ProviderB, e.Key)
		require.NoError(t, err)
		reverse, err := c.Compare(e.ProviderB, e.ProviderA, e.Key)
		require.NoError(t, err)

		assert.Equal(t, forward.Cheaper, reverse.Cheaper)
		assert.True(t, forward.SavingsPercent.Equal(reverse.SavingsPercent))
		assert.True(t, forward.Price1.Equal(reverse.Price2))
		assert.True(t, forward.Price2.Equal(reverse.Price1))
	}
}

func TestCompare_CaseInsensitiveProviders(t *testing.T) {
	c := NewDefault()

	res, err := c.Compare("aws", "gcp", "K80")
	require.NoError(t, err)
	assert.Equal(t, "AWS", res.Provider1)
	assert.Equal(t, "GCP", res.Provider2)
	assert.Equal(t, "GCP", res.Cheaper)
	assert.True(t, res.SavingsPercent.Equal(dec("22.2")))
}

func TestCompare_NotFound(t *testing.T) {
	c := NewDefault()

	_, err := c.Compare("AWS", "Azure", "H100")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "AWS")
	assert.Contains(t, err.Error(), "Azure")
	assert.Contains(t, err.Error(), "H100")

	_, err = c.Compare("AWS", "Oracle", "V100")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNew_RejectsMislabeledCheaperProvider(t *testing.T) {
	_, err := New([]Entry{
		{ProviderA: "AWS", ProviderB: "Azure", Key: "V100",
			PriceA: dec("3.06"), PriceB: dec("2.80"),
			Cheaper: "AWS", SavingsPercent: dec("8.5")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cheaper_provider")
}

func TestNew_RejectsWrongSavings(t *testing.T) {
	_, err := New([]Entry{
		{ProviderA: "AWS", ProviderB: "Azure", Key: "V100",
			PriceA: dec("3.06"), PriceB: dec("2.80"),
			Cheaper: "Azure", SavingsPercent: dec("9.9")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "savings")
}

func TestNew_RejectsNonCanonicalOrder(t *testing.T) {
	_, err := New([]Entry{
		{ProviderA: "Azure", ProviderB: "AWS", Key: "V100",
			PriceA: dec("2.80"), PriceB: dec("3.06"),
			Cheaper: "Azure", SavingsPercent: dec("8.5")},
	})
	assert.Error(t, err)
}

func TestSavings_Rounding(t *testing.T) {
	assert.True(t, Savings(dec("3.06"), dec("2.80")).Equal(dec("8.5")))
	assert.True(t, Savings(dec("2.80"), dec("3.06")).Equal(dec("8.5")))
	assert.True(t, Savings(dec("0.90"), dec("0.85")).Equal(dec("5.6")))
	assert.True(t, Savings(dec("0.90"), dec("0.70")).Equal(dec("22.2")))
	assert.True(t, Savings(dec("1.00"), dec("1.00")).Equal(dec("0")))
	assert.True(t, Savings(dec("0"), dec("0")).Equal(dec("0")))
}
