package compare

import "github.com/shopspring/decimal"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// defaultEntries is the shipped comparison table, versioned with the binary.
// Pairs are stored once, in lexicographic provider order.
func defaultEntries() []Entry {
	return []Entry{
		{ProviderA: "AWS", ProviderB: "Azure", Key: "V100", PriceA: dec("3.06"), PriceB: dec("2.80"), Cheaper: "Azure", SavingsPercent: dec("8.5")},
		{ProviderA: "AWS", ProviderB: "Azure", Key: "K80", PriceA: dec("0.90"), PriceB: dec("0.85"), Cheaper: "Azure", SavingsPercent: dec("5.6")},
		{ProviderA: "AWS", ProviderB: "GCP", Key: "V100", PriceA: dec("3.06"), PriceB: dec("2.90"), Cheaper: "GCP", SavingsPercent: dec("5.2")},
		{ProviderA: "AWS", ProviderB: "GCP", Key: "K80", PriceA: dec("0.90"), PriceB: dec("0.70"), Cheaper: "GCP", SavingsPercent: dec("22.2")},
		{ProviderA: "Azure", ProviderB: "GCP", Key: "K80", PriceA: dec("0.85"), PriceB: dec("0.70"), Cheaper: "GCP", SavingsPercent: dec("17.6")},
	}
}

// NewDefault builds the comparator over the shipped table. The table is
// validated at construction; a broken shipped table is a programming error.
func NewDefault() *Comparator {
	c, err := New(defaultEntries())
	if err != nil {
		panic(err)
	}
	return c
}
