// Package agent exposes the pricing components as a fixed set of named,
// schema-described tools, dispatches validated tool calls against them, and
// runs the model-driven loop that strings calls together into an answer.
package agent

import (
	"github.com/agenthands/gpucost/internal/llm"
)

// toolKind is the closed enumeration of registered tools. The dispatcher
// switches exhaustively over it; adding a tool means adding a kind, a
// definition and a case, all checked at compile time.
type toolKind int

const (
	toolSearchPricing toolKind = iota
	toolComparePrices
	toolGetTrends
	toolSearchKnowledge
)

// Tool names are part of the contract with the reasoning model; prompts
// reference them, so they must stay stable.
const (
	NameSearchPricing   = "search_pricing"
	NameComparePrices   = "compare_prices"
	NameGetTrends       = "get_trends"
	NameSearchKnowledge = "search_knowledge"
)

var toolKinds = map[string]toolKind{
	NameSearchPricing:   toolSearchPricing,
	NameComparePrices:   toolComparePrices,
	NameGetTrends:       toolGetTrends,
	NameSearchKnowledge: toolSearchKnowledge,
}

// DefaultSearchLimit caps filtered pricing results for display.
const DefaultSearchLimit = 10

var registry = []llm.ToolDefinition{
	{
		Name:        NameSearchPricing,
		Description: "Search GPU instance pricing across the AWS, Azure and GCP catalogs",
		Parameters: []llm.Parameter{
			{Name: "provider", Type: "string", Description: "Cloud provider to filter by (AWS, Azure or GCP)"},
			{Name: "gpu_type", Type: "string", Description: "GPU model to filter by, e.g. V100 or K80"},
			{Name: "min_gpu_count", Type: "integer", Description: "Minimum number of GPUs per instance"},
			{Name: "max_price_per_hour", Type: "number", Description: "Maximum hourly price in USD"},
			{Name: "query", Type: "string", Description: "Free-text search over all record fields; overrides the other filters"},
			{Name: "limit", Type: "integer", Description: "Maximum number of results to return", Default: DefaultSearchLimit},
		},
	},
	{
		Name:        NameComparePrices,
		Description: "Compare GPU prices between two cloud providers and recommend the cheaper one",
		Parameters: []llm.Parameter{
			{Name: "provider1", Type: "string", Description: "First provider", Required: true},
			{Name: "provider2", Type: "string", Description: "Second provider", Required: true},
			{Name: "key", Type: "string", Description: "GPU model or instance key to compare, e.g. V100", Required: true},
		},
	},
	{
		Name:        NameGetTrends,
		Description: "Get GPU market price trends for one provider or an aggregate across all",
		Parameters: []llm.Parameter{
			{Name: "provider", Type: "string", Description: "Provider name, or \"all\" for the aggregate view", Default: "all"},
		},
	},
	{
		Name:        NameSearchKnowledge,
		Description: "Search the cloud cost-optimization knowledge base by semantic similarity",
		Parameters: []llm.Parameter{
			{Name: "query", Type: "string", Description: "Question or topic to look up", Required: true},
			{Name: "limit", Type: "integer", Description: "Maximum number of documents to return", Default: 2},
			{Name: "provider", Type: "string", Description: "Restrict results to documents tagged with this provider"},
		},
	},
}

// Registry returns the stable tool schema consumed by the reasoning model.
func Registry() []llm.ToolDefinition {
	out := make([]llm.ToolDefinition, len(registry))
	copy(out, registry)
	return out
}

func definition(name string) (llm.ToolDefinition, bool) {
	for _, d := range registry {
		if d.Name == name {
			return d, true
		}
	}
	return llm.ToolDefinition{}, false
}
