package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/agenthands/gpucost/internal/catalog"
	"github.com/agenthands/gpucost/internal/compare"
	"github.com/agenthands/gpucost/internal/knowledge"
	"github.com/agenthands/gpucost/internal/llm"
	"github.com/agenthands/gpucost/internal/trends"
)

// Status classifies a tool result. Every tool folds into the same four
// outcomes so callers never special-case individual tools.
type Status string

const (
	StatusOK              Status = "ok"
	StatusNoData          Status = "no_data"
	StatusInvalidArgument Status = "invalid_argument"
	StatusError           Status = "error"
)

// Call is one tool invocation request: a registered name plus an argument
// bag. Calls are stateless; the dispatcher keeps no history.
type Call struct {
	Name      string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
}

// Result is the uniform tool result envelope.
type Result struct {
	Tool    string `json:"tool"`
	Status  Status `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"` // offending field on invalid_argument
}

// JSON renders the result for the model. Marshalling a result we built
// ourselves cannot fail in practice; the error path exists for defense only.
func (r Result) JSON() string {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf(`{"tool":%q,"status":"error","message":"unencodable result"}`, r.Tool)
	}
	return string(b)
}

// Toolset aggregates the four data components behind the dispatcher and owns
// their lifecycles for the process.
type Toolset struct {
	Catalog    *catalog.Store
	Comparator *compare.Comparator
	Trends     *trends.Aggregator
	Knowledge  *knowledge.Retriever
}

func NewToolset(cat *catalog.Store, cmp *compare.Comparator, tr *trends.Aggregator, kn *knowledge.Retriever) *Toolset {
	return &Toolset{Catalog: cat, Comparator: cmp, Trends: tr, Knowledge: kn}
}

// Dispatch validates the tool name and arguments, invokes the matching
// component, and normalizes every outcome into a Result. Component panics
// are caught here and surfaced as a generic failure without internal detail.
func (t *Toolset) Dispatch(ctx context.Context, call Call) (result Result) {
	kind, ok := toolKinds[call.Name]
	if !ok {
		return Result{
			Tool:    call.Name,
			Status:  StatusInvalidArgument,
			Field:   "tool_name",
			Message: fmt.Sprintf("unknown tool: %s", call.Name),
		}
	}

	def, _ := definition(call.Name)
	args, argErr := coerceArguments(def, call.Arguments)
	if argErr != nil {
		return Result{
			Tool:    call.Name,
			Status:  StatusInvalidArgument,
			Field:   argErr.field,
			Message: argErr.Error(),
		}
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("tool %s panicked: %v", call.Name, r)
			result = Result{Tool: call.Name, Status: StatusError, Message: "internal error"}
		}
	}()

	switch kind {
	case toolSearchPricing:
		result = t.searchPricing(args)
	case toolComparePrices:
		result = t.comparePrices(args)
	case toolGetTrends:
		result = t.getTrends(args)
	case toolSearchKnowledge:
		result = t.searchKnowledge(ctx, args)
	}
	result.Tool = call.Name
	return result
}

func (t *Toolset) searchPricing(args map[string]any) Result {
	if query := args["query"].(string); query != "" {
		matches, err := t.Catalog.SearchText(query)
		if err != nil {
			return noData("pricing data unavailable")
		}
		if len(matches) == 0 {
			return noData(fmt.Sprintf("No results found for: %s", query))
		}
		return Result{Status: StatusOK, Data: map[string]any{
			"count":   len(matches),
			"results": matches,
		}}
	}

	filter := catalog.Filter{
		Provider:    args["provider"].(string),
		GPUType:     args["gpu_type"].(string),
		MinGPUCount: int(args["min_gpu_count"].(int64)),
	}
	if maxPrice := args["max_price_per_hour"].(float64); maxPrice > 0 {
		filter.MaxPricePerHour = decimal.NewFromFloat(maxPrice)
	}

	records, err := t.Catalog.Search(filter)
	if err != nil {
		return noData("pricing data unavailable")
	}
	if len(records) == 0 {
		return noData("No instances match the given filters")
	}

	total := len(records)
	if limit := int(args["limit"].(int64)); limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return Result{Status: StatusOK, Data: map[string]any{
		"count":   total,
		"results": records,
	}}
}

func (t *Toolset) comparePrices(args map[string]any) Result {
	res, err := t.Comparator.Compare(
		args["provider1"].(string),
		args["provider2"].(string),
		args["key"].(string),
	)
	if err != nil {
		if errors.Is(err, compare.ErrNotFound) {
			return noData(err.Error())
		}
		log.Printf("compare_prices failed: %v", err)
		return Result{Status: StatusError, Message: "internal error"}
	}
	return Result{Status: StatusOK, Data: res}
}

func (t *Toolset) getTrends(args map[string]any) Result {
	provider := args["provider"].(string)
	if provider == "" || provider == "all" {
		agg, err := t.Trends.All()
		if err != nil {
			return noData("trend data unavailable")
		}
		return Result{Status: StatusOK, Data: agg}
	}

	rec, err := t.Trends.Provider(provider)
	if err != nil {
		if errors.Is(err, trends.ErrNotFound) {
			return noData(err.Error())
		}
		log.Printf("get_trends failed: %v", err)
		return Result{Status: StatusError, Message: "internal error"}
	}
	return Result{Status: StatusOK, Data: rec}
}

func (t *Toolset) searchKnowledge(ctx context.Context, args map[string]any) Result {
	query := args["query"].(string)
	var filter map[string]string
	if provider := args["provider"].(string); provider != "" {
		filter = map[string]string{"provider": provider}
	}

	matches, err := t.Knowledge.Retrieve(ctx, query, int(args["limit"].(int64)), filter)
	if err != nil {
		log.Printf("search_knowledge failed: %v", err)
		return Result{Status: StatusError, Message: "internal error"}
	}
	if len(matches) == 0 {
		return noData(fmt.Sprintf("No relevant documents found for: %s", query))
	}
	return Result{Status: StatusOK, Data: map[string]any{
		"count":   len(matches),
		"results": matches,
	}}
}

func noData(message string) Result {
	return Result{Status: StatusNoData, Message: message}
}

type argumentError struct {
	field  string
	reason string
}

func (e *argumentError) Error() string {
	return fmt.Sprintf("argument %q: %s", e.field, e.reason)
}

// coerceArguments checks the argument bag against the tool's schema. Every
// declared parameter comes out present and of its declared Go type (string,
// int64 or float64), with defaults applied, so handlers can assert types
// without guarding. Unknown arguments are rejected by name.
func coerceArguments(def llm.ToolDefinition, raw map[string]any) (map[string]any, *argumentError) {
	declared := map[string]llm.Parameter{}
	for _, p := range def.Parameters {
		declared[p.Name] = p
	}
	for name := range raw {
		if _, ok := declared[name]; !ok {
			return nil, &argumentError{field: name, reason: "not a parameter of this tool"}
		}
	}

	out := make(map[string]any, len(def.Parameters))
	for _, p := range def.Parameters {
		value, present := raw[p.Name]
		if !present || value == nil {
			if p.Required {
				return nil, &argumentError{field: p.Name, reason: "required argument missing"}
			}
			out[p.Name] = zeroValue(p)
			continue
		}

		coerced, err := coerceValue(p, value)
		if err != nil {
			return nil, err
		}
		out[p.Name] = coerced
	}
	return out, nil
}

func zeroValue(p llm.Parameter) any {
	if p.Default != nil {
		v, err := coerceValue(p, p.Default)
		if err == nil {
			return v
		}
	}
	switch p.Type {
	case "integer":
		return int64(0)
	case "number":
		return float64(0)
	default:
		return ""
	}
}

func coerceValue(p llm.Parameter, value any) (any, *argumentError) {
	switch p.Type {
	case "string":
		switch v := value.(type) {
		case string:
			return v, nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case int:
			return strconv.Itoa(v), nil
		}
		return nil, &argumentError{field: p.Name, reason: "expected a string"}

	case "integer":
		switch v := value.(type) {
		case float64:
			if v != math.Trunc(v) {
				return nil, &argumentError{field: p.Name, reason: "expected an integer"}
			}
			return int64(v), nil
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, &argumentError{field: p.Name, reason: "expected an integer"}
			}
			return n, nil
		}
		return nil, &argumentError{field: p.Name, reason: "expected an integer"}

	case "number":
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, &argumentError{field: p.Name, reason: "expected a number"}
			}
			return f, nil
		}
		return nil, &argumentError{field: p.Name, reason: "expected a number"}
	}
	return nil, &argumentError{field: p.Name, reason: "unsupported parameter type"}
}
