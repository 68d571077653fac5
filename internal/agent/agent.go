package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/agenthands/gpucost/internal/llm"
)

const instructions = `You are a cloud pricing specialist focused on GPUs.

YOUR TOOLS:
- search_pricing: search GPU instance prices across AWS, Azure and GCP
- compare_prices: compare prices between two providers for a GPU model
- get_trends: get market price trends per provider or across all
- search_knowledge: look up cost-optimization guidance

ALWAYS:
1. Use the available tools to obtain data before answering.
2. Give structured, clear answers.
3. Compare prices when possible and point out the cheapest option.
4. Explain your reasoning step by step.`

// Agent drives the tool-calling conversation: it hands the registry to the
// model, executes whatever calls come back through the dispatcher, and
// returns the model's final synthesis. All reasoning lives in the model; the
// agent only relays well-typed requests and results.
type Agent struct {
	Chat     llm.ChatClient
	Tools    *Toolset
	MaxTurns int
}

func New(chat llm.ChatClient, tools *Toolset, maxTurns int) *Agent {
	if maxTurns <= 0 {
		maxTurns = 6
	}
	return &Agent{Chat: chat, Tools: tools, MaxTurns: maxTurns}
}

// AnalyzeQuery answers one natural-language question, issuing tool calls
// until the model produces a final answer or the turn budget runs out.
func (a *Agent) AnalyzeQuery(ctx context.Context, question string) (string, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: instructions},
		{Role: llm.RoleUser, Content: question},
	}

	for turn := 0; turn < a.MaxTurns; turn++ {
		resp, err := a.Chat.Chat(ctx, messages, Registry())
		if err != nil {
			return "", fmt.Errorf("chat request failed: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			return resp.Content, nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, tc := range resp.ToolCalls {
			log.Printf("executing tool call: %s(%s)", tc.Name, tc.Arguments)
			result := a.Tools.Dispatch(ctx, Call{
				Name:      tc.Name,
				Arguments: decodeArguments(tc.Arguments),
			})
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    result.JSON(),
				ToolCallID: tc.ID,
				ToolName:   tc.Name,
			})
		}
	}

	return "", fmt.Errorf("no final answer after %d turns", a.MaxTurns)
}

// decodeArguments parses the model's raw JSON argument payload. A malformed
// payload becomes an empty bag so schema validation can report the missing
// required fields instead of a parse error.
func decodeArguments(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return map[string]any{}
	}
	return args
}
