package llm

import (
	"context"
)

// Message roles used across all providers. Tool messages carry the result of
// a tool invocation back to the model, keyed by the originating call ID.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Parameter describes a single argument of a callable tool. The registry
// exposes these to the reasoning model; the dispatcher validates incoming
// arguments against them.
type Parameter struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"` // "string", "number" or "integer"
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Default     any      `json:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// ToolDefinition is the provider-neutral schema of one callable tool.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
}

// JSONSchema renders the parameter list as a JSON Schema object, the shape
// the OpenAI and Anthropic APIs expect for tool input.
func (t ToolDefinition) JSONSchema() map[string]any {
	props := map[string]any{}
	var required []string
	for _, p := range t.Parameters {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// ToolCall is a single tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON object
}

type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall // set on assistant messages that request tools
	ToolCallID string     // set on tool messages
	ToolName   string     // set on tool messages
}

// ChatResponse is one assistant turn: either final content, tool calls, or both.
type ChatResponse struct {
	Content   string
	ToolCalls []ToolCall
}

type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChatClient is the multi-turn, tool-aware interface the agent loop drives.
type ChatClient interface {
	Chat(ctx context.Context, messages []Message, tools []ToolDefinition) (*ChatResponse, error)
}

type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
