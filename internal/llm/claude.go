package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

type ClaudeClient struct {
	client *anthropic.Client
	model  string
}

func NewClaudeClient(apiKey string, model string, baseURL string) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(apiKey, opts...)
	return &ClaudeClient{
		client: client,
		model:  model,
	}
}

func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.Chat(ctx, []Message{{Role: RoleUser, Content: prompt}}, nil)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (c *ClaudeClient) Chat(ctx context.Context, messages []Message, tools []ToolDefinition) (*ChatResponse, error) {
	req := anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: 2000,
	}

	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			// Anthropic takes the system prompt out of band.
			req.System = m.Content
		case RoleAssistant:
			msg := anthropic.Message{Role: anthropic.RoleAssistant}
			if m.Content != "" {
				msg.Content = append(msg.Content, anthropic.NewTextMessageContent(m.Content))
			}
			for _, tc := range m.ToolCalls {
				msg.Content = append(msg.Content,
					anthropic.NewToolUseMessageContent(tc.ID, tc.Name, json.RawMessage(tc.Arguments)))
			}
			req.Messages = append(req.Messages, msg)
		case RoleTool:
			req.Messages = append(req.Messages, anthropic.NewToolResultsMessage(m.ToolCallID, m.Content, false))
		default:
			req.Messages = append(req.Messages, anthropic.NewUserTextMessage(m.Content))
		}
	}

	for _, t := range tools {
		req.Tools = append(req.Tools, anthropic.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.JSONSchema(),
		})
	}

	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &ChatResponse{}
	for _, content := range resp.Content {
		switch content.Type {
		case anthropic.MessagesContentTypeText:
			if content.Text != nil {
				out.Content += *content.Text
			}
		case anthropic.MessagesContentTypeToolUse:
			if content.MessageContentToolUse == nil {
				continue
			}
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:        content.MessageContentToolUse.ID,
				Name:      content.MessageContentToolUse.Name,
				Arguments: string(content.MessageContentToolUse.Input),
			})
		}
	}
	if out.Content == "" && len(out.ToolCalls) == 0 {
		return nil, fmt.Errorf("no response content")
	}
	return out, nil
}
