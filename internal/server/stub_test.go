package server

import (
	"context"

	"github.com/agenthands/gpucost/internal/llm"
)

type stubChat struct{}

func (stubChat) Chat(ctx context.Context, messages []llm.Message, tools []llm.ToolDefinition) (*llm.ChatResponse, error) {
	return &llm.ChatResponse{Content: "stub answer"}, nil
}
