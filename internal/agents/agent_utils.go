package agents

import (
	"context"
	"errors"
	"io"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"

	"stock-research/internal/config"
)

// NewChatModel builds the OpenAI-compatible chat model from the agent
// configuration.
func NewChatModel(ctx context.Context, cfg *config.Config) (*openai.ChatModel, error) {
	if cfg.AgentAPIKey == "" {
		return nil, errors.New("agent: AGENT_API_KEY is not set")
	}

	maxTokens := 8192
	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:   cfg.AgentBaseURL,
		APIKey:    cfg.AgentAPIKey,
		Model:     cfg.AgentModel,
		MaxTokens: &maxTokens,
	})
}

// ToolCallChecker scans a streamed message for tool calls so the react loop
// knows whether to keep going.
func ToolCallChecker(ctx context.Context, sr *schema.StreamReader[*schema.Message]) (bool, error) {
	defer sr.Close()
	for {
		msg, err := sr.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}
		if len(msg.ToolCalls) > 0 {
			return true, nil
		}
	}
}
