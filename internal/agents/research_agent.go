package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"stock-research/internal/config"
	"stock-research/internal/tools"
)

const researchSystemPrompt = `You are a senior equity research assistant with access to live market data,
fundamentals, analyst ratings, news sentiment, technical indicators, macro
indicators and a brokerage account.

Guidelines:
1. Ground every claim in tool output. Fetch data before concluding.
2. Combine sources: quotes and technicals for price action, fundamentals and
   earnings for valuation, analyst ratings and news sentiment for positioning,
   macro context for the backdrop.
3. When asked to trade, state the order details and the risk checks that
   apply before placing it. Never place an order the user did not ask for.
4. Cite concrete numbers from tool results instead of vague statements.

For your reference, the current date is %s.`

// ResearchAgent is a react-style agent bound to the full research tool set.
type ResearchAgent struct {
	agent  *react.Agent
	logger zerolog.Logger
}

// NewResearchAgent wires the chat model and tools into a react agent.
func NewResearchAgent(ctx context.Context, cfg *config.Config, deps *tools.Deps) (*ResearchAgent, error) {
	chatModel, err := NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	agent, err := react.NewAgent(ctx, &react.AgentConfig{
		MaxStep:          40,
		ToolCallingModel: chatModel,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: tools.All(deps),
		},
		StreamToolCallChecker: ToolCallChecker,
	})
	if err != nil {
		return nil, fmt.Errorf("agent: %w", err)
	}

	return &ResearchAgent{
		agent:  agent,
		logger: deps.Logger.With().Str("component", "agent").Logger(),
	}, nil
}

func systemMessage() *schema.Message {
	return schema.SystemMessage(fmt.Sprintf(researchSystemPrompt, time.Now().Format("2006-01-02")))
}

// Generate runs one turn against the conversation history and returns the
// final assistant message.
func (ra *ResearchAgent) Generate(ctx context.Context, history []*schema.Message) (*schema.Message, error) {
	messages := append([]*schema.Message{systemMessage()}, history...)
	ra.logger.Debug().Int("messages", len(messages)).Msg("agent turn")
	return ra.agent.Generate(ctx, messages)
}

// Stream runs one turn and streams the final assistant message.
func (ra *ResearchAgent) Stream(ctx context.Context, history []*schema.Message) (*schema.StreamReader[*schema.Message], error) {
	messages := append([]*schema.Message{systemMessage()}, history...)
	return ra.agent.Stream(ctx, messages)
}
