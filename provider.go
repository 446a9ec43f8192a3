package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"

	"github.com/arlenner/agent-hooks-go/internal/budget"
)

// VerdictProvider is the opaque model capability consumed by llm-kind
// handlers: it sends a rendered prompt and returns the raw response text,
// which is expected to be a JSON object shaped like
// {action, reason, modified_data}.
type VerdictProvider interface {
	Judge(ctx context.Context, prompt string) (json.RawMessage, error)
}

const judgeSystemPrompt = `You are a policy hook inside an agent runtime.
Evaluate the request and respond with a single JSON object and nothing else:
{"action": "continue" | "deny" | "modify", "reason": "...", "modified_data": {...}}
Use "continue" unless the request clearly violates the policy described in the prompt.`

const defaultJudgeMaxTokens = 1024

// AnthropicProvider implements VerdictProvider on the Anthropic API with
// a small model suited to fast, cheap judgements. Token usage and spend
// are tracked per provider instance.
type AnthropicProvider struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int64
	tracker   *budget.Tracker
}

// ProviderOption configures an AnthropicProvider.
type ProviderOption func(*AnthropicProvider)

// WithJudgeModel selects the model used for judgements.
func WithJudgeModel(model anthropic.Model) ProviderOption {
	return func(p *AnthropicProvider) { p.model = model }
}

// WithJudgeMaxTokens bounds the response length.
func WithJudgeMaxTokens(n int64) ProviderOption {
	return func(p *AnthropicProvider) { p.maxTokens = n }
}

// WithPricing overrides the pricing table used for cost tracking.
func WithPricing(pricing map[anthropic.Model]budget.ModelPricing) ProviderOption {
	return func(p *AnthropicProvider) { p.tracker = budget.NewTracker(pricing) }
}

// NewAnthropicProvider creates a provider using ambient API credentials
// (ANTHROPIC_API_KEY). The default model is Haiku.
func NewAnthropicProvider(opts ...ProviderOption) *AnthropicProvider {
	client := anthropic.NewClient()
	p := &AnthropicProvider{
		client:    &client,
		model:     anthropic.ModelClaudeHaiku4_5,
		maxTokens: defaultJudgeMaxTokens,
		tracker:   budget.NewTracker(nil),
	}
	for _, fn := range opts {
		fn(p)
	}
	return p
}

// Judge sends the rendered prompt and returns the model's raw text
// response. The model adapter parses and caches it.
func (p *AnthropicProvider) Judge(ctx context.Context, prompt string) (json.RawMessage, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: judgeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dispatch: judge request: %w", err)
	}

	p.tracker.Record(p.model, budget.Usage{
		InputTokens:      msg.Usage.InputTokens,
		OutputTokens:     msg.Usage.OutputTokens,
		CacheReadTokens:  msg.Usage.CacheReadInputTokens,
		CacheWriteTokens: msg.Usage.CacheCreationInputTokens,
	})

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, fmt.Errorf("dispatch: judge returned no text content")
	}
	return json.RawMessage(text), nil
}

// TotalCost returns the cumulative USD spend of all judgements.
func (p *AnthropicProvider) TotalCost() decimal.Decimal {
	return p.tracker.TotalCost()
}

// TotalUsage returns cumulative token usage of all judgements.
func (p *AnthropicProvider) TotalUsage() budget.Usage {
	return p.tracker.TotalUsage()
}

// JudgeCalls returns how many remote judgements were made. Cached
// verdicts do not reach the provider and are not counted.
func (p *AnthropicProvider) JudgeCalls() int64 {
	return p.tracker.Calls()
}
