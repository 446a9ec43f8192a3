// Package budget tracks token usage and USD spend for model-backed hook
// judgements. Costs use decimal arithmetic so many small judge calls
// accumulate without float drift.
package budget

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"
)

// ModelPricing holds per-model token prices in USD per million tokens.
type ModelPricing struct {
	InputPerMTok      decimal.Decimal
	OutputPerMTok     decimal.Decimal
	CacheWritePerMTok decimal.Decimal
	CacheReadPerMTok  decimal.Decimal
}

var million = decimal.NewFromInt(1_000_000)

// Cost returns the USD cost of one judge call.
func (p ModelPricing) Cost(u Usage) decimal.Decimal {
	cost := decimal.NewFromInt(u.InputTokens).Mul(p.InputPerMTok).Div(million)
	cost = cost.Add(decimal.NewFromInt(u.OutputTokens).Mul(p.OutputPerMTok).Div(million))
	cost = cost.Add(decimal.NewFromInt(u.CacheReadTokens).Mul(p.CacheReadPerMTok).Div(million))
	cost = cost.Add(decimal.NewFromInt(u.CacheWriteTokens).Mul(p.CacheWritePerMTok).Div(million))
	return cost
}

// DefaultPricing covers the models a judge hook would plausibly run on
// (USD per million tokens). Judge prompts are short, so long-context
// premium rates are not modelled.
var DefaultPricing = map[anthropic.Model]ModelPricing{
	anthropic.ModelClaudeHaiku4_5: {
		InputPerMTok:      decimal.NewFromFloat(1),
		OutputPerMTok:     decimal.NewFromFloat(5),
		CacheWritePerMTok: decimal.NewFromFloat(1.25),
		CacheReadPerMTok:  decimal.NewFromFloat(0.1),
	},
	anthropic.ModelClaudeSonnet4_5: {
		InputPerMTok:      decimal.NewFromFloat(3),
		OutputPerMTok:     decimal.NewFromFloat(15),
		CacheWritePerMTok: decimal.NewFromFloat(3.75),
		CacheReadPerMTok:  decimal.NewFromFloat(0.3),
	},
}
