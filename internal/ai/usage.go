// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"sort"
	"sync"
)

// Usage is the token count a provider reported for one call.
type Usage struct {
	InputTokens  int `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int `json:"output_tokens" yaml:"output_tokens"`
}

// Reply is a model's answer and what it cost in tokens.
type Reply struct {
	Text  string
	Usage Usage
}

// Price is a provider's rate in US dollars per million tokens.
type Price struct {
	Input  float64
	Output float64
}

// Prices holds the list rates for the default model of each AI engine.
var Prices = map[string]Price{
	"gemini": {Input: 0.075, Output: 0.30},
	"openai": {Input: 2.50, Output: 10.00},
	"claude": {Input: 3.00, Output: 15.00},
}

// Cost returns the dollar cost of u at engine's rate, or 0 for an
// engine with no known rate.
func Cost(engine string, u Usage) float64 {
	p, ok := Prices[engine]
	if !ok {
		return 0
	}
	return (float64(u.InputTokens)*p.Input + float64(u.OutputTokens)*p.Output) / 1_000_000
}

// EngineCost totals the calls made to one engine.
type EngineCost struct {
	Engine       string  `json:"engine" yaml:"engine"`
	Calls        int     `json:"calls" yaml:"calls"`
	InputTokens  int     `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int     `json:"output_tokens" yaml:"output_tokens"`
	CostUSD      float64 `json:"cost_usd" yaml:"cost_usd"`
}

// CostTracker accumulates token usage and cost per engine. It is safe
// for concurrent use; a nil tracker records nothing.
type CostTracker struct {
	mu     sync.Mutex
	totals map[string]*EngineCost
}

// NewCostTracker returns an empty tracker.
func NewCostTracker() *CostTracker {
	return &CostTracker{totals: make(map[string]*EngineCost)}
}

// Record adds one call's usage and returns its cost.
func (t *CostTracker) Record(engine string, u Usage) float64 {
	cost := Cost(engine, u)
	if t == nil {
		return cost
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	ec, ok := t.totals[engine]
	if !ok {
		ec = &EngineCost{Engine: engine}
		t.totals[engine] = ec
	}
	ec.Calls++
	ec.InputTokens += u.InputTokens
	ec.OutputTokens += u.OutputTokens
	ec.CostUSD += cost
	return cost
}

// Totals returns the per-engine totals sorted by engine id.
func (t *CostTracker) Totals() []EngineCost {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]EngineCost, 0, len(t.totals))
	for _, ec := range t.totals {
		out = append(out, *ec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Engine < out[j].Engine })
	return out
}

// Total returns the summed cost across engines.
func (t *CostTracker) Total() float64 {
	var sum float64
	for _, ec := range t.Totals() {
		sum += ec.CostUSD
	}
	return sum
}
