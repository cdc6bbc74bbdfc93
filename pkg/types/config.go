// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by adapters that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP client timeout. Per-call deadlines come from the
	// resolver context and are usually shorter.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "cite-resolver/0.1 (mailto:you@example.org)").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// Email is sent to APIs with a polite pool (Crossref, OpenAlex, NCBI).
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email" validate:"omitempty,email"`

	// MaxRetries bounds HTTP 429 retries per call (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0,lte=10"`
}

// EngineConfig overrides the registry entry for one engine.
type EngineConfig struct {
	// ID names the engine (crossref, openalex, semantic_scholar, ...).
	ID string `json:"id" yaml:"id" mapstructure:"id" validate:"required"`

	// Enabled turns the engine off when false. Nil keeps the default.
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty" mapstructure:"enabled"`

	// Tier moves the engine to another tier. Nil keeps the default.
	Tier *int `json:"tier,omitempty" yaml:"tier,omitempty" mapstructure:"tier" validate:"omitempty,gte=0,lte=9"`

	// Types replaces the reference types the engine serves.
	Types []string `json:"types,omitempty" yaml:"types,omitempty" mapstructure:"types"`

	// Timeout is the per-call budget for this engine.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" mapstructure:"timeout" validate:"gte=0"`

	// RateLimit is requests per second; zero disables client-side limiting.
	RateLimit float64 `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty" mapstructure:"rate_limit" validate:"gte=0"`

	// Burst is the token bucket size used with RateLimit (default 1).
	Burst int `json:"burst,omitempty" yaml:"burst,omitempty" mapstructure:"burst" validate:"gte=0"`

	// CacheSize enables a read-through LRU of this many queries.
	CacheSize int `json:"cache_size,omitempty" yaml:"cache_size,omitempty" mapstructure:"cache_size" validate:"gte=0"`
}

// AIConfig holds settings for the generative-AI fallback tiers.
type AIConfig struct {
	// OpenAIModel is the model used by the cheaper OpenAI tier (e.g. "gpt-4o-mini").
	OpenAIModel string `json:"openai_model" yaml:"openai_model" mapstructure:"openai_model"`

	// GeminiModel is the model used by the cheaper Gemini tier.
	GeminiModel string `json:"gemini_model" yaml:"gemini_model" mapstructure:"gemini_model"`

	// ClaudeModel is the model used by the expensive tier.
	ClaudeModel string `json:"claude_model" yaml:"claude_model" mapstructure:"claude_model"`

	// MaxTokens caps the completion length.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens" validate:"gte=0"`

	// MaxRetries is the number of retry attempts for rate-limited calls (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0,lte=10"`
}

// ResolverConfig is the configuration surface of the resolution pipeline.
// It is loaded once at startup and treated as read-only afterwards.
type ResolverConfig struct {
	// ResolutionThreshold is the confidence at which a candidate is accepted
	// and escalation stops (default 0.80).
	ResolutionThreshold float64 `json:"resolution_threshold" yaml:"resolution_threshold" mapstructure:"resolution_threshold" validate:"gte=0,lte=1"`

	// ShortCircuitThreshold ends a tier early without waiting for slower
	// adapters (default 0.95). Exact identifier matches always short-circuit.
	ShortCircuitThreshold float64 `json:"short_circuit_threshold" yaml:"short_circuit_threshold" mapstructure:"short_circuit_threshold" validate:"gte=0,lte=1,gtefield=ResolutionThreshold"`

	// AmbiguityThreshold: when the top detected type scores below it, the
	// resolver searches the top FanOut types (default 0.70).
	AmbiguityThreshold float64 `json:"ambiguity_threshold" yaml:"ambiguity_threshold" mapstructure:"ambiguity_threshold" validate:"gte=0,lte=1"`

	// FanOut bounds the number of candidate types searched (default 2).
	FanOut int `json:"fan_out" yaml:"fan_out" mapstructure:"fan_out" validate:"gte=1,lte=5"`

	// TierTimeout bounds the total wait per tier (default 12s).
	TierTimeout time.Duration `json:"tier_timeout" yaml:"tier_timeout" mapstructure:"tier_timeout" validate:"gt=0"`

	// MaxConcurrency bounds concurrent adapter calls within a tier (default 6).
	MaxConcurrency int `json:"max_concurrency" yaml:"max_concurrency" mapstructure:"max_concurrency" validate:"gte=1,lte=32"`

	// MaxCandidates bounds the ranked alternatives returned (default 5).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates" mapstructure:"max_candidates" validate:"gte=1,lte=20"`

	// CatalogPath is the SQLite database of known records served from tier 0.
	CatalogPath string `json:"catalog_path,omitempty" yaml:"catalog_path,omitempty" mapstructure:"catalog_path"`

	// Style is the default output style for the CLI.
	Style string `json:"style" yaml:"style" mapstructure:"style" validate:"omitempty,oneof=chicago apa mla bluebook oscola"`

	HTTP    HTTPConfig     `json:"http" yaml:"http" mapstructure:"http"`
	AI      AIConfig       `json:"ai" yaml:"ai" mapstructure:"ai"`
	Engines []EngineConfig `json:"engines,omitempty" yaml:"engines,omitempty" mapstructure:"engines" validate:"unique=ID,dive"`

	// LogLevel is one of debug, info, warn, error (default warn).
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// LogJSON switches log output to JSON.
	LogJSON bool `json:"log_json" yaml:"log_json" mapstructure:"log_json"`
}

// DefaultResolverConfig returns the documented defaults.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		ResolutionThreshold:   0.80,
		ShortCircuitThreshold: 0.95,
		AmbiguityThreshold:    0.70,
		FanOut:                2,
		TierTimeout:           12 * time.Second,
		MaxConcurrency:        6,
		MaxCandidates:         5,
		Style:                 "chicago",
		HTTP: HTTPConfig{
			Timeout:    15 * time.Second,
			UserAgent:  "cite-resolver/0.1",
			MaxRetries: 2,
		},
		AI: AIConfig{
			OpenAIModel: "gpt-4o-mini",
			GeminiModel: "gemini-1.5-flash",
			ClaudeModel: "claude-sonnet-4-5-20250929",
			MaxTokens:   1024,
			MaxRetries:  2,
		},
		LogLevel: "warn",
	}
}
