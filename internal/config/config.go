// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads the resolver configuration with viper, validates
// it, and assembles the engine registry from it. The configuration is
// read once at startup and is read-only afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

const (
	// Name is the config file base name (cite-resolver.yaml).
	Name = "cite-resolver"

	// EnvPrefix prefixes environment overrides, as in
	// CITE_RESOLVER_RESOLUTION_THRESHOLD or CITE_RESOLVER_HTTP_EMAIL.
	EnvPrefix = "CITE_RESOLVER"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NewViper returns a viper instance that reads cfgFile, or searches for
// cite-resolver.yaml in the working directory and ~/.config/cite-resolver,
// with environment overrides and documented defaults.
func NewViper(cfgFile string) *viper.Viper {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", Name))
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// SetDefaults registers every documented option with its default, which
// also makes each key visible to environment overrides.
func SetDefaults(v *viper.Viper) {
	d := types.DefaultResolverConfig()
	v.SetDefault("resolution_threshold", d.ResolutionThreshold)
	v.SetDefault("short_circuit_threshold", d.ShortCircuitThreshold)
	v.SetDefault("ambiguity_threshold", d.AmbiguityThreshold)
	v.SetDefault("fan_out", d.FanOut)
	v.SetDefault("tier_timeout", d.TierTimeout)
	v.SetDefault("max_concurrency", d.MaxConcurrency)
	v.SetDefault("max_candidates", d.MaxCandidates)
	v.SetDefault("catalog_path", d.CatalogPath)
	v.SetDefault("style", d.Style)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_json", d.LogJSON)

	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.email", d.HTTP.Email)
	v.SetDefault("http.max_retries", d.HTTP.MaxRetries)

	v.SetDefault("ai.openai_model", d.AI.OpenAIModel)
	v.SetDefault("ai.gemini_model", d.AI.GeminiModel)
	v.SetDefault("ai.claude_model", d.AI.ClaudeModel)
	v.SetDefault("ai.max_tokens", d.AI.MaxTokens)
	v.SetDefault("ai.max_retries", d.AI.MaxRetries)
}

// Load reads the config file if there is one, unmarshals it over the
// defaults and validates the result. A missing file found by search is
// not an error; a missing file named explicitly is.
func Load(v *viper.Viper) (types.ResolverConfig, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || v.ConfigFileUsed() != "" {
			return types.ResolverConfig{}, &types.ConfigError{Field: "config", Err: fmt.Errorf("reading %s: %w", v.ConfigFileUsed(), err)}
		}
	}

	var cfg types.ResolverConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.ResolverConfig{}, &types.ConfigError{Field: "config", Err: fmt.Errorf("decoding: %w", err)}
	}
	if err := Validate(cfg); err != nil {
		return types.ResolverConfig{}, err
	}
	return cfg, nil
}

// Validate checks cfg against its struct constraints and reports the
// first violation as a ConfigError naming the offending key.
func Validate(cfg types.ResolverConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &types.ConfigError{
			Field: keyOf(fe.Namespace()),
			Err:   fmt.Errorf("value %v fails %q", fe.Value(), constraint(fe)),
		}
	}
	return &types.ConfigError{Field: "config", Err: err}
}

// keyOf drops the struct name from a validator namespace:
// "ResolverConfig.http.email" becomes "http.email".
func keyOf(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func constraint(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
