// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), Name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(NewViper(""))
	require.NoError(t, err)
	assert.Equal(t, types.DefaultResolverConfig(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
resolution_threshold: 0.85
tier_timeout: 5s
style: apa
catalog_path: /tmp/catalog.db
http:
  email: me@example.org
engines:
  - id: crossref
    rate_limit: 2
    burst: 4
  - id: claude
    enabled: false
  - id: openalex
    tier: 2
    types: [journal, book]
`)
	cfg, err := Load(NewViper(path))
	require.NoError(t, err)

	assert.Equal(t, 0.85, cfg.ResolutionThreshold)
	assert.Equal(t, 0.95, cfg.ShortCircuitThreshold)
	assert.Equal(t, 5*time.Second, cfg.TierTimeout)
	assert.Equal(t, "apa", cfg.Style)
	assert.Equal(t, "/tmp/catalog.db", cfg.CatalogPath)
	assert.Equal(t, "me@example.org", cfg.HTTP.Email)
	assert.Equal(t, "cite-resolver/0.1", cfg.HTTP.UserAgent)

	require.Len(t, cfg.Engines, 3)
	assert.Equal(t, 2.0, cfg.Engines[0].RateLimit)
	assert.Equal(t, 4, cfg.Engines[0].Burst)
	require.NotNil(t, cfg.Engines[1].Enabled)
	assert.False(t, *cfg.Engines[1].Enabled)
	require.NotNil(t, cfg.Engines[2].Tier)
	assert.Equal(t, 2, *cfg.Engines[2].Tier)
	assert.Equal(t, []string{"journal", "book"}, cfg.Engines[2].Types)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CITE_RESOLVER_FAN_OUT", "3")
	t.Setenv("CITE_RESOLVER_HTTP_USER_AGENT", "test-agent")
	path := writeConfig(t, "fan_out: 1\n")

	cfg, err := Load(NewViper(path))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.FanOut)
	assert.Equal(t, "test-agent", cfg.HTTP.UserAgent)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(NewViper(filepath.Join(t.TempDir(), "nope.yaml")))
	var cerr *types.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "config", cerr.Field)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "fan_out: [1, 2\n")
	_, err := Load(NewViper(path))
	var cerr *types.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "config", cerr.Field)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"threshold above one", "resolution_threshold: 1.5\n", "resolution_threshold"},
		{"short circuit below resolution", "short_circuit_threshold: 0.5\n", "short_circuit_threshold"},
		{"fan out zero", "fan_out: 0\n", "fan_out"},
		{"zero tier timeout", "tier_timeout: 0s\n", "tier_timeout"},
		{"unknown style", "style: harvard\n", "style"},
		{"bad log level", "log_level: loud\n", "log_level"},
		{"bad email", "http:\n  email: nobody\n", "http.email"},
		{"engine without id", "engines:\n  - tier: 1\n", "engines[0].id"},
		{"duplicate engine", "engines:\n  - id: crossref\n  - id: crossref\n", "engines"},
		{"negative engine tier", "engines:\n  - id: crossref\n    tier: -1\n", "engines[0].tier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(NewViper(writeConfig(t, tt.body)))
			var cerr *types.ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	assert.NoError(t, Validate(types.DefaultResolverConfig()))
}
