// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: WarnLevel, Output: &buf})

	l.Info("hidden")
	l.Warn("shown", "engine", "crossref")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "crossref")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: DebugLevel, Output: &buf, JSON: true})

	l.With("request", "abc").Debug("searching tier", "tier", 1)

	line := strings.TrimSpace(buf.String())
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "searching tier", rec["msg"])
	assert.Equal(t, "abc", rec["request"])
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	var buf bytes.Buffer
	l := New(Config{Level: InfoLevel, Output: &buf})
	ctx := WithContext(context.Background(), l)
	FromContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestLevelCharm_UnknownDefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: Level("verbose"), Output: &buf})
	l.Info("info line")
	l.Warn("warn line")
	assert.NotContains(t, buf.String(), "info line")
	assert.Contains(t, buf.String(), "warn line")
}
