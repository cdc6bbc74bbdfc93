// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

// ReadInputFile loads citations for a batch run. YAML files hold a list
// of citations with optional type and URL hints; any other file holds one
// citation per line.
func ReadInputFile(path string) ([]types.RawCitation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadCitationsYAML(f)
	default:
		return ReadCitationLines(f)
	}
}

// ReadCitationLines reads one citation per line. Blank lines and lines
// starting with # are skipped.
func ReadCitationLines(r io.Reader) ([]types.RawCitation, error) {
	var out []types.RawCitation
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, types.RawCitation{Text: line})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading citations: %w", err)
	}
	return out, nil
}

// ReadCitationsYAML reads a YAML list of citations. Type hints are
// normalized, so "case" and "legal-case" both mean a legal case.
func ReadCitationsYAML(r io.Reader) ([]types.RawCitation, error) {
	var in []types.RawCitation
	if err := yaml.NewDecoder(r).Decode(&in); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing citations: %w", err)
	}
	out := in[:0]
	for i, c := range in {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		if c.TypeHint != "" {
			t, err := types.ParseReferenceType(string(c.TypeHint))
			if err != nil {
				return nil, &types.ConfigError{Field: fmt.Sprintf("citations[%d].type_hint", i), Err: err}
			}
			c.TypeHint = t
		}
		out = append(out, c)
	}
	return out, nil
}
