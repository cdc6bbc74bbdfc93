// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// ResultFile is the on-disk representation of a resolution run. It lets
// the user render citations in another style later without re-querying
// any source.
type ResultFile struct {
	Entries []Entry     `yaml:"entries"`
	Summary FileSummary `yaml:"summary"`
}

// FileSummary stores batch counts and a timestamp.
type FileSummary struct {
	BatchSummary `yaml:",inline"`
	Timestamp    time.Time `yaml:"timestamp"`
}

// WriteResultFile saves entries to a YAML file.
func WriteResultFile(path string, entries []Entry) error {
	rf := ResultFile{Entries: entries}
	for _, e := range entries {
		rf.Summary.add(e.Result.Status)
	}
	rf.Summary.Timestamp = time.Now().UTC()

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
