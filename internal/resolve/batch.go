// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

// Entry pairs an input citation with its result.
type Entry struct {
	Input  types.RawCitation      `json:"input" yaml:"input"`
	Result types.ResolutionResult `json:"result" yaml:"result"`
}

// BatchSummary holds counts from a batch resolution run.
type BatchSummary struct {
	Resolved      int `json:"resolved" yaml:"resolved"`
	LowConfidence int `json:"low_confidence" yaml:"low_confidence"`
	Unresolved    int `json:"unresolved" yaml:"unresolved"`
}

// Total returns the number of citations processed.
func (s BatchSummary) Total() int {
	return s.Resolved + s.LowConfidence + s.Unresolved
}

// HasMisses reports whether any citation did not resolve.
func (s BatchSummary) HasMisses() bool {
	return s.LowConfidence > 0 || s.Unresolved > 0
}

func (s *BatchSummary) add(status types.ResolutionStatus) {
	switch status {
	case types.StatusResolved:
		s.Resolved++
	case types.StatusLowConfidence:
		s.LowConfidence++
	default:
		s.Unresolved++
	}
}

// ResolveAll resolves inputs in order, writing one progress line per
// citation to w. A configuration error stops the batch; a cancelled
// context stops it between citations and returns what was done.
func (r *Resolver) ResolveAll(ctx context.Context, inputs []types.RawCitation, w io.Writer) ([]Entry, BatchSummary, error) {
	var (
		entries []Entry
		summary BatchSummary
	)
	for i, in := range inputs {
		select {
		case <-ctx.Done():
			return entries, summary, ctx.Err()
		default:
		}

		res, err := r.Resolve(ctx, in)
		if err != nil {
			return entries, summary, fmt.Errorf("citation %d: %w", i+1, err)
		}
		entries = append(entries, Entry{Input: in, Result: res})
		summary.add(res.Status)

		conf := 0.0
		if res.Best != nil {
			conf = res.Best.Confidence
		}
		fmt.Fprintf(w, "%-14s %.2f  %s\n", res.Status, conf, truncate(in.Text, 70))
	}

	fmt.Fprintf(w, "\nresolved: %d, low confidence: %d, unresolved: %d\n",
		summary.Resolved, summary.LowConfidence, summary.Unresolved)
	return entries, summary, nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
