// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

// fakeAdapter returns canned hits after an optional delay and counts calls.
type fakeAdapter struct {
	id    string
	hits  []RawHit
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (f *fakeAdapter) ID() string { return f.id }

func (f *fakeAdapter) Search(ctx context.Context, _ types.Query) ([]RawHit, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, AsFailure(f.id, ctx.Err())
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}
