// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

type rateLimitedAdapter struct {
	inner   Adapter
	limiter *rate.Limiter
}

// RateLimited wraps a with a token bucket of rps requests per second.
// A call that cannot get a token before its deadline fails with
// RateLimited instead of waiting past the deadline.
func RateLimited(a Adapter, rps float64, burst int) Adapter {
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedAdapter{
		inner:   a,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *rateLimitedAdapter) ID() string { return r.inner.ID() }

func (r *rateLimitedAdapter) Search(ctx context.Context, q types.Query) ([]RawHit, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, AsFailure(r.inner.ID(), ctx.Err())
		}
		return nil, &Failure{
			Kind:   types.FailureRateLimited,
			Engine: r.inner.ID(),
			Err:    fmt.Errorf("%w: %v", ErrRateLimited, err),
		}
	}
	return r.inner.Search(ctx, q)
}
