// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

// Sentinel causes carried inside a Failure.
var (
	// ErrNoMatch indicates the source answered but had nothing for the query.
	ErrNoMatch = errors.New("no matching records")

	// ErrRateLimited indicates the source or the local limiter refused the call.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrUnsupportedQuery indicates the query lacks every field the source can search on.
	ErrUnsupportedQuery = errors.New("query has no fields this source can search")

	// ErrMalformed indicates the source returned a payload that could not be parsed.
	ErrMalformed = errors.New("malformed response")
)

// Failure is the error every adapter returns. It is local to one call and
// never aborts a resolution.
type Failure struct {
	Kind   types.FailureKind
	Engine string
	Err    error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: %s", f.Engine, f.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", f.Engine, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// NotFound builds a NotFound failure for engine.
func NotFound(engine string) *Failure {
	return &Failure{Kind: types.FailureNotFound, Engine: engine, Err: ErrNoMatch}
}

// Unsupported builds a NotFound failure for queries the engine cannot serve.
func Unsupported(engine string) *Failure {
	return &Failure{Kind: types.FailureNotFound, Engine: engine, Err: ErrUnsupportedQuery}
}

// Malformed builds a TransportError failure for unparseable payloads.
func Malformed(engine string, err error) *Failure {
	return &Failure{Kind: types.FailureTransportError, Engine: engine, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
}

// FromStatus maps a non-200 HTTP status to a Failure.
func FromStatus(engine string, status int) *Failure {
	switch {
	case status == http.StatusNotFound:
		return NotFound(engine)
	case status == http.StatusTooManyRequests:
		return &Failure{Kind: types.FailureRateLimited, Engine: engine, Err: ErrRateLimited}
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return &Failure{Kind: types.FailureTimeout, Engine: engine, Err: fmt.Errorf("HTTP %d", status)}
	default:
		return &Failure{Kind: types.FailureTransportError, Engine: engine, Err: fmt.Errorf("HTTP %d", status)}
	}
}

// AsFailure classifies any error returned by an adapter. A *Failure passes
// through unchanged (with Engine filled in if missing); context expiry and
// network timeouts become Timeout; everything else is TransportError.
func AsFailure(engine string, err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		if f.Engine == "" {
			cp := *f
			cp.Engine = engine
			return &cp
		}
		return f
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Failure{Kind: types.FailureTimeout, Engine: engine, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &Failure{Kind: types.FailureTimeout, Engine: engine, Err: err}
	}
	if errors.Is(err, ErrRateLimited) {
		return &Failure{Kind: types.FailureRateLimited, Engine: engine, Err: err}
	}
	if errors.Is(err, ErrNoMatch) {
		return &Failure{Kind: types.FailureNotFound, Engine: engine, Err: err}
	}
	return &Failure{Kind: types.FailureTransportError, Engine: engine, Err: err}
}

func kindOf(err error) types.FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// IsTimeout returns true if err is a Timeout failure.
func IsTimeout(err error) bool { return kindOf(err) == types.FailureTimeout }

// IsRateLimited returns true if err is a RateLimited failure.
func IsRateLimited(err error) bool { return kindOf(err) == types.FailureRateLimited }

// IsNotFound returns true if err is a NotFound failure.
func IsNotFound(err error) bool { return kindOf(err) == types.FailureNotFound }
