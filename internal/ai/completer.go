// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"

	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// Completer sends one system+user prompt pair to a language model and
// returns the text of the reply with the provider's token usage.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (Reply, error)
}

// ErrEmptyReply indicates the model answered with no text.
var ErrEmptyReply = errors.New("model returned no text")

// classify maps provider SDK errors onto adapter failures.
func classify(engineID string, err error) *engine.Failure {
	var oaErr *openai.APIError
	if errors.As(err, &oaErr) {
		return statusFailure(engineID, oaErr.HTTPStatusCode, err)
	}
	var oaReq *openai.RequestError
	if errors.As(err, &oaReq) {
		return statusFailure(engineID, oaReq.HTTPStatusCode, err)
	}
	var anErr *anthropic.APIError
	if errors.As(err, &anErr) {
		switch string(anErr.Type) {
		case "rate_limit_error", "overloaded_error":
			return &engine.Failure{Kind: types.FailureRateLimited, Engine: engineID, Err: fmt.Errorf("%w: %v", engine.ErrRateLimited, err)}
		}
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return statusFailure(engineID, gErr.Code, err)
	}
	return engine.AsFailure(engineID, err)
}

func statusFailure(engineID string, status int, err error) *engine.Failure {
	if status == 0 || status == http.StatusOK {
		return engine.AsFailure(engineID, err)
	}
	f := engine.FromStatus(engineID, status)
	f.Err = fmt.Errorf("%w: %v", f.Err, err)
	return f
}
