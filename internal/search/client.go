// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search wraps the public bibliographic, book, legal and web
// sources as engine adapters. Each adapter turns a query into one request
// (two for PubMed), classifies HTTP failures, and returns the source's
// records untouched as raw hits for the normalizer.
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/internal/httputil"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// DefaultLimit is the number of records requested from each source.
const DefaultLimit = 5

// maxBody bounds how much of a response is read.
const maxBody = 8 << 20

// Client holds the HTTP settings shared by every REST adapter.
type Client struct {
	HTTP       *http.Client
	UserAgent  string
	Email      string // sent where a source offers a polite pool
	MaxRetries int
	Limit      int
}

// NewClient builds a Client from the resolver's HTTP settings.
func NewClient(cfg types.HTTPConfig) *Client {
	return &Client{
		HTTP:       &http.Client{Timeout: cfg.Timeout},
		UserAgent:  cfg.UserAgent,
		Email:      cfg.Email,
		MaxRetries: cfg.MaxRetries,
		Limit:      DefaultLimit,
	}
}

func (c *Client) limit() int {
	if c == nil || c.Limit <= 0 {
		return DefaultLimit
	}
	return c.Limit
}

func (c *Client) httpClient() *http.Client {
	if c == nil || c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

// get fetches reqURL and returns the body of a 200 response. Every other
// outcome is a *engine.Failure for engineID.
func (c *Client) get(ctx context.Context, engineID, reqURL string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, engine.AsFailure(engineID, fmt.Errorf("creating request: %w", err))
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if c != nil && c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	retries := 0
	if c != nil {
		retries = c.MaxRetries
	}
	resp, err := httputil.DoWithRetry(ctx, c.httpClient(), req, retries)
	if err != nil {
		return nil, engine.AsFailure(engineID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, engine.FromStatus(engineID, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, engine.AsFailure(engineID, fmt.Errorf("reading response: %w", err))
	}
	return body, nil
}

// getJSON is get plus a validity check on the body.
func (c *Client) getJSON(ctx context.Context, engineID, reqURL string, header http.Header) (gjson.Result, error) {
	body, err := c.get(ctx, engineID, reqURL, header)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, engine.Malformed(engineID, fmt.Errorf("response is not JSON"))
	}
	return gjson.ParseBytes(body), nil
}

// splitHits turns the records at arrayPath into raw hits, at most limit of
// them. No records is a NotFound failure.
func splitHits(engineID string, schema engine.Schema, doc gjson.Result, arrayPath string, limit int) ([]engine.RawHit, error) {
	var hits []engine.RawHit
	for _, it := range doc.Get(arrayPath).Array() {
		if len(hits) == limit {
			break
		}
		if !it.IsObject() {
			continue
		}
		hits = append(hits, hit(engineID, schema, it.Raw))
	}
	if len(hits) == 0 {
		return nil, engine.NotFound(engineID)
	}
	return hits, nil
}

func hit(engineID string, schema engine.Schema, raw string) engine.RawHit {
	return engine.RawHit{Engine: engineID, Schema: schema, Payload: []byte(raw)}
}

// titleAuthor joins the title guess with the first author, falling back
// to the raw text.
func titleAuthor(q types.Query) string {
	return strings.Join(strings.Fields(q.SearchText()), " ")
}
