// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ai asks a language model to identify a cited work when the
// scholarly and web sources could not. Replies are requested as JSON,
// split into one raw hit per proposed work, and scored like any other
// source; the model's own confidence is not trusted.
package ai

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/internal/logger"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// maxWorks caps the works kept from one reply.
const maxWorks = 5

// systemPrompt frames the model as a reference librarian and fixes the
// reply shape the normalizer's ai mapping reads.
const systemPrompt = `You are an expert reference librarian. Given a citation as written by an author, identify the published work it refers to.

Respond with a JSON object and nothing else:
{"found": true, "works": [{
  "citation_type": "journal" | "book" | "legal_case" | "newspaper" | "web_page",
  "title": "Full title of the work",
  "authors": ["Last, First M."],
  "year": 2020,
  "journal": "Journal or newspaper or website name",
  "volume": "", "issue": "", "pages": "start-end",
  "publisher": "", "place": "", "edition": "",
  "court": "", "case_citation": "410 U.S. 113",
  "doi": "10.xxxx/xxxxx", "isbn": "", "url": ""
}]}

Rules:
1. Return up to 5 works, most likely first.
2. Omit any field you are not sure of rather than guess.
3. Never invent a DOI, ISBN or URL.
4. If you cannot identify the work, respond {"found": false, "works": []}.`

// userPromptTmpl renders the query for the model.
var userPromptTmpl = template.Must(template.New("citation").Funcs(template.FuncMap{"join": strings.Join}).Parse(`Citation: {{.Text}}
{{- if .Types}}
Likely type: {{range $i, $t := .Types}}{{if $i}} or {{end}}{{$t}}{{end}}{{end}}
{{- if .Title}}
Title guess: {{.Title}}{{end}}
{{- if .Authors}}
Author surnames: {{join .Authors ", "}}{{end}}
{{- if .Year}}
Year: {{.Year}}{{end}}
{{- if .DOI}}
DOI: {{.DOI}}{{end}}
{{- if .ISBN}}
ISBN: {{.ISBN}}{{end}}
{{- if .CaseCitation}}
Reporter citation: {{.CaseCitation}}{{end}}
{{- if .URL}}
URL: {{.URL}}{{end}}
`))

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// Adapter turns a Completer into an engine adapter. Every completed call,
// including retries, is charged to Costs and logged at info level.
type Adapter struct {
	Name       string
	Completer  Completer
	MaxRetries int
	Costs      *CostTracker
	Log        logger.Logger
}

// NewAdapter wraps c under id.
func NewAdapter(id string, c Completer, maxRetries int) *Adapter {
	return &Adapter{Name: id, Completer: c, MaxRetries: maxRetries, Log: logger.Discard()}
}

// ID returns the adapter identifier.
func (a *Adapter) ID() string { return a.Name }

// Search asks the model about q and returns one hit per proposed work.
func (a *Adapter) Search(ctx context.Context, q types.Query) ([]engine.RawHit, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, engine.Unsupported(a.ID())
	}
	prompt, err := renderPrompt(q)
	if err != nil {
		return nil, engine.AsFailure(a.ID(), fmt.Errorf("rendering prompt: %w", err))
	}

	reply, err := a.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseReply(a.ID(), reply)
}

// callWithRetry retries transport failures with exponential backoff.
// NotFound, rate limits and context expiry end the loop at once.
func (a *Adapter) callWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr *engine.Failure
	for attempt := 0; attempt <= a.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", engine.AsFailure(a.ID(), ctx.Err())
			case <-time.After(backoff):
			}
		}

		reply, err := a.Completer.Complete(ctx, systemPrompt, prompt)
		if err == nil {
			a.record(reply.Usage)
			return reply.Text, nil
		}
		lastErr = classify(a.ID(), err)
		if lastErr.Kind != types.FailureTransportError || ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func (a *Adapter) record(u Usage) {
	cost := a.Costs.Record(a.ID(), u)
	if a.Log == nil {
		return
	}
	a.Log.Info("ai call",
		"engine", a.ID(),
		"input_tokens", u.InputTokens,
		"output_tokens", u.OutputTokens,
		"cost_usd", cost)
}

func renderPrompt(q types.Query) (string, error) {
	var buf bytes.Buffer
	if err := userPromptTmpl.Execute(&buf, q); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// parseReply extracts the JSON object from reply, tolerating code fences
// and surrounding prose.
func parseReply(engineID, reply string) ([]engine.RawHit, error) {
	body := extractJSON(reply)
	if body == "" || !gjson.Valid(body) {
		return nil, engine.Malformed(engineID, fmt.Errorf("reply is not a JSON object"))
	}
	doc := gjson.Parse(body)

	if f := doc.Get("found"); f.Exists() && !f.Bool() {
		return nil, engine.NotFound(engineID)
	}

	works := doc.Get("works").Array()
	if len(works) == 0 && doc.Get("title").Exists() {
		// Single-work reply.
		works = []gjson.Result{doc}
	}

	var hits []engine.RawHit
	for _, w := range works {
		if len(hits) == maxWorks {
			break
		}
		if !w.IsObject() || strings.TrimSpace(w.Get("title").String()) == "" {
			continue
		}
		hits = append(hits, engine.RawHit{Engine: engineID, Schema: engine.SchemaAI, Payload: []byte(w.Raw)})
	}
	if len(hits) == 0 {
		return nil, engine.NotFound(engineID)
	}
	return hits, nil
}

func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}
