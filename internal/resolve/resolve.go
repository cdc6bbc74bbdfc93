// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns a raw citation into a terminal ResolutionResult.
// The Resolver walks the registry's tiers as an explicit state machine:
//
//	Detecting → SearchingTier(n) → Scoring → {Resolved, Escalating, Exhausted}
//
// Escalation is a one-way ratchet. A tier is searched at most once per
// request, and no tier is searched once the best candidate meets the
// resolution threshold.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/cite-resolver/internal/detect"
	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/internal/logger"
	"github.com/pdiddy/cite-resolver/internal/normalize"
	"github.com/pdiddy/cite-resolver/internal/score"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// State is a step of the resolution state machine.
type State string

const (
	StateDetecting     State = "detecting"
	StateSearchingTier State = "searching_tier"
	StateScoring       State = "scoring"
	StateEscalating    State = "escalating"
	StateResolved      State = "resolved"
	StateExhausted     State = "exhausted"
)

// ErrNoTiers is wrapped in the ConfigError returned when no adapter is
// registered for any candidate type.
var ErrNoTiers = errors.New("no engines registered for the candidate types")

// DetectFunc classifies raw text into candidate types.
type DetectFunc func(text string) []types.TypeScore

// ScoreFunc scores a candidate against the query.
type ScoreFunc func(q types.Query, cand types.CanonicalMetadata) float64

// Resolver runs resolution requests against a fixed registry and
// configuration. It holds no per-request state and is safe for concurrent
// use.
type Resolver struct {
	registry   *engine.Registry
	cfg        types.ResolverConfig
	normalizer *normalize.Normalizer
	detect     DetectFunc
	score      ScoreFunc
	log        logger.Logger
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

// WithDetector replaces the type detector.
func WithDetector(fn DetectFunc) Option {
	return func(r *Resolver) { r.detect = fn }
}

// WithScorer replaces the confidence scorer.
func WithScorer(fn ScoreFunc) Option {
	return func(r *Resolver) { r.score = fn }
}

// New builds a Resolver. A nil or empty registry is a configuration error.
func New(reg *engine.Registry, cfg types.ResolverConfig, opts ...Option) (*Resolver, error) {
	if reg == nil || reg.Len() == 0 {
		return nil, &types.ConfigError{Field: "engines", Err: errors.New("registry has no engines")}
	}
	if cfg.ShortCircuitThreshold < cfg.ResolutionThreshold {
		return nil, &types.ConfigError{Field: "short_circuit_threshold", Err: fmt.Errorf("%.2f is below resolution_threshold %.2f", cfg.ShortCircuitThreshold, cfg.ResolutionThreshold)}
	}
	if cfg.TierTimeout <= 0 {
		cfg.TierTimeout = types.DefaultResolverConfig().TierTimeout
	}
	if cfg.FanOut < 1 {
		cfg.FanOut = 1
	}
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}
	if cfg.MaxCandidates < 1 {
		cfg.MaxCandidates = 1
	}

	r := &Resolver{
		registry: reg,
		cfg:      cfg,
		detect:   detect.Detect,
		score:    score.Score,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.normalizer = normalize.New(r.log)
	return r, nil
}

// Config returns the resolver's configuration.
func (r *Resolver) Config() types.ResolverConfig { return r.cfg }

// run is the mutable state of one request. It never escapes Resolve.
type run struct {
	raw      types.RawCitation
	query    types.Query
	detected []types.TypeScore
	tiers    []int
	tierIdx  int

	pool      []candidate
	attempts  []attemptRecord
	searched  []int
	shortCirc bool

	log logger.Logger
}

// Resolve resolves raw. Adapter failures never surface as errors: the
// result always describes what was tried. The error is non-nil only for
// configuration problems.
func (r *Resolver) Resolve(ctx context.Context, raw types.RawCitation) (types.ResolutionResult, error) {
	st := &run{
		raw: raw,
		log: r.log.With("request", uuid.NewString()),
	}

	state := StateDetecting
	for {
		st.log.Debug("state", "state", state, "tier_index", st.tierIdx)
		switch state {
		case StateDetecting:
			next, err := r.detecting(st)
			if err != nil {
				return types.ResolutionResult{}, err
			}
			state = next

		case StateSearchingTier:
			if ctx.Err() != nil {
				st.log.Warn("request cancelled before tier", "tier", st.tiers[st.tierIdx], "error", ctx.Err())
				state = StateExhausted
				continue
			}
			r.searchTier(ctx, st, st.tiers[st.tierIdx])
			state = StateScoring

		case StateScoring:
			state = r.scoring(st)

		case StateEscalating:
			st.tierIdx++
			st.log.Info("escalating", "tier", st.tiers[st.tierIdx], "best", st.bestConfidence())
			state = StateSearchingTier

		case StateResolved, StateExhausted:
			res := r.result(st)
			st.log.Info("done", "status", res.Status, "tiers", res.TiersSearched, "attempts", len(res.Attempts))
			return res, nil
		}
	}
}

func (r *Resolver) detecting(st *run) (State, error) {
	st.detected = r.detect(st.raw.Text)

	var hint types.ReferenceType
	if h := strings.TrimSpace(string(st.raw.TypeHint)); h != "" {
		t, err := types.ParseReferenceType(h)
		if err != nil {
			return "", &types.ConfigError{Field: "type", Err: err}
		}
		hint = t
	}

	st.query = detect.ExtractQuery(st.raw)
	st.query.Types = detect.Candidates(st.detected, hint, r.cfg.AmbiguityThreshold, r.cfg.FanOut)
	st.log.Debug("detected", "types", st.query.Types, "title", st.query.Title, "doi", st.query.DOI)

	if strings.TrimSpace(st.raw.Text) == "" && st.raw.URLHint == "" {
		return StateExhausted, nil
	}

	st.tiers = r.registry.Tiers(st.query.Types)
	if len(st.tiers) == 0 {
		return "", &types.ConfigError{Field: "engines", Err: fmt.Errorf("%w: %v", ErrNoTiers, st.query.Types)}
	}
	return StateSearchingTier, nil
}

// scoring decides the transition after a tier: resolved when the best
// candidate meets the threshold, escalate while tiers remain, otherwise
// exhausted.
func (r *Resolver) scoring(st *run) State {
	rankPool(st.pool)
	switch {
	case st.bestConfidence() >= r.cfg.ResolutionThreshold && len(st.pool) > 0:
		return StateResolved
	case st.tierIdx+1 < len(st.tiers):
		return StateEscalating
	default:
		return StateExhausted
	}
}

func (st *run) bestConfidence() float64 {
	if len(st.pool) == 0 {
		return 0
	}
	return st.pool[0].meta.Confidence
}

// result assembles the terminal, immutable answer.
func (r *Resolver) result(st *run) types.ResolutionResult {
	rankPool(st.pool)

	res := types.ResolutionResult{
		Status:         types.StatusUnresolved,
		DetectedTypes:  st.detected,
		SearchedTypes:  st.query.Types,
		TiersSearched:  st.searched,
		ShortCircuited: st.shortCirc,
	}

	sort.SliceStable(st.attempts, func(i, j int) bool {
		if st.attempts[i].Tier != st.attempts[j].Tier {
			return st.attempts[i].Tier < st.attempts[j].Tier
		}
		return st.attempts[i].order < st.attempts[j].order
	})
	res.Attempts = make([]types.Attempt, len(st.attempts))
	for i, a := range st.attempts {
		res.Attempts[i] = a.Attempt
	}

	cands := dedupe(st.pool)
	if len(cands) > r.cfg.MaxCandidates {
		cands = cands[:r.cfg.MaxCandidates]
	}
	if len(cands) == 0 {
		return res
	}

	res.Candidates = make([]types.CanonicalMetadata, len(cands))
	for i, c := range cands {
		res.Candidates[i] = c.meta
	}
	best := res.Candidates[0]
	res.Best = &best
	if best.Confidence >= r.cfg.ResolutionThreshold {
		res.Status = types.StatusResolved
	} else {
		res.Status = types.StatusLowConfidence
	}
	return res
}
