// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ResolutionStatus is the terminal outcome of a resolution request.
type ResolutionStatus string

const (
	StatusResolved      ResolutionStatus = "resolved"
	StatusLowConfidence ResolutionStatus = "low_confidence"
	StatusUnresolved    ResolutionStatus = "unresolved"
)

// FailureKind classifies why an engine call produced no usable hits.
type FailureKind string

const (
	FailureTimeout        FailureKind = "timeout"
	FailureRateLimited    FailureKind = "rate_limited"
	FailureNotFound       FailureKind = "not_found"
	FailureTransportError FailureKind = "transport_error"
)

// Attempt records one engine call made while resolving a citation.
type Attempt struct {
	// Engine is the adapter id (e.g. "crossref").
	Engine string `json:"engine" yaml:"engine"`

	// Tier is the registry tier the engine was called in.
	Tier int `json:"tier" yaml:"tier"`

	// Failure is empty when the call returned hits.
	Failure FailureKind `json:"failure,omitempty" yaml:"failure,omitempty"`

	// Message carries the failure detail for diagnostics.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// Hits is the number of raw hits returned.
	Hits int `json:"hits" yaml:"hits"`

	// Kept is the number of hits that survived normalization.
	Kept int `json:"kept" yaml:"kept"`
}

// ResolutionResult is the terminal answer to one resolution request. It is
// never mutated after it is returned.
type ResolutionResult struct {
	Status ResolutionStatus `json:"status" yaml:"status"`

	// Best is the chosen record; nil when unresolved.
	Best *CanonicalMetadata `json:"best,omitempty" yaml:"best,omitempty"`

	// Candidates are the ranked alternatives (Best first) for user selection.
	Candidates []CanonicalMetadata `json:"candidates,omitempty" yaml:"candidates,omitempty"`

	// Attempts lists every engine called, ordered by tier then registry order.
	Attempts []Attempt `json:"attempts" yaml:"attempts"`

	// DetectedTypes is the detector output the request started from.
	DetectedTypes []TypeScore `json:"detected_types" yaml:"detected_types"`

	// SearchedTypes are the candidate types engines were consulted for.
	SearchedTypes []ReferenceType `json:"searched_types" yaml:"searched_types"`

	// TiersSearched lists tiers in the order they were searched.
	TiersSearched []int `json:"tiers_searched" yaml:"tiers_searched"`

	// ShortCircuited is true when a tier ended early on an exact match.
	ShortCircuited bool `json:"short_circuited,omitempty" yaml:"short_circuited,omitempty"`
}

// Resolved reports whether the best record met the resolution threshold.
func (r ResolutionResult) Resolved() bool {
	return r.Status == StatusResolved
}

// EnginesAttempted returns the engine ids in attempt order.
func (r ResolutionResult) EnginesAttempted() []string {
	names := make([]string, len(r.Attempts))
	for i, a := range r.Attempts {
		names[i] = a.Engine
	}
	return names
}
