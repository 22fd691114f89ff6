// Package stub defines stub mappings: a request-match pattern paired with a
// canned response, produced by the recorder and replayed by the mock engine.
package stub

import (
	"time"

	"github.com/google/uuid"
)

// MatchKind identifies the body-pattern variant. The matching engine
// downstream branches on this tag; exactly one value field is populated
// per kind.
type MatchKind string

const (
	// MatchEqualTo matches the body as an exact text comparison.
	MatchEqualTo MatchKind = "equalTo"
	// MatchEqualToJSON matches the body structurally as JSON.
	MatchEqualToJSON MatchKind = "equalToJson"
	// MatchBinaryEqualTo matches the body byte-for-byte.
	MatchBinaryEqualTo MatchKind = "binaryEqualTo"
)

// BodyPattern is a tagged variant describing how a request body must match.
type BodyPattern struct {
	Kind MatchKind `json:"matchType" yaml:"matchType"`

	// EqualTo is the expected text body (Kind == MatchEqualTo).
	EqualTo string `json:"equalTo,omitempty" yaml:"equalTo,omitempty"`

	// EqualToJSON is the expected JSON document (Kind == MatchEqualToJSON).
	EqualToJSON string `json:"equalToJson,omitempty" yaml:"equalToJson,omitempty"`

	// BinaryEqualTo is the expected body, base64-encoded (Kind == MatchBinaryEqualTo).
	BinaryEqualTo string `json:"binaryEqualTo,omitempty" yaml:"binaryEqualTo,omitempty"`

	// JSON comparison flags, meaningful only for MatchEqualToJSON.
	IgnoreArrayOrder    bool `json:"ignoreArrayOrder,omitempty" yaml:"ignoreArrayOrder,omitempty"`
	IgnoreExtraElements bool `json:"ignoreExtraElements,omitempty" yaml:"ignoreExtraElements,omitempty"`
}

// RequestPattern defines the conditions an incoming request must meet for
// the stub to serve its response.
type RequestPattern struct {
	// Method is the required HTTP method.
	Method string `json:"method" yaml:"method"`

	// URL is the exact path-plus-query the request must carry.
	URL string `json:"url" yaml:"url"`

	// Headers are equality conditions on request headers.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Body is the body condition, absent when the recorded body was empty.
	Body *BodyPattern `json:"bodyPattern,omitempty" yaml:"bodyPattern,omitempty"`
}

// ResponseDefinition is the canned response replayed when the pattern matches.
// Content-Length is recomputed at replay time and Content-Encoding is never
// re-applied, so neither appears in Headers.
type ResponseDefinition struct {
	Status int `json:"status" yaml:"status"`

	// Body holds textual payloads verbatim.
	Body string `json:"body,omitempty" yaml:"body,omitempty"`

	// BodyBase64 holds binary payloads, base64-encoded. At most one of
	// Body and BodyBase64 is set; both are empty for empty responses.
	BodyBase64 string `json:"base64Body,omitempty" yaml:"base64Body,omitempty"`

	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// Mapping pairs a request pattern with a response definition under a
// generated human-readable name. Ownership passes to the caller once the
// recorder returns it.
type Mapping struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	// Persist records whether the spec asked for this mapping to be kept
	// in the stub store after the session.
	Persist bool `json:"persist" yaml:"persist"`

	Request  RequestPattern     `json:"request" yaml:"request"`
	Response ResponseDefinition `json:"response" yaml:"response"`

	// Scenario state, populated only when repeated identical requests were
	// collapsed into a multi-step scenario.
	Scenario      string `json:"scenarioName,omitempty" yaml:"scenarioName,omitempty"`
	RequiredState string `json:"requiredScenarioState,omitempty" yaml:"requiredScenarioState,omitempty"`
	NewState      string `json:"newScenarioState,omitempty" yaml:"newScenarioState,omitempty"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// StartedState is the initial state of every scenario.
const StartedState = "Started"

// NewMapping creates an empty mapping with a fresh ID.
func NewMapping(name string) *Mapping {
	return &Mapping{
		ID:        uuid.NewString(),
		Name:      name,
		Persist:   true,
		CreatedAt: time.Now(),
	}
}
