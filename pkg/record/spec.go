// Package record turns proxied traffic into replayable stub mappings.
//
// The Recorder watches the shared traffic log between Start and Stop,
// filters the captured exchanges against the session's Spec, and converts
// each qualifying exchange into a stub mapping: a request-match pattern,
// a response definition, and a generated name.
package record

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/snapstub/snapstub/pkg/stub"
)

// Status is the lifecycle state of the recorder. Stopped and NeverStarted
// both mean "not recording" but are reported distinctly.
type Status string

const (
	StatusNeverStarted Status = "NeverStarted"
	StatusRecording    Status = "Recording"
	StatusStopped      Status = "Stopped"
)

// BodyPatternSpec selects how recorded request bodies become match
// conditions. A nil spec means automatic: structural JSON for JSON content
// types, exact text for textual ones, exact binary otherwise.
type BodyPatternSpec struct {
	// MatchType forces a pattern kind: "equalToJson" or "equalTo".
	// Empty means automatic by content type.
	MatchType string `json:"matchType,omitempty" yaml:"matchType,omitempty"`

	// JSON comparison flags, applied when the resulting pattern is
	// structural JSON.
	IgnoreArrayOrder    bool `json:"ignoreArrayOrder,omitempty" yaml:"ignoreArrayOrder,omitempty"`
	IgnoreExtraElements bool `json:"ignoreExtraElements,omitempty" yaml:"ignoreExtraElements,omitempty"`
}

// Spec configures a recording session. It is validated once at Start and
// immutable for the session's lifetime.
type Spec struct {
	// TargetBaseURL is the proxied origin whose traffic the session
	// captures. Required.
	TargetBaseURL string `json:"targetBaseUrl" yaml:"targetBaseUrl"`

	// CaptureHeaders names request headers that become equality
	// conditions when present on a captured request. The external JSON
	// shape is an object keyed by header name; the values are reserved
	// for future per-header options and currently empty.
	CaptureHeaders map[string]struct{} `json:"captureHeaders,omitempty" yaml:"captureHeaders,omitempty"`

	// RequestBodyPattern selects how request bodies turn into match
	// conditions.
	RequestBodyPattern *BodyPatternSpec `json:"requestBodyPattern,omitempty" yaml:"requestBodyPattern,omitempty"`

	// Persist controls whether synthesized stubs are kept in the stub
	// store after the session. Defaults to true.
	Persist *bool `json:"persist,omitempty" yaml:"persist,omitempty"`

	// RepeatsAsScenarios collapses repeated identical requests into a
	// multi-step scenario instead of duplicate stubs. Defaults to false:
	// one stub per captured exchange, no deduplication.
	RepeatsAsScenarios bool `json:"repeatsAsScenarios,omitempty" yaml:"repeatsAsScenarios,omitempty"`
}

// DefaultSpec returns a spec capturing everything proxied to targetBaseURL
// with default options.
func DefaultSpec(targetBaseURL string) Spec {
	return Spec{TargetBaseURL: targetBaseURL}
}

// Validate checks the spec. It fails with ErrInvalidSpec when
// TargetBaseURL is absent, blank, or not a parseable absolute URL.
func (s *Spec) Validate() error {
	if strings.TrimSpace(s.TargetBaseURL) == "" {
		return fmt.Errorf("%w: targetBaseUrl is required", ErrInvalidSpec)
	}
	u, err := url.Parse(s.TargetBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: targetBaseUrl must be an absolute URL", ErrInvalidSpec)
	}
	return nil
}

// ShouldPersist reports the effective persist setting.
func (s *Spec) ShouldPersist() bool {
	return s.Persist == nil || *s.Persist
}

// CapturesHeader reports whether the named header is configured for
// capture. Matching is case-insensitive per HTTP header semantics.
func (s *Spec) CapturesHeader(name string) bool {
	for h := range s.CaptureHeaders {
		if strings.EqualFold(h, name) {
			return true
		}
	}
	return false
}

// forcedMatchType returns the configured body match type, if any.
func (s *Spec) forcedMatchType() string {
	if s.RequestBodyPattern == nil {
		return ""
	}
	return s.RequestBodyPattern.MatchType
}

// jsonFlags returns the ignoreArrayOrder/ignoreExtraElements flags for
// structural JSON patterns.
func (s *Spec) jsonFlags() (ignoreArrayOrder, ignoreExtraElements bool) {
	if s.RequestBodyPattern == nil {
		return false, false
	}
	return s.RequestBodyPattern.IgnoreArrayOrder, s.RequestBodyPattern.IgnoreExtraElements
}

// targetOrigin normalizes TargetBaseURL to scheme://host for origin
// comparison against captured exchanges. Must only be called on a
// validated spec.
func (s *Spec) targetOrigin() string {
	u, err := url.Parse(s.TargetBaseURL)
	if err != nil {
		return strings.TrimSuffix(s.TargetBaseURL, "/")
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}

// StatusResult is the transport-agnostic shape of a status query.
type StatusResult struct {
	Status Status `json:"status" yaml:"status"`
}

// StopResult is the transport-agnostic shape of a successful Stop: the
// generated mappings in capture order.
type StopResult struct {
	Mappings []*stub.Mapping `json:"mappings" yaml:"mappings"`
}
