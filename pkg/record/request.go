package record

import (
	"encoding/base64"
	"net/http"

	"github.com/ohler55/ojg/oj"

	"github.com/snapstub/snapstub/pkg/content"
	"github.com/snapstub/snapstub/pkg/stub"
	"github.com/snapstub/snapstub/pkg/traffic"
)

// buildRequestPattern turns a captured request into a match pattern:
// exact URL (path+query) and method, equality conditions for configured
// headers that are present, and a body condition keyed by content type.
// Compressed bodies are decoded before any of this; patterns never match
// against wire bytes.
func buildRequestPattern(e *traffic.Exchange, spec *Spec) stub.RequestPattern {
	pattern := stub.RequestPattern{
		Method: e.Request.Method,
		URL:    e.RequestURI(),
	}

	for name := range spec.CaptureHeaders {
		// Absent headers are skipped, not an error.
		if v := e.Request.Headers.Get(name); v != "" {
			if pattern.Headers == nil {
				pattern.Headers = make(map[string]string)
			}
			pattern.Headers[http.CanonicalHeaderKey(name)] = v
		}
	}

	body := decodeBody(e.Request.Headers, e.Request.Body)
	if len(body) > 0 {
		pattern.Body = buildBodyPattern(body, e.Request.Headers.Get("Content-Type"), spec)
	}

	return pattern
}

// buildBodyPattern chooses the body-pattern variant for a non-empty decoded
// body. The spec can force exact-text matching; otherwise JSON content
// becomes a structural match, textual content an exact-text match, and
// everything else an exact-binary match.
func buildBodyPattern(body []byte, contentType string, spec *Spec) *stub.BodyPattern {
	if spec.forcedMatchType() == "equalTo" {
		return &stub.BodyPattern{
			Kind:    stub.MatchEqualTo,
			EqualTo: string(body),
		}
	}

	forceJSON := spec.forcedMatchType() == "equalToJson"
	if forceJSON || content.IsJSON(contentType) {
		if doc, err := oj.Parse(body); err == nil {
			ignoreArrayOrder, ignoreExtraElements := spec.jsonFlags()
			return &stub.BodyPattern{
				Kind:                stub.MatchEqualToJSON,
				EqualToJSON:         oj.JSON(doc),
				IgnoreArrayOrder:    ignoreArrayOrder,
				IgnoreExtraElements: ignoreExtraElements,
			}
		}
		// Declared or forced JSON that does not parse falls through to
		// the text/binary classification.
	}

	if content.IsText(contentType) {
		return &stub.BodyPattern{
			Kind:    stub.MatchEqualTo,
			EqualTo: string(body),
		}
	}

	return &stub.BodyPattern{
		Kind:          stub.MatchBinaryEqualTo,
		BinaryEqualTo: base64.StdEncoding.EncodeToString(body),
	}
}
