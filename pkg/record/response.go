package record

import (
	"encoding/base64"
	"net/http"

	"github.com/snapstub/snapstub/pkg/content"
	"github.com/snapstub/snapstub/pkg/stub"
	"github.com/snapstub/snapstub/pkg/traffic"
)

// skipResponseHeaders are transport artifacts of how the original response
// was delivered. The replay layer recomputes Content-Length and performs no
// encoding transform, so stale values would corrupt replayed responses.
var skipResponseHeaders = map[string]bool{
	"Content-Encoding": true,
	"Content-Length":   true,
}

// synthesizeResponse turns a captured response into a replayable response
// definition. The status is copied verbatim; the body is stored as decoded
// text when the declared content type is textual and as raw bytes
// otherwise; an empty body is omitted entirely.
func synthesizeResponse(e *traffic.Exchange) stub.ResponseDefinition {
	def := stub.ResponseDefinition{
		Status: e.Response.StatusCode,
	}

	body := decodeBody(e.Response.Headers, e.Response.Body)
	if len(body) > 0 {
		if content.IsText(e.Response.Headers.Get("Content-Type")) {
			def.Body = string(body)
		} else {
			def.BodyBase64 = base64.StdEncoding.EncodeToString(body)
		}
	}

	if len(e.Response.Headers) > 0 {
		def.Headers = copyResponseHeaders(e.Response.Headers)
	}

	return def
}

// copyResponseHeaders copies captured headers except the unconditionally
// stripped transport headers. Returns nil when nothing survives.
func copyResponseHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for key, values := range headers {
		if skipResponseHeaders[http.CanonicalHeaderKey(key)] {
			continue
		}
		if len(values) > 0 {
			out[key] = values[0]
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
