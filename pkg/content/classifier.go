// Package content classifies MIME types as textual or binary.
//
// The recorder stores textual bodies as strings so generated stubs stay
// human-readable and diff-friendly, and everything else as raw bytes for
// byte-exact replay. Request-side and response-side classification must go
// through the same functions here; an exchange recorded from one transaction
// is always classified consistently on both sides.
package content

import "strings"

// textualMimeTypes is the allow-set of exact non-text/* MIME types treated
// as textual. Anything not covered here, by a text/* top level, or by a
// +json / +xml structured suffix is binary, as is an absent type.
var textualMimeTypes = map[string]bool{
	"application/json":                  true,
	"application/xml":                   true,
	"application/xhtml+xml":             true,
	"application/javascript":            true,
	"application/ecmascript":            true,
	"application/x-www-form-urlencoded": true,
	"multipart/form-data":               true,
}

// IsText reports whether the given MIME type holds textual content.
// The input may be a full Content-Type header value; parameters after a
// semicolon are ignored. An empty or unparseable type is binary.
func IsText(mimeType string) bool {
	mt := MimeTypePart(mimeType)
	if mt == "" {
		return false
	}

	if strings.HasPrefix(mt, "text/") {
		return true
	}
	if textualMimeTypes[mt] {
		return true
	}
	// Structured syntax suffixes: application/hal+json, image/svg+xml, ...
	if strings.HasSuffix(mt, "+json") || strings.HasSuffix(mt, "+xml") {
		return true
	}
	return false
}

// IsJSON reports whether the given MIME type carries a JSON payload.
func IsJSON(mimeType string) bool {
	mt := MimeTypePart(mimeType)
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// MimeTypePart extracts the lowercased type/subtype from a Content-Type
// header value, dropping any parameters (charset, boundary).
func MimeTypePart(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
