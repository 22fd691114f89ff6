package record

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"strings"
)

// maxDecodedBodySize caps decompression output (100MB) against
// pathological compression ratios in captured traffic.
const maxDecodedBodySize = 100 * 1024 * 1024

// decodeBody undoes transport compression so pattern construction and
// response synthesis always operate on logical content, never on
// wire-compressed bytes. Unknown encodings and undecodable payloads pass
// through unchanged; the capture is still usable as an opaque binary body.
func decodeBody(headers http.Header, body []byte) []byte {
	if len(body) == 0 {
		return body
	}

	switch strings.ToLower(strings.TrimSpace(headers.Get("Content-Encoding"))) {
	case "", "identity":
		return body
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return body
		}
		decoded, err := io.ReadAll(io.LimitReader(zr, maxDecodedBodySize))
		_ = zr.Close()
		if err != nil {
			return body
		}
		return decoded
	default:
		return body
	}
}
