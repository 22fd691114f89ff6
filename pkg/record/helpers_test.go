package record

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snapstub/snapstub/pkg/traffic"
)

// makeExchange builds a captured exchange for rawURL (absolute, as a
// forward proxy sees it).
func makeExchange(t *testing.T, method, rawURL string, reqHeaders http.Header, reqBody []byte,
	status int, respHeaders http.Header, respBody []byte) *traffic.Exchange {
	t.Helper()

	u, err := url.Parse(rawURL)
	require.NoError(t, err)

	if reqHeaders == nil {
		reqHeaders = http.Header{}
	}
	if respHeaders == nil {
		respHeaders = http.Header{}
	}

	e := traffic.NewExchange()
	e.Request = traffic.CapturedRequest{
		Method:  method,
		URL:     rawURL,
		Path:    u.Path,
		Query:   u.RawQuery,
		Host:    u.Host,
		Scheme:  u.Scheme,
		Headers: reqHeaders,
		Body:    reqBody,
	}
	e.Response = traffic.CapturedResponse{
		StatusCode: status,
		Status:     http.StatusText(status),
		Headers:    respHeaders,
		Body:       respBody,
	}
	return e
}

// gzipped compresses a payload the way a transport would.
func gzipped(t *testing.T, payload []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func headers(pairs ...string) http.Header {
	h := http.Header{}
	for i := 0; i+1 < len(pairs); i += 2 {
		h.Set(pairs[i], pairs[i+1])
	}
	return h
}
