package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapstub/snapstub/pkg/traffic"
)

// proxiedClient returns a client that sends requests through the proxy.
func proxiedClient(t *testing.T, p *Proxy) (*http.Client, func()) {
	t.Helper()

	proxyServer := httptest.NewServer(p)
	proxyURL, err := url.Parse(proxyServer.URL)
	require.NoError(t, err)

	client := &http.Client{
		Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
	}
	return client, proxyServer.Close
}

func TestProxyForwardsAndCaptures(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Got it"))
	}))
	defer target.Close()

	log := traffic.NewLog()
	p := New(Options{Log: log})
	client, closeProxy := proxiedClient(t, p)
	defer closeProxy()

	resp, err := client.Get(target.URL + "/record-this")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Got it", string(body))

	exchanges := log.All()
	require.Len(t, exchanges, 1)
	e := exchanges[0]
	assert.Equal(t, http.MethodGet, e.Request.Method)
	assert.Equal(t, "/record-this", e.Request.Path)
	assert.Equal(t, http.StatusOK, e.Response.StatusCode)
	assert.Equal(t, "Got it", string(e.Response.Body))
	assert.Equal(t, "text/plain", e.Response.Headers.Get("Content-Type"))
}

func TestProxyCapturesRequestBody(t *testing.T) {
	var received string
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		received = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer target.Close()

	log := traffic.NewLog()
	p := New(Options{Log: log})
	client, closeProxy := proxiedClient(t, p)
	defer closeProxy()

	resp, err := client.Post(target.URL+"/users", "application/json", strings.NewReader(`{"name":"alice"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()

	// The body was forwarded upstream and captured.
	assert.Equal(t, `{"name":"alice"}`, received)
	exchanges := log.All()
	require.Len(t, exchanges, 1)
	assert.Equal(t, `{"name":"alice"}`, string(exchanges[0].Request.Body))
}

func TestProxyFilterSkipsCaptureButStillForwards(t *testing.T) {
	hits := 0
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	log := traffic.NewLog()
	p := New(Options{
		Log:    log,
		Filter: &FilterConfig{ExcludePaths: []string{"/health"}},
	})
	client, closeProxy := proxiedClient(t, p)
	defer closeProxy()

	resp, err := client.Get(target.URL + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()

	// Forwarded live, not captured.
	assert.Equal(t, 1, hits)
	assert.EqualValues(t, 0, log.Len())
}

func TestProxyUpstreamFailure(t *testing.T) {
	log := traffic.NewLog()
	p := New(Options{Log: log})
	client, closeProxy := proxiedClient(t, p)
	defer closeProxy()

	// Unroutable target: the proxy answers 502 itself.
	resp, err := client.Get("http://127.0.0.1:1/nope")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.EqualValues(t, 0, log.Len())
}
