package proxy

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/snapstub/snapstub/pkg/traffic"
)

// DefaultMaxBodySize is the maximum body size to capture (10MB). Larger
// bodies are truncated in the capture but still proxied in full up to this
// limit per read.
const DefaultMaxBodySize = 10 * 1024 * 1024

// handleHTTP forwards a request upstream and captures the exchange.
func (p *Proxy) handleHTTP(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	var reqBody []byte
	if r.Body != nil {
		var err error
		reqBody, err = io.ReadAll(io.LimitReader(r.Body, DefaultMaxBodySize))
		if err != nil {
			p.logger.Error("reading request body", "error", err)
			http.Error(w, "Error reading request", http.StatusBadGateway)
			return
		}
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(reqBody))
	}

	resp, err := p.forwardRequest(r)
	if err != nil {
		p.logger.Error("forwarding request", "method", r.Method, "url", r.URL.String(), "error", err)
		http.Error(w, "Error forwarding request: "+err.Error(), http.StatusBadGateway)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, DefaultMaxBodySize))
	if err != nil {
		p.logger.Error("reading response body", "error", err)
		http.Error(w, "Error reading response", http.StatusBadGateway)
		return
	}

	duration := time.Since(startTime)

	p.mu.RLock()
	filter := p.filter
	p.mu.RUnlock()

	host := r.URL.Host
	if host == "" {
		host = r.Host
	}
	if filter.ShouldCapture(host, r.URL.Path) {
		exchange := traffic.NewExchange()
		exchange.CaptureRequest(r, reqBody)
		exchange.CaptureResponse(resp, respBody, duration)
		pos := p.log.Append(exchange)

		p.logger.Debug("captured exchange",
			"method", r.Method,
			"url", exchange.Request.URL,
			"status", resp.StatusCode,
			"position", pos,
			"duration", duration)
	}

	copyHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(respBody)
}

// forwardRequest forwards an HTTP request to the target server and returns
// the response.
func (p *Proxy) forwardRequest(r *http.Request) (*http.Response, error) {
	// Forward-proxy requests carry an absolute URL; fall back to the Host
	// header for clients that send an origin-form target.
	targetURL := r.URL.String()
	if r.URL.Host == "" {
		targetURL = "http://" + r.Host + r.URL.RequestURI()
	}

	outReq, err := http.NewRequestWithContext(r.Context(), r.Method, targetURL, r.Body)
	if err != nil {
		return nil, err
	}

	copyHeaders(outReq.Header, r.Header)
	removeHopByHopHeaders(outReq.Header)

	outReq.Header.Set("X-Forwarded-For", r.RemoteAddr)
	outReq.Header.Set("X-Forwarded-Host", r.Host)

	return p.client.Do(outReq)
}

// copyHeaders copies headers from src to dst.
func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		for _, value := range values {
			dst.Add(key, value)
		}
	}
}

// removeHopByHopHeaders removes headers that should not be forwarded.
func removeHopByHopHeaders(h http.Header) {
	hopByHopHeaders := []string{
		"Connection",
		"Keep-Alive",
		"Proxy-Authenticate",
		"Proxy-Authorization",
		"Proxy-Connection",
		"TE",
		"Trailers",
		"Transfer-Encoding",
		"Upgrade",
	}

	for _, header := range hopByHopHeaders {
		h.Del(header)
	}
}
