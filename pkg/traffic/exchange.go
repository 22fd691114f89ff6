// Package traffic captures proxied request/response pairs into an
// append-only, position-addressable log.
//
// Exchanges are produced by the proxy transport and consumed read-only by
// the recorder, which bounds a recording session by log position. This is a
// leaf package with no internal dependencies.
package traffic

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Exchange is an immutable record of one proxied transaction. It is never
// mutated after being appended to the log.
type Exchange struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	Request  CapturedRequest  `json:"request"`
	Response CapturedResponse `json:"response"`

	Duration time.Duration `json:"duration"`
}

// CapturedRequest holds the request half of an exchange. Body bytes are the
// wire bytes as proxied; transport compression is undone by the recorder,
// not here.
type CapturedRequest struct {
	Method  string      `json:"method"`
	URL     string      `json:"url"`
	Path    string      `json:"path"`
	Query   string      `json:"query,omitempty"`
	Host    string      `json:"host"`
	Scheme  string      `json:"scheme"`
	Headers http.Header `json:"headers"`
	Body    []byte      `json:"body,omitempty"`
}

// CapturedResponse holds the response half of an exchange.
type CapturedResponse struct {
	StatusCode int         `json:"statusCode"`
	Status     string      `json:"statusText"`
	Headers    http.Header `json:"headers"`
	Body       []byte      `json:"body,omitempty"`
}

// NewExchange creates an exchange with a fresh ID and timestamp.
func NewExchange() *Exchange {
	return &Exchange{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
	}
}

// CaptureRequest fills the request half from an incoming HTTP request and
// its buffered body.
func (e *Exchange) CaptureRequest(req *http.Request, body []byte) {
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	host := req.URL.Host
	if host == "" {
		host = req.Host
	}

	e.Request = CapturedRequest{
		Method:  req.Method,
		URL:     req.URL.String(),
		Path:    req.URL.Path,
		Query:   req.URL.RawQuery,
		Host:    host,
		Scheme:  scheme,
		Headers: req.Header.Clone(),
		Body:    body,
	}
}

// CaptureResponse fills the response half from an upstream response and its
// buffered body.
func (e *Exchange) CaptureResponse(resp *http.Response, body []byte, duration time.Duration) {
	e.Response = CapturedResponse{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    resp.Header.Clone(),
		Body:       body,
	}
	e.Duration = duration
}

// RequestURI returns the request path plus query string, the form a stub
// URL pattern matches against.
func (e *Exchange) RequestURI() string {
	if e.Request.Query != "" {
		return e.Request.Path + "?" + e.Request.Query
	}
	return e.Request.Path
}

// Origin returns the scheme://host the request was proxied to.
func (e *Exchange) Origin() string {
	return e.Request.Scheme + "://" + e.Request.Host
}
