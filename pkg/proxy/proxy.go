// Package proxy provides a forward HTTP proxy that captures proxied
// traffic into the shared traffic log.
package proxy

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/snapstub/snapstub/pkg/logging"
	"github.com/snapstub/snapstub/pkg/traffic"
)

// DefaultTimeout bounds a single proxied round trip.
const DefaultTimeout = 30 * time.Second

// Options configures proxy behavior.
type Options struct {
	// Log receives every captured exchange.
	Log *traffic.Log

	// Filter decides which traffic is captured (nil = capture all).
	Filter *FilterConfig

	// Logger for operational logging (nil = no logging).
	Logger *slog.Logger

	// Client performs upstream requests (nil = a default client with
	// DefaultTimeout and no redirect following).
	Client *http.Client
}

// Proxy is a forward HTTP proxy. Every proxied exchange that passes the
// capture filter is appended to the traffic log. Capture observes traffic
// without gating it: requests are forwarded live regardless of whether a
// recording session is running.
type Proxy struct {
	mu     sync.RWMutex
	log    *traffic.Log
	filter *FilterConfig
	logger *slog.Logger
	client *http.Client
}

// New creates a Proxy with the given options.
func New(opts Options) *Proxy {
	log := opts.Log
	if log == nil {
		log = traffic.NewLog()
	}
	filter := opts.Filter
	if filter == nil {
		filter = NewFilterConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				// Redirects are replayed to the client, not followed.
				return http.ErrUseLastResponse
			},
		}
	}

	return &Proxy{
		log:    log,
		filter: filter,
		logger: logger,
		client: client,
	}
}

// Log returns the traffic log.
func (p *Proxy) Log() *traffic.Log {
	return p.log
}

// Filter returns the current capture filter.
func (p *Proxy) Filter() *FilterConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.filter
}

// SetFilter replaces the capture filter.
func (p *Proxy) SetFilter(filter *FilterConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if filter == nil {
		filter = NewFilterConfig()
	}
	p.filter = filter
}

// ServeHTTP implements http.Handler for the proxy.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.handleHTTP(w, r)
}
