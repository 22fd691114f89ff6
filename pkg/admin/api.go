// Package admin exposes the recording control API over HTTP.
package admin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/snapstub/snapstub/pkg/logging"
	"github.com/snapstub/snapstub/pkg/record"
	"github.com/snapstub/snapstub/pkg/stub"
	"github.com/snapstub/snapstub/pkg/traffic"
)

// API serves the admin endpoints: recording lifecycle, stub mapping
// inspection, and traffic log inspection.
type API struct {
	recorder  *record.Recorder
	stubs     *stub.Store
	log       *traffic.Log
	logger    *slog.Logger
	mux       *http.ServeMux
	startTime time.Time
}

// Options configures the admin API.
type Options struct {
	Recorder *record.Recorder
	Stubs    *stub.Store
	Traffic  *traffic.Log
	Logger   *slog.Logger
}

// New creates the admin API with its routes registered.
func New(opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	a := &API{
		recorder:  opts.Recorder,
		stubs:     opts.Stubs,
		log:       opts.Traffic,
		logger:    logger,
		mux:       http.NewServeMux(),
		startTime: time.Now(),
	}
	a.registerRoutes()
	return a
}

// registerRoutes sets up all API routes.
func (a *API) registerRoutes() {
	a.mux.HandleFunc("GET /__admin/health", a.handleHealth)

	a.mux.HandleFunc("POST /__admin/recordings/start", a.handleStartRecording)
	a.mux.HandleFunc("POST /__admin/recordings/stop", a.handleStopRecording)
	a.mux.HandleFunc("GET /__admin/recordings/status", a.handleRecordingStatus)

	a.mux.HandleFunc("GET /__admin/mappings", a.handleListMappings)
	a.mux.HandleFunc("GET /__admin/mappings/{id}", a.handleGetMapping)
	a.mux.HandleFunc("DELETE /__admin/mappings/{id}", a.handleDeleteMapping)
	a.mux.HandleFunc("DELETE /__admin/mappings", a.handleDeleteMappings)

	a.mux.HandleFunc("GET /__admin/requests", a.handleListRequests)
	a.mux.HandleFunc("DELETE /__admin/requests", a.handleClearRequests)
}

// ServeHTTP implements http.Handler.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Uptime returns seconds since the API was created.
func (a *API) Uptime() int {
	return int(time.Since(a.startTime).Seconds())
}
