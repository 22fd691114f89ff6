package record

import (
	"log/slog"
	"sync"

	"github.com/snapstub/snapstub/pkg/logging"
	"github.com/snapstub/snapstub/pkg/stub"
	"github.com/snapstub/snapstub/pkg/traffic"
)

// Recorder is the per-server recording session state machine:
// NeverStarted -> Recording -> Stopped -> Recording -> ...
//
// One Recorder exists per server instance and at most one session is live
// at a time. Start and Stop are mutually exclusive under the recorder's
// lock; Status only takes the lock briefly. Recording observes proxied
// traffic through the shared log; it never gates it.
type Recorder struct {
	mu       sync.Mutex
	log      *traffic.Log
	logger   *slog.Logger
	status   Status
	spec     *Spec
	boundary uint64
}

// NewRecorder creates a recorder reading from the given traffic log.
// A nil logger disables operational logging.
func NewRecorder(log *traffic.Log, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Recorder{
		log:    log,
		logger: logger,
		status: StatusNeverStarted,
	}
}

// Start begins a recording session bounded at the traffic log's current
// length. It fails with ErrInvalidSpec on a bad spec and with
// ErrAlreadyRecording when a session is in progress; neither failure
// changes state.
func (r *Recorder) Start(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status == StatusRecording {
		return ErrAlreadyRecording
	}

	r.boundary = r.log.Len()
	r.spec = &spec
	r.status = StatusRecording

	r.logger.Info("recording started",
		"target", spec.TargetBaseURL,
		"boundary", r.boundary)
	return nil
}

// Stop ends the session and returns the stub mappings generated from the
// exchanges captured since Start, in capture order. Zero qualifying
// exchanges yield an empty result, not an error. Fails with
// ErrNotRecording when no session is in progress.
func (r *Recorder) Stop() ([]*stub.Mapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusRecording {
		return nil, ErrNotRecording
	}

	spec := r.spec
	mappings := snapshotStubs(r.log, r.boundary, spec)

	r.status = StatusStopped
	r.spec = nil

	r.logger.Info("recording stopped", "stubs", len(mappings))
	return mappings, nil
}

// Status reports the current lifecycle state. It never fails.
func (r *Recorder) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Spec returns a copy of the active session's spec, or nil when not
// recording.
func (r *Recorder) Spec() *Spec {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spec == nil {
		return nil
	}
	cp := *r.spec
	return &cp
}

// snapshotStubs converts the session's qualifying exchanges into stub
// mappings.
func snapshotStubs(log *traffic.Log, boundary uint64, spec *Spec) []*stub.Mapping {
	exchanges := selectExchanges(log, boundary, spec)
	if len(exchanges) == 0 {
		return []*stub.Mapping{}
	}

	names := NewNameGenerator()
	mappings := make([]*stub.Mapping, 0, len(exchanges))
	for _, e := range exchanges {
		m := stub.NewMapping(names.Generate(e.Request.Path))
		m.Persist = spec.ShouldPersist()
		m.Request = buildRequestPattern(e, spec)
		m.Response = synthesizeResponse(e)
		mappings = append(mappings, m)
	}

	if spec.RepeatsAsScenarios {
		collapseIntoScenarios(mappings)
	}
	return mappings
}
