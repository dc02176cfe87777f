// Package layertiming accumulates attention and feed-forward latency across
// transformer layer forward passes, shared between independent processes
// through file-based IPC in the host's temporary directory.
//
// Producer processes call Record once per layer forward pass; a consumer
// process reads the aggregate with Summary or PrintSummary. An empty flag
// file gates recording so that instrumentation can be toggled for a whole
// host without restarting anything.
//
// Recording must never perturb the workload it measures, so every failure on
// the recording path is absorbed: the call degrades to a no-op and the
// summary degrades to zeros. The cross-process read-modify-write on the
// shared counter is deliberately unsynchronized; concurrent recorders can
// lose updates under contention.
package layertiming

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/layertiming/internal/state"
	"git.home.luguber.info/inful/layertiming/metrics"
)

// Well-known names shared by every cooperating process on the host.
const (
	CounterFileName = "layer_timing.json"
	FlagFileName    = "layer_timing_enabled"
)

// Manager is an explicit handle to the shared counter and enablement flag.
// Construct one per component that needs access and pass it by reference;
// there is no package-level singleton. The zero value is not usable.
type Manager struct {
	counter  *state.CounterStore
	flag     *state.FlagStore
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	dir      string
	recorder metrics.Recorder
	logger   *slog.Logger
}

// WithDir places both artifacts in dir instead of the system temp directory.
// All cooperating processes must agree on the directory.
func WithDir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// WithRecorder mirrors every merged sample into an in-process recorder, for
// hosts that export latency distributions alongside the shared counter.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithLogger overrides the logger used for debug-level reports of swallowed
// failures. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates a Manager. Without options the artifacts live under the system
// temp directory with fixed names, so unrelated processes rendezvous without
// any configuration.
func New(opts ...Option) *Manager {
	o := options{
		dir:      os.TempDir(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Manager{
		counter:  state.NewCounterStore(filepath.Join(o.dir, CounterFileName)),
		flag:     state.NewFlagStore(filepath.Join(o.dir, FlagFileName)),
		recorder: o.recorder,
		logger:   o.logger,
	}
}

// CounterPath returns the path of the shared counter file.
func (m *Manager) CounterPath() string {
	return m.counter.Path()
}

// FlagPath returns the path of the enablement flag file.
func (m *Manager) FlagPath() string {
	return m.flag.Path()
}

// Enable turns recording on for every process on the host. Idempotent.
// Failures are absorbed.
func (m *Manager) Enable() {
	if err := m.flag.Set(); err != nil {
		m.logger.Debug("Failed to set enablement flag", "path", m.flag.Path(), "error", err)
	}
}

// Disable turns recording off for every process on the host. Idempotent.
// Failures are absorbed.
func (m *Manager) Disable() {
	if err := m.flag.Unset(); err != nil {
		m.logger.Debug("Failed to unset enablement flag", "path", m.flag.Path(), "error", err)
	}
}

// IsEnabled reports whether recording is currently enabled. The flag file is
// probed on every call; there is no caching window.
func (m *Manager) IsEnabled() bool {
	return m.flag.Present()
}

// Record merges one layer forward pass into the shared counter. It is a no-op
// while recording is disabled. Load and store failures are absorbed: a record
// that cannot be read merges into zero, a record that cannot be written is
// dropped. Callers supply durations they measured themselves.
func (m *Manager) Record(attention, ffn, totalLayer time.Duration) {
	if !m.flag.Present() {
		return
	}

	sample := state.Sample{
		AttentionMS:  durationMS(attention),
		FFNMS:        durationMS(ffn),
		TotalLayerMS: durationMS(totalLayer),
	}
	if err := m.counter.Merge(sample); err != nil {
		m.logger.Debug("Dropped layer timing sample", "path", m.counter.Path(), "error", err)
		return
	}
	m.recorder.ObserveLayerSample(attention, ffn, totalLayer)
}

// Clear removes the shared counter. Idempotent. Failures are absorbed.
func (m *Manager) Clear() {
	if err := m.counter.Clear(); err != nil {
		m.logger.Debug("Failed to clear counter", "path", m.counter.Path(), "error", err)
	}
}

// Reset clears the counter and disables recording, restoring the initial
// pre-enablement state.
func (m *Manager) Reset() {
	m.Clear()
	m.Disable()
}

// Snapshot implements metrics.Source. An unreadable counter snapshots as zero.
func (m *Manager) Snapshot() metrics.Snapshot {
	rec := m.load()
	return metrics.Snapshot{
		AttentionMS:  rec.AttentionMS,
		FFNMS:        rec.FFNMS,
		TotalLayerMS: rec.TotalLayerMS,
		Count:        rec.Count,
	}
}

// load reads the counter, making the default-to-zero policy an explicit
// branch: an unreadable record is reported at debug level and read as zero.
func (m *Manager) load() state.Record {
	rec, err := m.counter.Load()
	if err != nil {
		m.logger.Debug("Reading counter as zero", "path", m.counter.Path(), "error", err)
		return state.Record{}
	}
	return rec
}

func durationMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
