package layertiming

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	return New(append([]Option{WithDir(t.TempDir())}, opts...)...)
}

func TestRecordAccumulatesWhileEnabled(t *testing.T) {
	m := newTestManager(t)
	m.Enable()

	m.Record(10*time.Millisecond, 5*time.Millisecond, 16*time.Millisecond)
	m.Record(20*time.Millisecond, 15*time.Millisecond, 36*time.Millisecond)

	s := m.Summary()
	require.Equal(t, 2, s.NumLayers)
	require.Equal(t, 30.0, s.Attention.TotalMS)
	require.Equal(t, 20.0, s.FFN.TotalMS)
	require.Equal(t, 52.0, s.TotalLayer.TotalMS)
	require.Equal(t, 15.0, s.Attention.MeanMS)
	require.Equal(t, 10.0, s.FFN.MeanMS)
	require.Equal(t, 26.0, s.TotalLayer.MeanMS)
}

func TestRecordIsNoopWhileDisabled(t *testing.T) {
	m := newTestManager(t)

	m.Record(100*time.Millisecond, 50*time.Millisecond, 151*time.Millisecond)

	s := m.Summary()
	require.Equal(t, 0, s.NumLayers)
	require.Equal(t, 0.0, s.Attention.TotalMS)
	require.Equal(t, 0.0, s.FFN.TotalMS)
	require.Equal(t, 0.0, s.TotalLayer.TotalMS)
}

func TestRecordAfterDisableLeavesSummaryUnchanged(t *testing.T) {
	m := newTestManager(t)
	m.Enable()
	m.Record(10*time.Millisecond, 5*time.Millisecond, 16*time.Millisecond)

	m.Disable()
	m.Record(100*time.Millisecond, 50*time.Millisecond, 151*time.Millisecond)

	s := m.Summary()
	require.Equal(t, 1, s.NumLayers)
	require.Equal(t, 10.0, s.Attention.TotalMS)
}

func TestFreshSummaryIsAllZero(t *testing.T) {
	m := newTestManager(t)

	s := m.Summary()
	require.Equal(t, Summary{}, s)
}

func TestEnableDisableIdempotent(t *testing.T) {
	m := newTestManager(t)

	m.Enable()
	m.Enable()
	require.True(t, m.IsEnabled())

	m.Disable()
	m.Disable()
	require.False(t, m.IsEnabled())
}

func TestFlagIsSharedAcrossHandles(t *testing.T) {
	dir := t.TempDir()
	producer := New(WithDir(dir))
	operator := New(WithDir(dir))

	operator.Enable()
	require.True(t, producer.IsEnabled())

	producer.Record(time.Millisecond, time.Millisecond, 2*time.Millisecond)
	require.Equal(t, 1, operator.Summary().NumLayers)

	operator.Disable()
	require.False(t, producer.IsEnabled())
}

func TestResetRestoresInitialState(t *testing.T) {
	m := newTestManager(t)
	m.Enable()
	m.Record(10*time.Millisecond, 5*time.Millisecond, 16*time.Millisecond)

	m.Reset()

	require.False(t, m.IsEnabled())
	require.Equal(t, Summary{}, m.Summary())
}

func TestClearIsIdempotentAndKeepsFlag(t *testing.T) {
	m := newTestManager(t)
	m.Enable()
	m.Record(10*time.Millisecond, 5*time.Millisecond, 16*time.Millisecond)

	m.Clear()
	m.Clear()

	require.True(t, m.IsEnabled())
	require.Equal(t, Summary{}, m.Summary())
}

func TestRecordSwallowsCorruptCounter(t *testing.T) {
	dir := t.TempDir()
	m := New(WithDir(dir))
	m.Enable()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CounterFileName), []byte("garbage"), 0o644))

	// Must not panic or surface an error; corrupt data merges into zero.
	m.Record(10*time.Millisecond, 5*time.Millisecond, 16*time.Millisecond)

	s := m.Summary()
	require.Equal(t, 1, s.NumLayers)
	require.Equal(t, 10.0, s.Attention.TotalMS)
}

type captureRecorder struct {
	mu      sync.Mutex
	samples int
}

func (c *captureRecorder) ObserveLayerSample(_, _, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples++
}

func TestRecorderMirrorsMergedSamplesOnly(t *testing.T) {
	rec := &captureRecorder{}
	m := newTestManager(t, WithRecorder(rec))

	m.Record(time.Millisecond, time.Millisecond, 2*time.Millisecond) // disabled, not mirrored
	m.Enable()
	m.Record(time.Millisecond, time.Millisecond, 2*time.Millisecond)

	require.Equal(t, 1, rec.samples)
}

func TestSnapshotMatchesCounter(t *testing.T) {
	m := newTestManager(t)
	m.Enable()
	m.Record(10*time.Millisecond, 5*time.Millisecond, 16*time.Millisecond)

	snap := m.Snapshot()
	require.Equal(t, 10.0, snap.AttentionMS)
	require.Equal(t, 5.0, snap.FFNMS)
	require.Equal(t, 16.0, snap.TotalLayerMS)
	require.Equal(t, 1, snap.Count)
}
