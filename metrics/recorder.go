package metrics

import "time"

// Recorder receives every layer sample that is merged into the shared counter.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe for nil receivers when using the NoopRecorder (allowing
// optional injection).
type Recorder interface {
	ObserveLayerSample(attention, ffn, totalLayer time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when no in-process
// export is configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveLayerSample(time.Duration, time.Duration, time.Duration) {}
