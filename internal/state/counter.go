package state

import (
	"encoding/json"
	"fmt"
	"os"
)

// Record is the persisted counter shared by all cooperating processes. The
// field names are the on-disk wire format and must not change: every producer
// and consumer on the host parses the same file.
type Record struct {
	AttentionMS  float64 `json:"attention_ms"`
	FFNMS        float64 `json:"ffn_ms"`
	TotalLayerMS float64 `json:"total_layer_ms"`
	Count        int     `json:"count"`
}

// Sample is one layer forward pass worth of measurements, in milliseconds.
type Sample struct {
	AttentionMS  float64
	FFNMS        float64
	TotalLayerMS float64
}

// CounterStore persists a Record at a fixed path. An absent or unparseable
// file always reads as the zero record; callers decide whether the error
// matters. Writes are plain overwrites: concurrent Merge calls from different
// processes can lose updates (last writer wins on the whole record). That race
// is an accepted trade-off for negligible-contention instrumentation, not a
// bug to fix here.
type CounterStore struct {
	path string
}

// NewCounterStore creates a store backed by the given file path.
func NewCounterStore(path string) *CounterStore {
	return &CounterStore{path: path}
}

// Path returns the backing file path.
func (s *CounterStore) Path() string {
	return s.path
}

// Load reads the current record. The returned record is always usable: absence
// yields the zero record with a nil error, any other failure yields the zero
// record alongside the error.
func (s *CounterStore) Load() (Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, nil
		}
		return Record{}, fmt.Errorf("read counter file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode counter file: %w", err)
	}
	return rec, nil
}

// Merge adds one sample to the persisted record and increments the sample
// count. A record that fails to load is treated as zero so that a corrupt file
// heals on the next successful write.
func (s *CounterStore) Merge(sample Sample) error {
	rec, err := s.Load()
	if err != nil {
		rec = Record{}
	}

	rec.AttentionMS += sample.AttentionMS
	rec.FFNMS += sample.FFNMS
	rec.TotalLayerMS += sample.TotalLayerMS
	rec.Count++

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode counter record: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write counter file: %w", err)
	}
	return nil
}

// Clear removes the persisted record. Clearing an absent record is a no-op.
func (s *CounterStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove counter file: %w", err)
	}
	return nil
}
