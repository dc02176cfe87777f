package commands

import (
	"fmt"
	"log/slog"
	"time"
)

// SummaryCmd prints the aggregated timing summary.
type SummaryCmd struct{}

func (s *SummaryCmd) Run(g *Global) error {
	g.Manager.PrintSummary()
	return nil
}

// RecordCmd merges one sample into the shared counter. Like any recorder, it
// is a no-op while timing is disabled.
type RecordCmd struct {
	Attention  float64 `help:"Attention duration in milliseconds" required:""`
	FFN        float64 `name:"ffn" help:"Feed-forward duration in milliseconds" required:""`
	TotalLayer float64 `help:"Whole-layer duration in milliseconds" required:""`
}

func (r *RecordCmd) Run(g *Global) error {
	if !g.Manager.IsEnabled() {
		slog.Warn("Timing is disabled; sample will be ignored")
	}
	g.Manager.Record(
		millis(r.Attention),
		millis(r.FFN),
		millis(r.TotalLayer),
	)
	return nil
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// ClearCmd removes the accumulated timing data.
type ClearCmd struct{}

func (c *ClearCmd) Run(g *Global) error {
	g.Manager.Clear()
	fmt.Println("layer timing data cleared")
	return nil
}

// ResetCmd restores the initial pre-enablement state.
type ResetCmd struct{}

func (r *ResetCmd) Run(g *Global) error {
	g.Manager.Reset()
	fmt.Println("layer timing reset")
	return nil
}
