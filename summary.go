package layertiming

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Stat aggregates one tracked quantity, in milliseconds.
type Stat struct {
	TotalMS float64
	MeanMS  float64
	Count   int
}

// Summary is the aggregate view of the shared counter. All three stats share
// the same count: one sample per recorded layer forward pass.
type Summary struct {
	Attention  Stat
	FFN        Stat
	TotalLayer Stat
	NumLayers  int
}

// Summary reads the shared counter and derives totals and means. A missing or
// unreadable counter yields the all-zero summary; a zero sample count yields
// zero means rather than a division by zero.
func (m *Manager) Summary() Summary {
	rec := m.load()
	return Summary{
		Attention:  newStat(rec.AttentionMS, rec.Count),
		FFN:        newStat(rec.FFNMS, rec.Count),
		TotalLayer: newStat(rec.TotalLayerMS, rec.Count),
		NumLayers:  rec.Count,
	}
}

func newStat(totalMS float64, count int) Stat {
	s := Stat{TotalMS: totalMS, Count: count}
	if count > 0 {
		s.MeanMS = totalMS / float64(count)
	}
	return s
}

// WriteSummary renders the formatted timing report to w. The percentage block
// is only rendered when the total-layer time is strictly positive, and the
// attention/FFN ratio line only when the FFN total is strictly positive;
// otherwise those lines are simply absent.
func (m *Manager) WriteSummary(w io.Writer) {
	s := m.Summary()
	bar := strings.Repeat("=", 70)

	fmt.Fprintf(w, "\n%s\n", bar)
	fmt.Fprintln(w, "LAYER TIMING SUMMARY")
	fmt.Fprintln(w, bar)
	fmt.Fprintf(w, "Total layer forward calls: %d\n", s.NumLayers)
	fmt.Fprintln(w, strings.Repeat("-", 70))

	if s.TotalLayer.TotalMS > 0 {
		attnPct := s.Attention.TotalMS / s.TotalLayer.TotalMS * 100
		ffnPct := s.FFN.TotalMS / s.TotalLayer.TotalMS * 100

		fmt.Fprintf(w, "\nAttention: %.2f ms (%.1f%%)\n", s.Attention.TotalMS, attnPct)
		fmt.Fprintf(w, "FFN:       %.2f ms (%.1f%%)\n", s.FFN.TotalMS, ffnPct)
		fmt.Fprintf(w, "Total:     %.2f ms\n", s.TotalLayer.TotalMS)

		if s.FFN.TotalMS > 0 {
			fmt.Fprintf(w, "\nAttention/FFN ratio: %.2fx\n", s.Attention.TotalMS/s.FFN.TotalMS)
		}
	}

	fmt.Fprintf(w, "%s\n\n", bar)
}

// PrintSummary writes the formatted timing report to standard output.
func (m *Manager) PrintSummary() {
	m.WriteSummary(os.Stdout)
}
