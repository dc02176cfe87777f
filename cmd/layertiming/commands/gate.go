package commands

import (
	"fmt"
	"log/slog"
)

// EnableCmd turns timing collection on host-wide.
type EnableCmd struct{}

func (e *EnableCmd) Run(g *Global) error {
	g.Manager.Enable()
	slog.Debug("Enablement flag set", "path", g.Manager.FlagPath())
	fmt.Println("layer timing enabled")
	return nil
}

// DisableCmd turns timing collection off host-wide.
type DisableCmd struct{}

func (d *DisableCmd) Run(g *Global) error {
	g.Manager.Disable()
	slog.Debug("Enablement flag removed", "path", g.Manager.FlagPath())
	fmt.Println("layer timing disabled")
	return nil
}

// StatusCmd reports the gate state and how many samples have accumulated.
type StatusCmd struct{}

func (s *StatusCmd) Run(g *Global) error {
	state := "disabled"
	if g.Manager.IsEnabled() {
		state = "enabled"
	}
	summary := g.Manager.Summary()
	fmt.Printf("layer timing:  %s\n", state)
	fmt.Printf("counter file:  %s\n", g.Manager.CounterPath())
	fmt.Printf("samples:       %d\n", summary.NumLayers)
	return nil
}
