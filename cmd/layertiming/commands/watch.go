package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchCmd re-renders the summary whenever the shared counter file changes.
type WatchCmd struct {
	Debounce time.Duration `help:"Delay between change detection and re-render" default:"250ms"`
}

func (w *WatchCmd) Run(g *Global) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	counterPath := g.Manager.CounterPath()
	// Watch the directory, not the file: the counter may not exist yet and
	// recorders recreate it after a clear.
	if err := watcher.Add(filepath.Dir(counterPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(counterPath), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Watching shared counter", "path", counterPath)
	g.Manager.PrintSummary()

	counterFile := filepath.Base(counterPath)
	var render *time.Timer
	defer func() {
		if render != nil {
			render.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != counterFile {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}
			slog.Debug("Counter change detected", "op", event.Op.String())
			// Debounce rapid merge bursts into one render.
			if render != nil {
				render.Stop()
			}
			render = time.AfterFunc(w.Debounce, g.Manager.PrintSummary)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watcher error", "error", err)
		}
	}
}
