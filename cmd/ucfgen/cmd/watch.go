package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const watchDebounce = 200 * time.Millisecond

func newWatchCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "watch <netlist>",
		Short: "Regenerate constraints whenever the netlist changes",
		Long: `Generate the constraint file once, then again every time the netlist
or one of the semantics files is written. A failing run is logged and the
previous output is left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("watch: --output is required")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "constraint file to keep up to date")
	return cmd
}

func (a *app) watch(ctx context.Context, netlistPath, output string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := map[string]bool{}
	for _, p := range append([]string{netlistPath}, a.cfg.SemanticsPaths...) {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		watched[abs] = true
		// Editors replace files, so the directory is watched, not the file.
		dir := abs
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			dir = filepath.Dir(abs)
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch: %s: %w", dir, err)
		}
	}

	rebuild := func() {
		if err := a.generate(nil, netlistPath, output); err != nil {
			a.logger.Error("regenerate failed", "netlist", netlistPath, "err", err)
		}
	}
	rebuild()

	match := func(name string) bool {
		abs, err := filepath.Abs(name)
		if err != nil {
			return false
		}
		return watched[abs] || (watched[filepath.Dir(abs)] && isFamilyExt(abs))
	}
	a.logger.Info("watching", "netlist", netlistPath, "output", output)
	watchLoop(ctx, watcher.Events, watcher.Errors, match, rebuild, watchDebounce, a.logError)
	return nil
}

func (a *app) logError(err error) {
	a.logger.Warn("watcher error", "err", err)
}

func isFamilyExt(p string) bool {
	switch filepath.Ext(p) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// watchLoop calls rebuild once things have been quiet for debounce after a
// matching write. It returns when ctx is done or a channel closes.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error,
	match func(string) bool, rebuild func(), debounce time.Duration, onErr func(error)) {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !match(event.Name) {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
		case <-timer.C:
			rebuild()
		case err, ok := <-errs:
			if !ok {
				return
			}
			onErr(err)
		}
	}
}
