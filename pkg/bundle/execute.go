package bundle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/oklog/run"
	"go.uber.org/zap"
)

// Run executes one full bundling run, aborting on SIGINT/SIGTERM.
func Run(cfg Config, logger *zap.Logger) error {
	signalCtx, signalCancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer signalCancel()
	return execute(signalCtx, cfg, logger)
}

// execute is one full bundling run: resolve the configuration, prepare the
// output, discover tasks, dispatch the bounded worker pool alongside the
// progress monitor, then consolidate all fragments into the output.
//
// Three actors share one run group: the abort watcher, the monitor and the
// dispatcher. Whichever returns first interrupts the rest; consolidation
// strictly follows the dispatcher's wait barrier. Once abort is cancelled
// the workspace and any partial output are removed and ErrAborted is
// returned, regardless of which actor won the race to return first.
func execute(abort context.Context, cfg Config, logger *zap.Logger) error {
	start := time.Now()

	cfg, err := cfg.Resolve()
	if err != nil {
		return err
	}

	logger.Info("Starting bundling run",
		zap.String("directory", cfg.Directory),
		zap.Strings("extensions", cfg.Extensions),
		zap.String("output", cfg.Output),
		zap.Int("jobs", cfg.Jobs))

	// The output must be writable before any discovery work, and it must
	// exist so the walker can exclude it by resolved path.
	if err := prepareOutput(cfg.Output); err != nil {
		return err
	}

	tasks, err := Discover(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.Tree != "" {
		if err := writeTree(cfg, logger); err != nil {
			return err
		}
	}

	if len(tasks) == 0 {
		logger.Info("No files matched; wrote empty output", zap.String("output", cfg.Output))
		return nil
	}

	ws, err := NewWorkspace(logger)
	if err != nil {
		return err
	}

	events := make(chan struct{}, len(tasks))
	mon := newMonitor(len(tasks), events, logger)

	var failures []fileFailure
	var g run.Group

	// External abort.
	{
		stop := make(chan struct{})
		g.Add(
			func() error {
				select {
				case <-abort.Done():
					logger.Warn("Termination signal received")
					return ErrAborted
				case <-stop:
					return nil
				}
			},
			func(_ error) { close(stop) },
		)
	}

	// Progress monitor.
	{
		ctx, cancel := context.WithCancel(context.Background())
		g.Add(
			func() error { return mon.run(ctx) },
			func(_ error) { cancel() },
		)
	}

	// Dispatcher.
	{
		ctx, cancel := context.WithCancel(context.Background())
		g.Add(
			func() error {
				failures = dispatch(ctx, cfg, tasks, ws, events, logger)
				return nil
			},
			func(_ error) { cancel() },
		)
	}

	if err := g.Run(); err != nil || abort.Err() != nil {
		// Abort: discard in-flight fragments and the partial output.
		if removeErr := ws.Remove(); removeErr != nil {
			logger.Warn("Could not remove workspace during abort", zap.Error(removeErr))
		}
		if removeErr := os.Remove(cfg.Output); removeErr != nil && !os.IsNotExist(removeErr) {
			logger.Warn("Could not remove partial output during abort", zap.Error(removeErr))
		}
		return fmt.Errorf("%w: run interrupted", ErrAborted)
	}

	if len(failures) > 0 {
		summary := make([]string, 0, len(failures))
		for _, f := range failures {
			summary = append(summary, f.String())
		}
		logger.Warn("Some files could not be processed and were left out",
			zap.Int("failedFiles", len(failures)),
			zap.Strings("failures", summary))
	}

	if err := consolidate(ws, cfg.Output, logger); err != nil {
		return err
	}

	logger.Info("Bundling run completed",
		zap.String("output", cfg.Output),
		zap.Int("totalFiles", len(tasks)),
		zap.Int("failedFiles", len(failures)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// prepareOutput creates the output's parent directories and the (empty)
// output file itself. Failures here are setup errors: nothing has been
// discovered or dispatched yet.
func prepareOutput(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: cannot create output directory %q: %v", ErrSetup, dir, err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: cannot write output %q: %v", ErrSetup, path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: cannot write output %q: %v", ErrSetup, path, err)
	}
	return nil
}

// writeTree renders the pruned directory structure and writes it to the
// configured tree path.
func writeTree(cfg Config, logger *zap.Logger) error {
	content, err := renderTree(cfg, logger)
	if err != nil {
		return fmt.Errorf("%w: cannot render tree: %v", ErrSetup, err)
	}
	if dir := filepath.Dir(cfg.Tree); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: cannot create tree directory %q: %v", ErrSetup, dir, err)
		}
	}
	if err := os.WriteFile(cfg.Tree, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: cannot write tree %q: %v", ErrSetup, cfg.Tree, err)
	}
	logger.Debug("Wrote tree structure", zap.String("tree", cfg.Tree))
	return nil
}
