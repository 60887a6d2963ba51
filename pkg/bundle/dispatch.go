package bundle

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// dispatch runs exactly one processor invocation per task with at most
// cfg.Jobs concurrently active, blocking until every worker has finished.
// Workers share no in-memory state: tasks arrive on a channel, fragments land
// in the workspace under names only their producer uses, and one completion
// event per fragment goes out on events (buffered to len(tasks), so sends
// never block).
//
// A worker's failure never aborts its siblings; failed tasks are collected
// and returned for the caller's warning summary. Cancelling ctx stops
// workers from picking up further tasks but lets in-flight copies finish.
func dispatch(ctx context.Context, cfg Config, tasks []FileTask, ws *Workspace, events chan<- struct{}, logger *zap.Logger) []fileFailure {
	jobs := make(chan FileTask, len(tasks))
	failed := make(chan fileFailure, len(tasks))
	var wg sync.WaitGroup

	workers := cfg.Jobs
	if workers > len(tasks) {
		workers = len(tasks)
	}

	logger.Debug("Initializing worker pool", zap.Int("workers", workers), zap.Int("tasks", len(tasks)))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		workerLogger := logger.With(zap.Int("workerID", w))
		go worker(ctx, jobs, failed, events, cfg.WorkingDir, ws, &wg, workerLogger)
	}

	for _, task := range tasks {
		jobs <- task
	}
	close(jobs)

	// The wait barrier: the only authoritative completion signal.
	wg.Wait()
	close(failed)

	var failures []fileFailure
	for f := range failed {
		failures = append(failures, f)
	}
	return failures
}

// worker drains the jobs channel, producing one fragment per task.
func worker(ctx context.Context, jobs <-chan FileTask, failed chan<- fileFailure, events chan<- struct{}, workingDir string, ws *Workspace, wg *sync.WaitGroup, logger *zap.Logger) {
	defer wg.Done()

	for task := range jobs {
		if ctx.Err() != nil {
			logger.Debug("Worker stopping on cancellation")
			return
		}

		if err := processTask(task, workingDir, ws); err != nil {
			logger.Warn("Worker failed to process file",
				zap.String("filePath", task.Path),
				zap.Error(err))
			failed <- fileFailure{Path: task.Path, Err: err}
			continue
		}

		events <- struct{}{}
		logger.Debug("Worker produced fragment", zap.String("filePath", task.Path))
	}
}
