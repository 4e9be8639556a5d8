package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// Worker processes files for a specific pipeline
type Worker struct {
	pipeline Pipeline
	config   PipelineConfig
	sink     Sink
	saves    *semaphore.Weighted
	sleep    func(ctx context.Context, d time.Duration) error
	mu       sync.Mutex
}

// NewWorker creates a new pipeline worker
func NewWorker(pipeline Pipeline, config PipelineConfig, sink Sink) *Worker {
	if config.WorkerCount < 1 {
		config.WorkerCount = 1
	}
	if config.BatchSize < 1 {
		config.BatchSize = 1000
	}
	if config.MaxSaves < 1 {
		config.MaxSaves = 1
	}
	if config.RetryAttempts < 1 {
		config.RetryAttempts = 1
	}

	return &Worker{
		pipeline: pipeline,
		config:   config,
		sink:     sink,
		saves:    semaphore.NewWeighted(config.MaxSaves),
		sleep:    sleepContext,
	}
}

// ProcessFiles runs every file through the pipeline and the sink. A file that still
// fails after its retries is recorded on the run; the run then ends as failed and
// the first such error is returned alongside it.
func (w *Worker) ProcessFiles(ctx context.Context, files []string) (*PipelineRun, error) {
	run := &PipelineRun{
		PipelineName: w.pipeline.Name(),
		Status:       StatusProcessing,
		TotalFiles:   len(files),
		Jobs:         make([]*FileJob, len(files)),
		StartedAt:    time.Now(),
	}
	for i, file := range files {
		run.Jobs[i] = &FileJob{FilePath: file, Status: FileStatusQueued}
	}

	log.Info().Str("pipeline", run.PipelineName).Int("files", len(files)).Msg("pipeline: starting run")

	err := w.processFilesParallel(ctx, run)

	now := time.Now()
	run.CompletedAt = &now
	run.Status = StatusCompleted
	if err != nil {
		run.Status = StatusFailed
	}

	log.Info().
		Str("pipeline", run.PipelineName).
		Str("status", string(run.Status)).
		Int("processed_files", run.ProcessedFiles).
		Int("rows", run.TotalRows).
		Int("saved", run.SavedRows).
		Dur("duration", now.Sub(run.StartedAt)).
		Msg("pipeline: run finished")

	return run, err
}

// processFilesParallel processes files using a worker pool
func (w *Worker) processFilesParallel(ctx context.Context, run *PipelineRun) error {
	jobChan := make(chan *FileJob, len(run.Jobs))
	errChan := make(chan error, 1)
	var wg sync.WaitGroup

	for i := 0; i < w.config.WorkerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobChan {
				if err := w.processWithRetry(ctx, run, job); err != nil {
					log.Error().Err(err).Int("worker", workerID).Str("file", job.FilePath).Msg("pipeline: file failed")
					select {
					case errChan <- err:
					default:
					}
				}
			}
		}(i)
	}

	var enqueueErr error
	for _, job := range run.Jobs {
		if err := ctx.Err(); err != nil {
			enqueueErr = err
			break
		}
		jobChan <- job
	}
	close(jobChan)

	wg.Wait()
	close(errChan)

	if enqueueErr != nil {
		return enqueueErr
	}
	return <-errChan
}

func (w *Worker) processWithRetry(ctx context.Context, run *PipelineRun, job *FileJob) error {
	var err error
	for attempt := 1; attempt <= w.config.RetryAttempts; attempt++ {
		if attempt > 1 {
			log.Warn().Err(err).Str("file", job.FilePath).Int("attempt", attempt).Msg("pipeline: retrying file")
			if sleepErr := w.sleep(ctx, w.config.RetryBackoff); sleepErr != nil {
				return w.markJobFailed(job, sleepErr)
			}
		}

		err = w.processFile(ctx, run, job)
		if err == nil || !retryable(err) {
			break
		}
		w.setRetryCount(job, attempt)
	}
	if err != nil {
		return w.markJobFailed(job, err)
	}
	return nil
}

// processFile processes a single file
func (w *Worker) processFile(ctx context.Context, run *PipelineRun, job *FileJob) error {
	startTime := time.Now()

	w.mu.Lock()
	job.Status = FileStatusProcessing
	w.mu.Unlock()

	if err := w.pipeline.Validate(job.FilePath); err != nil {
		return permanent(fmt.Errorf("validation failed: %w", err))
	}

	records, err := w.pipeline.Transform(ctx, job.FilePath)
	if err != nil {
		return permanent(fmt.Errorf("transformation failed: %w", err))
	}

	saved := 0
	for start := 0; start < len(records); start += w.config.BatchSize {
		end := start + w.config.BatchSize
		if end > len(records) {
			end = len(records)
		}

		if err := w.saves.Acquire(ctx, 1); err != nil {
			return err
		}
		n, err := w.sink.SaveForecasts(ctx, records[start:end])
		w.saves.Release(1)
		if err != nil {
			return fmt.Errorf("save failed at row %d: %w", start, err)
		}
		saved += n
	}

	now := time.Now()
	w.mu.Lock()
	job.Status = FileStatusCompleted
	job.Rows = len(records)
	job.Saved = saved
	job.ErrorMessage = ""
	job.ProcessedAt = &now
	run.ProcessedFiles++
	run.TotalRows += len(records)
	run.SavedRows += saved
	w.mu.Unlock()

	log.Info().
		Str("pipeline", w.pipeline.Name()).
		Str("file", job.FilePath).
		Int("rows", len(records)).
		Int("saved", saved).
		Dur("duration", time.Since(startTime)).
		Msg("pipeline: file completed")

	return nil
}

func (w *Worker) setRetryCount(job *FileJob, n int) {
	w.mu.Lock()
	job.RetryCount = n
	w.mu.Unlock()
}

// markJobFailed marks a job as failed
func (w *Worker) markJobFailed(job *FileJob, err error) error {
	w.mu.Lock()
	job.Status = FileStatusFailed
	job.ErrorMessage = err.Error()
	w.mu.Unlock()
	return fmt.Errorf("%s: %w", job.FilePath, err)
}

// permanentError marks failures that retrying the same file cannot fix.
type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

func permanent(err error) error { return permanentError{err: err} }

func retryable(err error) bool {
	var p permanentError
	if errors.As(err, &p) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
