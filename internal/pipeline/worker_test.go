package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
)

type recordingSink struct {
	mu      sync.Mutex
	batches [][]domain.ForecastRecord
	failN   int
}

func (s *recordingSink) SaveForecasts(ctx context.Context, records []domain.ForecastRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failN > 0 {
		s.failN--
		return 0, errors.New("connection reset")
	}
	s.batches = append(s.batches, records)
	return len(records), nil
}

func (s *recordingSink) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.batches {
		n += len(b)
	}
	return n
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func noSleep(ctx context.Context, d time.Duration) error { return ctx.Err() }

func TestWorker_ProcessFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "store_id,product_id,date,units\n1,1,2024-01-01,1\n1,2,2024-01-01,2\n1,3,2024-01-01,3\n")
	b := writeFile(t, dir, "b.csv", "store_id,product_id,date,units\n2,1,2024-01-02,5\n")

	sink := &recordingSink{}
	cfg := DefaultPipelineConfig("test")
	cfg.BatchSize = 2
	w := NewWorker(NewForecastPipeline(), cfg, sink)

	run, err := w.ProcessFiles(context.Background(), []string{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Status != StatusCompleted || run.ProcessedFiles != 2 || run.TotalRows != 4 || run.SavedRows != 4 {
		t.Errorf("unexpected run %+v", run)
	}
	if sink.total() != 4 || len(sink.batches) != 3 {
		t.Errorf("expected 4 rows in 3 batches, got %d rows in %d batches", sink.total(), len(sink.batches))
	}
	for _, job := range run.Jobs {
		if job.Status != FileStatusCompleted || job.ProcessedAt == nil {
			t.Errorf("unexpected job %+v", job)
		}
	}
}

func TestWorker_RetriesSinkFailures(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "store_id,product_id,date,units\n1,1,2024-01-01,1\n")

	sink := &recordingSink{failN: 2}
	w := NewWorker(NewForecastPipeline(), DefaultPipelineConfig("test"), sink)
	w.sleep = noSleep

	run, err := w.ProcessFiles(context.Background(), []string{a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Jobs[0].RetryCount != 2 || sink.total() != 1 {
		t.Errorf("expected success after two retries, job %+v, saved %d", run.Jobs[0], sink.total())
	}
}

func TestWorker_PermanentFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", "store_id,product_id,date,units\n1,1,2024-01-01,1\n")
	bad := writeFile(t, dir, "bad.csv", "sku,qty\nA,1\n")

	sink := &recordingSink{}
	w := NewWorker(NewForecastPipeline(), DefaultPipelineConfig("test"), sink)
	w.sleep = noSleep

	run, err := w.ProcessFiles(context.Background(), []string{good, bad})
	if err == nil {
		t.Fatal("expected error for malformed file")
	}
	if run.Status != StatusFailed || run.ProcessedFiles != 1 {
		t.Errorf("unexpected run %+v", run)
	}

	var badJob *FileJob
	for _, job := range run.Jobs {
		if job.FilePath == bad {
			badJob = job
		}
	}
	if badJob == nil || badJob.Status != FileStatusFailed || badJob.RetryCount != 0 {
		t.Errorf("malformed file must fail without retries, got %+v", badJob)
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "b/a.csv", "x")
	b := writeFile(t, dir, "b.xlsx", "x")
	writeFile(t, dir, "notes.txt", "x")
	writeFile(t, dir, "~$b.xlsx", "x")
	writeFile(t, dir, ".hidden.csv", "x")

	files, err := CollectFiles([]string{dir, a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 || files[0] != filepath.Join(dir, "b.xlsx") || files[1] != a {
		t.Errorf("unexpected files %v (want %s, %s)", files, b, a)
	}

	if _, err := CollectFiles([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestOrchestrator_Run(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2024/forecast.csv", "store_id,product_id,date,units\n1,1,2024-01-01,9\n")

	sink := &recordingSink{}
	run, err := NewOrchestrator(sink, DefaultPipelineConfig("test")).Run(context.Background(), NewForecastPipeline(), []string{dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.SavedRows != 1 || sink.total() != 1 {
		t.Errorf("unexpected run %+v", run)
	}
}
