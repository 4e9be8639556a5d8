package pipeline

import (
	"context"
	"time"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
)

// Pipeline defines the interface that all data pipelines must implement
type Pipeline interface {
	// Name returns the unique identifier for this pipeline
	Name() string

	// Transform parses a single input file into forecast records
	Transform(ctx context.Context, inputFile string) ([]domain.ForecastRecord, error)

	// Validate checks if the input file is valid for this pipeline
	Validate(inputFile string) error
}

// Sink persists transformed records and reports how many were written.
type Sink interface {
	SaveForecasts(ctx context.Context, records []domain.ForecastRecord) (int, error)
}

// PipelineConfig holds configuration for a pipeline instance
type PipelineConfig struct {
	Name          string
	WorkerCount   int           // Number of concurrent file workers
	BatchSize     int           // Rows per sink call
	MaxSaves      int64         // Concurrent sink calls across workers
	RetryAttempts int           // Attempts per file, including the first
	RetryBackoff  time.Duration // Backoff between attempts
}

// DefaultPipelineConfig returns sensible defaults
func DefaultPipelineConfig(name string) PipelineConfig {
	return PipelineConfig{
		Name:          name,
		WorkerCount:   4,
		BatchSize:     1000,
		MaxSaves:      2,
		RetryAttempts: 3,
		RetryBackoff:  2 * time.Second,
	}
}

// PipelineStatus represents the current state of a pipeline run
type PipelineStatus string

const (
	StatusProcessing PipelineStatus = "processing"
	StatusCompleted  PipelineStatus = "completed"
	StatusFailed     PipelineStatus = "failed"
)

// FileJobStatus represents the state of a single file processing job
type FileJobStatus string

const (
	FileStatusQueued     FileJobStatus = "queued"
	FileStatusProcessing FileJobStatus = "processing"
	FileStatusCompleted  FileJobStatus = "completed"
	FileStatusFailed     FileJobStatus = "failed"
)

// FileJob tracks the processing of a single file
type FileJob struct {
	FilePath     string        `json:"file_path"`
	Status       FileJobStatus `json:"status"`
	Rows         int           `json:"rows"`
	Saved        int           `json:"saved"`
	ErrorMessage string        `json:"error,omitempty"`
	RetryCount   int           `json:"retry_count"`
	ProcessedAt  *time.Time    `json:"processed_at,omitempty"`
}

// PipelineRun tracks a single execution of a pipeline over a set of files
type PipelineRun struct {
	PipelineName   string         `json:"pipeline"`
	Status         PipelineStatus `json:"status"`
	TotalFiles     int            `json:"total_files"`
	ProcessedFiles int            `json:"processed_files"`
	TotalRows      int            `json:"total_rows"`
	SavedRows      int            `json:"saved_rows"`
	Jobs           []*FileJob     `json:"jobs"`
	StartedAt      time.Time      `json:"started_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
}
