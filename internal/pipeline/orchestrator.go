package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Orchestrator coordinates running a Pipeline over local files and directories.
type Orchestrator struct {
	sink  Sink
	cfg   PipelineConfig
	makeW func(p Pipeline, cfg PipelineConfig, sink Sink) *Worker
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(sink Sink, cfg PipelineConfig) *Orchestrator {
	return &Orchestrator{
		sink:  sink,
		cfg:   cfg,
		makeW: NewWorker,
	}
}

// Run expands directories in paths to the forecast files they contain and runs
// a single Worker over all of them.
func (o *Orchestrator) Run(ctx context.Context, p Pipeline, paths []string) (*PipelineRun, error) {
	files, err := CollectFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return &PipelineRun{PipelineName: p.Name(), Status: StatusCompleted}, nil
	}

	return o.makeW(p, o.cfg, o.sink).ProcessFiles(ctx, files)
}

// CollectFiles returns the .csv and .xlsx files named by paths, walking directories.
// The result is sorted and free of duplicates.
func CollectFiles(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	add := func(path string) {
		if !isForecastFile(path) {
			return
		}
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func isForecastFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}
