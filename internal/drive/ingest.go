package drive

import (
	"context"
	"fmt"
	"os"

	"github.com/andresuchdata/storeops/backend-go/internal/pipeline"
	"github.com/rs/zerolog/log"
)

// IngestService loads forecast files from Drive into the forecast store.
type IngestService struct {
	downloader *Downloader
	source     FileSource
	worker     *pipeline.Worker
	workDir    string
}

// NewIngestService builds an ingest service. Downloads are staged under workDir,
// or the system temp directory when empty.
func NewIngestService(source FileSource, worker *pipeline.Worker, workDir string) *IngestService {
	return &IngestService{
		downloader: NewDownloader(source),
		source:     source,
		worker:     worker,
		workDir:    workDir,
	}
}

// IngestFile downloads one CSV or XLSX file and loads its forecast rows.
func (s *IngestService) IngestFile(ctx context.Context, fileID string) (*pipeline.PipelineRun, error) {
	file, err := s.source.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !IsForecastFile(file.Name) {
		return nil, fmt.Errorf("%s is not a csv or xlsx file", file.Name)
	}

	dir, cleanup, err := s.stagingDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	localPath, err := s.downloader.Download(ctx, file, dir)
	if err != nil {
		return nil, err
	}

	log.Info().Str("file_id", fileID).Str("name", file.Name).Msg("drive ingest: processing file")
	return s.worker.ProcessFiles(ctx, []string{localPath})
}

// IngestFolder downloads every forecast file in a folder and loads them.
func (s *IngestService) IngestFolder(ctx context.Context, folderID string) (*pipeline.PipelineRun, error) {
	dir, cleanup, err := s.stagingDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	paths, err := s.downloader.DownloadFolder(ctx, DownloadOptions{FolderID: folderID, DownloadDir: dir})
	if err != nil {
		return nil, err
	}

	log.Info().Str("folder_id", folderID).Int("files", len(paths)).Msg("drive ingest: processing folder")
	return s.worker.ProcessFiles(ctx, paths)
}

func (s *IngestService) stagingDir() (string, func(), error) {
	dir, err := os.MkdirTemp(s.workDir, "drive-ingest-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create staging dir: %w", err)
	}
	return dir, func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("drive ingest: failed to clean staging dir")
		}
	}, nil
}
