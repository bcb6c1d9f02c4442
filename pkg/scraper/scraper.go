package scraper

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"pinscraper/internal/downloader"
	"pinscraper/pkg/config"
	"pinscraper/pkg/hls"
	"pinscraper/pkg/logger"
	"pinscraper/pkg/pinterest"
	"pinscraper/pkg/storage"
	"pinscraper/pkg/ui"
)

// Scraper orchestrates the board download process
type Scraper struct {
	client   BoardClient
	resolver downloader.PlaylistResolver
	config   *config.Config
	logger   logger.Logger
}

// Summary aggregates per-resource outcomes across all boards of a run
type Summary struct {
	Boards     int
	Downloaded int
	Skipped    int
	Failed     int
}

// New creates a new Scraper instance
func New(cfg *config.Config) *Scraper {
	log := logger.GetLogger()
	client := pinterest.NewClient(cfg, log)

	return &Scraper{
		client:   client,
		resolver: hls.NewResolver(client, log),
		config:   cfg,
		logger:   log,
	}
}

// DownloadAll resolves the user's boards and downloads every board's
// resources, one board at a time. Discovery and protocol failures abort
// the run; individual download failures are counted in the summary and
// the run continues.
func (s *Scraper) DownloadAll(ctx context.Context, path string) (*Summary, error) {
	s.logger.InfoWithFields("starting board download", map[string]interface{}{
		"path": path,
	})

	boards, err := s.client.UserBoards(ctx, path)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Boards: len(boards)}
	for _, board := range boards {
		if err := s.downloadBoard(ctx, board, summary); err != nil {
			return summary, err
		}
	}

	s.logger.InfoWithFields("board download completed", map[string]interface{}{
		"path":       path,
		"boards":     summary.Boards,
		"downloaded": summary.Downloaded,
		"skipped":    summary.Skipped,
		"failed":     summary.Failed,
	})

	return summary, nil
}

// downloadBoard fetches one board's feed, classifies its pins and runs
// the download worker pool over the resulting resources
func (s *Scraper) downloadBoard(ctx context.Context, board pinterest.Board, summary *Summary) error {
	pins, err := s.client.BoardFeed(ctx, board)
	if err != nil {
		return err
	}

	resources := pinterest.ClassifyAll(pins)
	if len(resources) == 0 {
		s.logger.InfoWithFields("board has no downloadable resources", map[string]interface{}{
			"board": board.Name,
		})
		return nil
	}

	dir := filepath.Join(s.config.Output.SaveFolder, board.Owner, board.Name)
	manager, err := storage.NewManager(dir)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	progress := ui.NewProgressDisplay(board.Name, len(resources))

	pool := downloader.NewWorkerPool(
		ctx,
		s.config.Download.ConcurrentDownloads,
		s.client,
		s.resolver,
		manager,
		s.config.Output.Force,
		s.logger,
	)
	pool.Start()

	var wg sync.WaitGroup
	var downloaded, skipped, failed int
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range pool.Results() {
			switch result.Status {
			case downloader.StatusDownloaded:
				downloaded++
				progress.Complete(result.Size)
			case downloader.StatusSkipped:
				skipped++
				progress.Skip()
			case downloader.StatusFailed:
				failed++
				progress.Fail(result.Job.Resource.ID, result.Error)
			}
		}
	}()

	for _, resource := range resources {
		job := downloader.Job{
			Resource: resource,
			Filename: Filename(resource),
		}
		if err := pool.Submit(job); err != nil {
			s.logger.WithError(err).WithField("resource", resource.ID).Error("failed to submit download job")
			break
		}
	}

	pool.Stop()
	wg.Wait()
	progress.Finish()

	summary.Downloaded += downloaded
	summary.Skipped += skipped
	summary.Failed += failed

	return ctx.Err()
}

// Filename derives the output filename for a resource. Images keep the
// extension of their source URL; videos are always the concatenated
// transport stream.
func Filename(resource pinterest.Resource) string {
	if resource.Kind == pinterest.KindVideo {
		return resource.ID + ".ts"
	}

	parts := strings.Split(resource.SourceURL, ".")
	return resource.ID + "." + parts[len(parts)-1]
}
