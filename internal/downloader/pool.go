package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"pinscraper/pkg/logger"
	"pinscraper/pkg/pinterest"
)

// Job represents one resource to download into a board directory
type Job struct {
	Resource pinterest.Resource
	Filename string
}

// Status is the per-resource outcome surfaced to the orchestrator
type Status string

const (
	StatusDownloaded Status = "downloaded"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

// Result represents the outcome of a download job
type Result struct {
	Job      Job
	Status   Status
	Error    error
	Duration time.Duration
	Size     int64
}

// MediaClient issues streaming GETs for media and segment URLs
type MediaClient interface {
	Download(ctx context.Context, url string) (*http.Response, error)
}

// PlaylistResolver expands a video playlist URL into ordered segment URLs
type PlaylistResolver interface {
	SegmentURLs(ctx context.Context, playlistURL string) ([]string, error)
}

// MediaStorage stores downloaded media in a board directory
type MediaStorage interface {
	Exists(filename string) bool
	SaveImage(r io.Reader, filename string) (int64, error)
	AppendSegment(r io.Reader, filename string) (int64, error)
	Remove(filename string) error
}

// WorkerPool downloads a board's resources concurrently. One job covers
// a whole resource: the skip-if-exists check and the fetch form a single
// unit, and video segment appends stay strictly ordered within a job.
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	client      MediaClient
	resolver    PlaylistResolver
	storage     MediaStorage
	force       bool
	logger      logger.Logger
}

// NewWorkerPool creates a download worker pool for one board
func NewWorkerPool(
	ctx context.Context,
	numWorkers int,
	client MediaClient,
	resolver PlaylistResolver,
	storage MediaStorage,
	force bool,
	log logger.Logger,
) *WorkerPool {
	ctx, cancel := context.WithCancel(ctx)

	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, numWorkers*2),
		resultQueue: make(chan Result, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		client:      client,
		resolver:    resolver,
		storage:     storage,
		force:       force,
		logger:      log,
	}
}

// Start initializes and starts all workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the job queue, waits for the workers to drain it and
// closes the result queue
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// Submit adds a new download job to the queue
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	}
}

// Results returns the result channel for consuming download results
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		select {
		case <-wp.ctx.Done():
			return
		default:
		}

		result := wp.processJob(job, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

// processJob handles a single resource download
func (wp *WorkerPool) processJob(job Job, workerID int) Result {
	start := time.Now()
	result := Result{Job: job}

	if wp.storage.Exists(job.Filename) && !wp.force {
		wp.logger.DebugWithFields("resource already downloaded", map[string]interface{}{
			"worker_id": workerID,
			"file":      job.Filename,
		})
		result.Status = StatusSkipped
		result.Duration = time.Since(start)
		return result
	}

	var size int64
	var err error
	switch job.Resource.Kind {
	case pinterest.KindImage:
		size, err = wp.fetchImage(job)
	case pinterest.KindVideo:
		size, err = wp.fetchVideo(job)
	default:
		err = fmt.Errorf("unknown resource kind %q", job.Resource.Kind)
	}

	result.Size = size
	result.Duration = time.Since(start)

	if err != nil {
		result.Status = StatusFailed
		result.Error = err

		wp.logger.ErrorWithFields("download failed", map[string]interface{}{
			"worker_id": workerID,
			"file":      job.Filename,
			"kind":      string(job.Resource.Kind),
			"error":     err.Error(),
			"duration":  result.Duration,
		})
		return result
	}

	result.Status = StatusDownloaded

	wp.logger.DebugWithFields("download completed", map[string]interface{}{
		"worker_id": workerID,
		"file":      job.Filename,
		"size":      result.Size,
		"duration":  result.Duration,
	})

	return result
}

// fetchImage streams the image URL into the board directory
func (wp *WorkerPool) fetchImage(job Job) (int64, error) {
	resp, err := wp.client.Download(wp.ctx, job.Resource.SourceURL)
	if err != nil {
		return 0, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	n, err := wp.storage.SaveImage(resp.Body, job.Filename)
	if err != nil {
		return n, fmt.Errorf("save failed: %w", err)
	}

	return n, nil
}

// fetchVideo resolves the playlist and appends the segments in order
// onto one output file. A leftover file is removed first so a forced
// re-download starts from empty instead of growing the old one.
func (wp *WorkerPool) fetchVideo(job Job) (int64, error) {
	segments, err := wp.resolver.SegmentURLs(wp.ctx, job.Resource.SourceURL)
	if err != nil {
		return 0, fmt.Errorf("playlist resolution failed: %w", err)
	}

	if err := wp.storage.Remove(job.Filename); err != nil {
		return 0, err
	}

	var total int64
	for _, segmentURL := range segments {
		if err := wp.ctx.Err(); err != nil {
			return total, err
		}

		resp, err := wp.client.Download(wp.ctx, segmentURL)
		if err != nil {
			return total, fmt.Errorf("segment download failed: %w", err)
		}

		n, err := wp.storage.AppendSegment(resp.Body, job.Filename)
		resp.Body.Close()
		total += n
		if err != nil {
			return total, fmt.Errorf("segment append failed: %w", err)
		}
	}

	return total, nil
}
