package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"summarizer-backend/internal/summary/dto"
	"summarizer-backend/internal/summary/repository"
	"summarizer-backend/pkg/ai"
	"summarizer-backend/pkg/metrics"
	"summarizer-backend/pkg/scraper"
)

// SummaryJob represents a job to generate a summary for a stored URL
type SummaryJob struct {
	ID  uint
	URL string
}

// EventBroadcaster pushes named events to connected clients
type EventBroadcaster interface {
	Broadcast(name string, data interface{})
}

// SummaryWorkerConfig tunes the worker pool
type SummaryWorkerConfig struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

// SummaryWorkerService handles background AI summary generation
type SummaryWorkerService struct {
	summaryRepo repository.SummaryRepository
	fetcher     scraper.ContentFetcher
	summarizer  ai.SummarizerService
	broadcaster EventBroadcaster
	logger      *zap.SugaredLogger

	jobQueue    chan SummaryJob
	jobTimeout  time.Duration
	workerWg    sync.WaitGroup
	workerCount int
	started     bool
	stopped     bool
	mu          sync.RWMutex
}

// NewSummaryWorkerService creates a new summary worker service
func NewSummaryWorkerService(
	summaryRepo repository.SummaryRepository,
	fetcher scraper.ContentFetcher,
	summarizer ai.SummarizerService,
	broadcaster EventBroadcaster,
	cfg SummaryWorkerConfig,
	logger *zap.SugaredLogger,
) *SummaryWorkerService {
	if cfg.Workers <= 0 {
		cfg.Workers = 3 // Default to 3 workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 500
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &SummaryWorkerService{
		summaryRepo: summaryRepo,
		fetcher:     fetcher,
		summarizer:  summarizer,
		broadcaster: broadcaster,
		logger:      logger.Named("summary_worker"),
		jobQueue:    make(chan SummaryJob, cfg.QueueSize), // Buffered channel
		jobTimeout:  cfg.JobTimeout,
		workerCount: cfg.Workers,
	}
}

// Start starts the summary workers
func (s *SummaryWorkerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.stopped {
		return
	}

	for i := 0; i < s.workerCount; i++ {
		s.workerWg.Add(1)
		go s.worker(i)
	}
	s.started = true
	s.logger.Infow("workers started", "count", s.workerCount, "provider", s.summarizer.Name())
}

// Stop closes the queue and waits for queued and in-flight jobs to finish
func (s *SummaryWorkerService) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.jobQueue)
	s.mu.Unlock()

	s.workerWg.Wait()
	s.logger.Info("all workers stopped")
}

// worker processes summary jobs from the queue
func (s *SummaryWorkerService) worker(id int) {
	defer s.workerWg.Done()

	for job := range s.jobQueue {
		metrics.SummaryQueueDepth.Set(float64(len(s.jobQueue)))
		s.processJob(job)
	}

	s.logger.Debugw("worker stopped", "worker", id)
}

// processJob fetches the article, summarizes it and stores the result
func (s *SummaryWorkerService) processJob(job SummaryJob) {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	log := s.logger.With("id", job.ID, "url", job.URL)

	article, err := s.fetcher.FetchArticle(ctx, job.URL)
	if err != nil {
		log.Warnw("article fetch failed", "error", err)
		metrics.SummaryJobsTotal.WithLabelValues(metrics.JobFailed).Inc()
		return
	}

	summary, err := s.summarizer.Summarize(ctx, article.Title, article.Text)
	if err != nil {
		log.Errorw("summarization failed", "provider", s.summarizer.Name(), "error", err)
		metrics.SummaryJobsTotal.WithLabelValues(metrics.JobFailed).Inc()
		return
	}
	if summary == "" {
		log.Debugw("provider returned no summary", "provider", s.summarizer.Name())
		return
	}

	saved, err := s.summaryRepo.UpdateSummaryText(ctx, job.ID, job.URL, summary)
	if err != nil {
		log.Errorw("save summary failed", "error", err)
		metrics.SummaryJobsTotal.WithLabelValues(metrics.JobFailed).Inc()
		return
	}
	if !saved {
		// Deleted or edited while the job was running
		log.Infow("record changed, discarding summary")
		metrics.SummaryJobsTotal.WithLabelValues(metrics.JobOrphaned).Inc()
		return
	}

	s.sendSummaryUpdate(job.ID, summary)
	metrics.SummaryJobsTotal.WithLabelValues(metrics.JobSucceeded).Inc()
	log.Infow("summary generated", "chars", len(summary))
}

// sendSummaryUpdate sends summary update to clients via SSE
func (s *SummaryWorkerService) sendSummaryUpdate(id uint, summary string) {
	if s.broadcaster == nil {
		return
	}

	s.broadcaster.Broadcast("summary_update", dto.SummaryUpdateEvent{
		ID:          id,
		Summary:     summary,
		GeneratedAt: time.Now().UTC(),
	})
}

// QueueJob adds a single job to the queue (non-blocking).
// Returns false when the queue is full or the service is stopped.
func (s *SummaryWorkerService) QueueJob(job SummaryJob) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped {
		return false
	}

	select {
	case s.jobQueue <- job:
		metrics.SummaryQueueDepth.Set(float64(len(s.jobQueue)))
		return true
	default:
		metrics.SummaryJobsTotal.WithLabelValues(metrics.JobDropped).Inc()
		return false // Queue full
	}
}
