package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"summarizer-backend/internal/summary/repository"
	"summarizer-backend/internal/summary/usecase"
)

// Config controls how often and how aggressively pending records are retried
type Config struct {
	Interval    time.Duration
	RetryAfter  time.Duration
	BatchSize   int
	MaxAttempts int // 0 means no cap
}

// PendingSummaryScheduler re-queues records whose summary never arrived,
// e.g. because the queue was full or the process restarted mid-job
type PendingSummaryScheduler struct {
	summaryRepo repository.SummaryRepository
	queue       usecase.SummaryQueue
	cfg         Config
	logger      *zap.SugaredLogger
	now         func() time.Time
	stopChan    chan struct{}
	done        chan struct{}
	stopOnce    sync.Once
	mu          sync.Mutex
	started     bool
}

// NewPendingSummaryScheduler creates a new scheduler
func NewPendingSummaryScheduler(
	summaryRepo repository.SummaryRepository,
	queue usecase.SummaryQueue,
	cfg Config,
	logger *zap.SugaredLogger,
) *PendingSummaryScheduler {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &PendingSummaryScheduler{
		summaryRepo: summaryRepo,
		queue:       queue,
		cfg:         cfg,
		logger:      logger.Named("pending_scheduler"),
		now:         time.Now,
		stopChan:    make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start begins the scheduler loop. A zero interval disables it.
func (s *PendingSummaryScheduler) Start() {
	if s.cfg.Interval <= 0 {
		s.logger.Info("scheduler disabled")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	s.logger.Infow("starting pending summary scheduler",
		"interval", s.cfg.Interval, "retry_after", s.cfg.RetryAfter,
		"batch_size", s.cfg.BatchSize, "max_attempts", s.cfg.MaxAttempts)

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.requeuePending()
			case <-s.stopChan:
				s.logger.Info("scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler and waits for the running pass
func (s *PendingSummaryScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})

	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.done
	}
}

// requeuePending finds stale records with an empty summary and queues them again.
// Returns how many were queued.
func (s *PendingSummaryScheduler) requeuePending() int {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := s.now()
	cutoff := now.Add(-s.cfg.RetryAfter)
	pending, err := s.summaryRepo.FindPending(ctx, cutoff, s.cfg.MaxAttempts, s.cfg.BatchSize)
	if err != nil {
		s.logger.Errorw("error finding pending summaries", "error", err)
		return 0
	}

	if len(pending) == 0 {
		return 0
	}

	queued := 0
	for _, summary := range pending {
		if !s.queue.QueueJob(usecase.SummaryJob{ID: summary.ID, URL: summary.URL}) {
			s.logger.Warnw("queue full, retrying next tick", "remaining", len(pending)-queued)
			break
		}
		if err := s.summaryRepo.MarkAttempted(ctx, summary.ID, now); err != nil {
			s.logger.Warnw("error recording attempt", "id", summary.ID, "error", err)
		}
		queued++
	}

	s.logger.Infow("re-queued pending summaries", "found", len(pending), "queued", queued)
	return queued
}
