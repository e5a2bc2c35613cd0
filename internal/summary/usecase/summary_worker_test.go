package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"summarizer-backend/internal/summary/domain"
	"summarizer-backend/internal/summary/dto"
	"summarizer-backend/internal/summary/repository"
	"summarizer-backend/pkg/scraper"
)

type fakeFetcher struct {
	err error
}

func (f *fakeFetcher) FetchArticle(ctx context.Context, url string) (*scraper.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &scraper.Article{URL: url, Title: "Title", Text: "Body of " + url}, nil
}

type fakeSummarizer struct {
	err   error
	block chan struct{}
}

func (f *fakeSummarizer) Name() string { return "fake" }

func (f *fakeSummarizer) Summarize(ctx context.Context, title, text string) (string, error) {
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return "", f.err
	}
	return "summary: " + text, nil
}

type captureBroadcaster struct {
	mu     sync.Mutex
	events []dto.SummaryUpdateEvent
	ch     chan struct{}
}

func newCaptureBroadcaster() *captureBroadcaster {
	return &captureBroadcaster{ch: make(chan struct{}, 16)}
}

func (b *captureBroadcaster) Broadcast(name string, data interface{}) {
	b.mu.Lock()
	b.events = append(b.events, data.(dto.SummaryUpdateEvent))
	b.mu.Unlock()
	b.ch <- struct{}{}
}

func (b *captureBroadcaster) wait(t *testing.T) {
	t.Helper()
	select {
	case <-b.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for summary_update event")
	}
}

func TestSummaryWorker_GeneratesAndBroadcasts(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySummaryRepository()
	record := &domain.TextSummary{URL: "https://a.example"}
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	broadcaster := newCaptureBroadcaster()
	worker := NewSummaryWorkerService(repo, &fakeFetcher{}, &fakeSummarizer{}, broadcaster, SummaryWorkerConfig{Workers: 2}, nil)
	worker.Start()
	defer worker.Stop()

	if !worker.QueueJob(SummaryJob{ID: record.ID, URL: record.URL}) {
		t.Fatal("expected job to be queued")
	}
	broadcaster.wait(t)

	got, err := repo.FindByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	expected := "summary: Body of https://a.example"
	if got.Summary != expected {
		t.Errorf("expected stored summary %q, got %q", expected, got.Summary)
	}

	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()
	if len(broadcaster.events) != 1 || broadcaster.events[0].ID != record.ID || broadcaster.events[0].Summary != expected {
		t.Errorf("unexpected events: %+v", broadcaster.events)
	}
}

func TestSummaryWorker_FailuresLeaveRecordPending(t *testing.T) {
	tests := []struct {
		name       string
		fetcher    *fakeFetcher
		summarizer *fakeSummarizer
	}{
		{"fetch error", &fakeFetcher{err: errors.New("404")}, &fakeSummarizer{}},
		{"summarize error", &fakeFetcher{}, &fakeSummarizer{err: errors.New("quota")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := repository.NewMemorySummaryRepository()
			record := &domain.TextSummary{URL: "https://a.example"}
			repo.Create(ctx, record)

			broadcaster := newCaptureBroadcaster()
			worker := NewSummaryWorkerService(repo, tt.fetcher, tt.summarizer, broadcaster, SummaryWorkerConfig{Workers: 1}, nil)
			worker.Start()
			worker.QueueJob(SummaryJob{ID: record.ID, URL: record.URL})
			// Stop drains the queue before returning
			worker.Stop()

			got, _ := repo.FindByID(ctx, record.ID)
			if got.Summary != "" {
				t.Errorf("expected summary to stay empty, got %q", got.Summary)
			}
			if len(broadcaster.events) != 0 {
				t.Errorf("expected no events, got %+v", broadcaster.events)
			}
		})
	}
}

func TestSummaryWorker_DeletedRecordIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySummaryRepository()
	record := &domain.TextSummary{URL: "https://a.example"}
	repo.Create(ctx, record)

	gate := make(chan struct{})
	broadcaster := newCaptureBroadcaster()
	worker := NewSummaryWorkerService(repo, &fakeFetcher{}, &fakeSummarizer{block: gate}, broadcaster, SummaryWorkerConfig{Workers: 1}, nil)
	worker.Start()
	worker.QueueJob(SummaryJob{ID: record.ID, URL: record.URL})

	if _, err := repo.Delete(ctx, record.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	close(gate)
	worker.Stop()

	if _, err := repo.FindByID(ctx, record.ID); !errors.Is(err, domain.ErrSummaryNotFound) {
		t.Errorf("expected record to stay deleted, got %v", err)
	}
	if len(broadcaster.events) != 0 {
		t.Errorf("expected no events for a deleted record, got %+v", broadcaster.events)
	}
}

func TestSummaryWorker_EditedRecordKeepsUserSummary(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySummaryRepository()
	record := &domain.TextSummary{URL: "https://old.example"}
	repo.Create(ctx, record)

	gate := make(chan struct{})
	broadcaster := newCaptureBroadcaster()
	worker := NewSummaryWorkerService(repo, &fakeFetcher{}, &fakeSummarizer{block: gate}, broadcaster, SummaryWorkerConfig{Workers: 1}, nil)
	worker.Start()
	worker.QueueJob(SummaryJob{ID: record.ID, URL: record.URL})

	if _, err := repo.Update(ctx, record.ID, "https://new.example", "user summary"); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	close(gate)
	worker.Stop()

	got, err := repo.FindByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got.URL != "https://new.example" || got.Summary != "user summary" {
		t.Errorf("expected user edit to survive, got url=%q summary=%q", got.URL, got.Summary)
	}
	if len(broadcaster.events) != 0 {
		t.Errorf("expected no events for an edited record, got %+v", broadcaster.events)
	}
}

func TestSummaryWorker_StaleURLAfterReset(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySummaryRepository()
	record := &domain.TextSummary{URL: "https://old.example"}
	repo.Create(ctx, record)

	// URL changed and summary cleared, so the record is pending again under the new URL
	if _, err := repo.Update(ctx, record.ID, "https://new.example", ""); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	worker := NewSummaryWorkerService(repo, &fakeFetcher{}, &fakeSummarizer{}, nil, SummaryWorkerConfig{Workers: 1}, nil)
	worker.processJob(SummaryJob{ID: record.ID, URL: "https://old.example"})

	got, _ := repo.FindByID(ctx, record.ID)
	if got.Summary != "" {
		t.Errorf("expected summary of the old url to be discarded, got %q", got.Summary)
	}
}

func TestSummaryWorker_QueueJob(t *testing.T) {
	worker := NewSummaryWorkerService(repository.NewMemorySummaryRepository(), &fakeFetcher{}, &fakeSummarizer{}, nil, SummaryWorkerConfig{QueueSize: 1}, nil)

	// Not started, so nothing drains the queue
	if !worker.QueueJob(SummaryJob{ID: 1}) {
		t.Fatal("expected first job to be accepted")
	}
	if worker.QueueJob(SummaryJob{ID: 2}) {
		t.Error("expected full queue to reject job")
	}

	worker.Start()
	worker.Stop()
	if worker.QueueJob(SummaryJob{ID: 3}) {
		t.Error("expected stopped worker to reject job")
	}
	// Stop is idempotent
	worker.Stop()
}
