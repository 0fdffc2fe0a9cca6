package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"jbt-blog/config"
)

type fakeImporter struct {
	calls chan struct{}
}

func (f *fakeImporter) FetchAllFeeds(ctx context.Context) (int, error) {
	f.calls <- struct{}{}
	return 1, nil
}

func TestSchedulerDisabled(t *testing.T) {
	s := NewScheduler(&fakeImporter{}, config.ImportConfig{Enabled: false, Interval: "@every 1h"}, zerolog.Nop())
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	if !s.GetNextFetchTime().IsZero() {
		t.Error("Disabled import must not be scheduled")
	}
}

func TestSchedulerNextFetchTime(t *testing.T) {
	s := NewScheduler(&fakeImporter{}, config.ImportConfig{Enabled: true, Interval: "@every 1h"}, zerolog.Nop())
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	// cron在启动后的调度循环中计算下次执行时间
	deadline := time.Now().Add(2 * time.Second)
	for s.GetNextFetchTime().IsZero() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	next := s.GetNextFetchTime()
	if next.IsZero() {
		t.Fatal("Expected next fetch time to be set")
	}
	if d := time.Until(next); d <= 0 || d > time.Hour+time.Second {
		t.Errorf("Unexpected next fetch in %s", d)
	}
}

func TestSchedulerRunsImport(t *testing.T) {
	imp := &fakeImporter{calls: make(chan struct{}, 1)}
	s := NewScheduler(imp, config.ImportConfig{Enabled: true, Interval: "@every 1s"}, zerolog.Nop())
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	select {
	case <-imp.calls:
	case <-time.After(3 * time.Second):
		t.Fatal("Expected import to run")
	}
}

func TestSchedulerInvalidInterval(t *testing.T) {
	s := NewScheduler(&fakeImporter{}, config.ImportConfig{Enabled: true, Interval: "every now and then"}, zerolog.Nop())
	if err := s.Start(); err == nil {
		s.Stop()
		t.Error("Expected invalid cron expression to fail")
	}
}
