package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestAdd_RejectsBadSpec(t *testing.T) {
	s := New()
	defer s.Stop()
	if err := s.Add("bad", "not a cron spec", func(context.Context) error { return nil }); err == nil {
		t.Fatalf("expected error for invalid spec")
	}
	if s.IsRunning() {
		t.Fatalf("invalid job registered")
	}
}

func TestJobRuns(t *testing.T) {
	s := New()
	ran := make(chan struct{}, 1)
	if err := s.Add("tick", "@every 1s", func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !s.IsRunning() {
		t.Fatalf("job not registered")
	}
	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatalf("job did not run")
	}
}
