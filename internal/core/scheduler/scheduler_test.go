package scheduler

import (
	"testing"
	"time"
)

func TestSchedulerJobs(t *testing.T) {
	s := New()

	if err := s.Add("cleanup", "0 */15 * * * *", func() {}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.Add("cleanup", "0 0 * * * *", func() {}); err != nil {
		t.Fatalf("Re-adding failed: %v", err)
	}
	if err := s.Add("audit", "*/5 * * * * *", func() {}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	jobs := s.Jobs()
	if len(jobs) != 2 || jobs[0] != "audit" || jobs[1] != "cleanup" {
		t.Errorf("Expected [audit cleanup], got %v", jobs)
	}
	if len(s.cron.Entries()) != 2 {
		t.Errorf("Expected replaced job to leave 2 entries, got %d", len(s.cron.Entries()))
	}

	s.Remove("audit")
	if jobs := s.Jobs(); len(jobs) != 1 {
		t.Errorf("Expected 1 job after removal, got %v", jobs)
	}
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	s := New()
	// five fields are rejected once seconds are enabled
	if err := s.Add("bad", "*/15 * * * *", func() {}); err == nil {
		t.Error("Expected error for five-field schedule")
	}
	if len(s.Jobs()) != 0 {
		t.Error("Failed job must not be registered")
	}
}

func TestSchedulerRun(t *testing.T) {
	s := New()
	done := make(chan struct{}, 1)
	if err := s.Add("cleanup", "0 0 0 1 1 *", func() { done <- struct{}{} }); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if s.Run("missing") {
		t.Error("Expected Run to report unknown jobs")
	}
	if !s.Run("cleanup") {
		t.Fatal("Expected Run to start the job")
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Job did not run")
	}

	if !s.Next("missing").IsZero() {
		t.Error("Expected zero time for unknown job")
	}
}
