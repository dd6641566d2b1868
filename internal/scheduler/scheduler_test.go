package scheduler

import (
	"testing"
	"time"
)

func TestManualClockAdvance(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewManualClock(start)

	if got := clock.Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v, want %v", got, start)
	}

	clock.Advance(48 * time.Hour)
	want := start.Add(48 * time.Hour)
	if got := clock.Now(); !got.Equal(want) {
		t.Errorf("after Advance, Now() = %v, want %v", got, want)
	}
}

func TestManualSchedulerFiresOnlyWhileRunning(t *testing.T) {
	s := NewManual()

	runs := 0
	err := s.Every(time.Hour, TaskFunc{TaskName: "tick", Fn: func() error {
		runs++
		return nil
	}})
	if err != nil {
		t.Fatalf("Every returned error: %v", err)
	}

	s.Fire()
	if runs != 0 {
		t.Fatalf("task ran before Start, runs = %d", runs)
	}

	s.Start()
	s.Fire()
	s.Fire()
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}

	s.Stop()
	s.Fire()
	if runs != 2 {
		t.Errorf("task ran after Stop, runs = %d", runs)
	}
}

func TestManualSchedulerRejectsNonPositiveInterval(t *testing.T) {
	s := NewManual()
	if err := s.Every(0, TaskFunc{TaskName: "bad", Fn: func() error { return nil }}); err == nil {
		t.Error("expected error for zero interval")
	}
}
