package scheduler

import (
	"context"
	"testing"
)

func TestStart_WithoutReportFunction(t *testing.T) {
	s := New("0 21 * * *", nil)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.IsRunning() {
		t.Fatalf("scheduler without report function should not be running")
	}
	s.Stop()
}

func TestStart_RegistersReport(t *testing.T) {
	s := New("0 21 * * *", nil)
	s.SetReportFunction(func(ctx context.Context) error { return nil })
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()
	if !s.IsRunning() {
		t.Fatalf("expected scheduled entry")
	}
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := New("every evening", nil)
	s.SetReportFunction(func(ctx context.Context) error { return nil })
	if err := s.Start(); err == nil {
		t.Fatalf("expected error for invalid schedule")
	}
	s.Stop()
}
