package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Timezone != "Local" {
		t.Errorf("Timezone = %v, want Local", cfg.Timezone)
	}
}

func TestNewWithInvalidTimezone(t *testing.T) {
	s := New(Config{Timezone: "Invalid/Timezone"})
	if s == nil {
		t.Fatal("scheduler is nil")
	}
	// Should fall back to local timezone
	if s.timezone == nil {
		t.Error("timezone not set")
	}
}

func TestRegister(t *testing.T) {
	s := New(DefaultConfig())

	t.Run("valid task", func(t *testing.T) {
		task := &Task{
			ID:       "test-1",
			Name:     "Test Task",
			Handler:  func(ctx context.Context) error { return nil },
			Schedule: Schedule{Type: ScheduleInterval, Interval: time.Minute},
		}

		if err := s.Register(task); err != nil {
			t.Errorf("Register failed: %v", err)
		}
		if _, ok := s.tasks["test-1"]; !ok {
			t.Error("task not found in scheduler")
		}
		if task.Timeout == 0 {
			t.Error("default timeout not set")
		}
		if !task.Enabled {
			t.Error("task should be enabled by default")
		}
		if task.NextRun == nil {
			t.Error("NextRun not calculated")
		}
	})

	t.Run("empty ID", func(t *testing.T) {
		task := &Task{Handler: func(ctx context.Context) error { return nil }}
		if err := s.Register(task); err == nil {
			t.Error("expected error for empty ID")
		}
	})

	t.Run("nil handler", func(t *testing.T) {
		task := &Task{ID: "test-2"}
		if err := s.Register(task); err == nil {
			t.Error("expected error for nil handler")
		}
	})
}

func TestStartStop(t *testing.T) {
	s := New(DefaultConfig())

	if err := s.Start(); err != nil {
		t.Errorf("Start failed: %v", err)
	}
	if err := s.Start(); err == nil {
		t.Error("expected error when already started")
	}
	if err := s.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("Stop should not error when not started: %v", err)
	}
}

func TestRunNow(t *testing.T) {
	s := New(DefaultConfig())

	executed := make(chan bool, 1)
	task := &Task{
		ID: "test-1",
		Handler: func(ctx context.Context) error {
			executed <- true
			return nil
		},
		Schedule: Schedule{Type: ScheduleInterval, Interval: time.Hour},
	}
	s.Register(task)

	if err := s.RunNow("test-1"); err != nil {
		t.Errorf("RunNow failed: %v", err)
	}

	select {
	case <-executed:
	case <-time.After(time.Second):
		t.Error("task not executed within timeout")
	}

	if err := s.RunNow("nonexistent"); err == nil {
		t.Error("expected error for nonexistent task")
	}
}

func TestExecuteTaskTracksErrors(t *testing.T) {
	s := New(DefaultConfig())

	task := &Task{
		ID: "test-1",
		Handler: func(ctx context.Context) error {
			return errors.New("test error")
		},
		Schedule: Schedule{Type: ScheduleInterval, Interval: time.Minute},
		Timeout:  time.Second,
	}
	s.Register(task)

	s.executeTask(context.Background(), task)

	if task.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", task.ErrorCount)
	}
	if task.LastError != "test error" {
		t.Errorf("LastError = %v, want 'test error'", task.LastError)
	}
	if task.RunCount != 1 {
		t.Errorf("RunCount = %d, want 1", task.RunCount)
	}

	task.Handler = func(ctx context.Context) error { return nil }
	s.executeTask(context.Background(), task)

	if task.LastError != "" {
		t.Error("LastError should be cleared on success")
	}
	if task.LastRun == nil {
		t.Error("LastRun should be set")
	}
}

func TestCalculateNextRun(t *testing.T) {
	s := New(DefaultConfig())

	t.Run("interval", func(t *testing.T) {
		next := s.calculateNextRun(Schedule{Type: ScheduleInterval, Interval: 10 * time.Minute})

		expected := time.Now().Add(10 * time.Minute)
		if next.Before(expected.Add(-time.Second)) || next.After(expected.Add(time.Second)) {
			t.Errorf("next = %v, want ~%v", next, expected)
		}
	})

	t.Run("daily", func(t *testing.T) {
		next := s.calculateNextRun(Schedule{Type: ScheduleDaily, At: "14:30"})

		if next.Hour() != 14 || next.Minute() != 30 {
			t.Errorf("next time = %02d:%02d, want 14:30", next.Hour(), next.Minute())
		}
		if next.Before(time.Now()) {
			t.Error("next run should be in the future")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		next := s.calculateNextRun(Schedule{Type: ScheduleType("unknown")})

		expected := time.Now().Add(time.Hour)
		if next.Before(expected.Add(-time.Second)) || next.After(expected.Add(time.Second)) {
			t.Errorf("next = %v, want ~%v", next, expected)
		}
	})
}

func TestTasksSnapshot(t *testing.T) {
	s := New(DefaultConfig())
	handler := func(ctx context.Context) error { return nil }

	s.Register(&Task{ID: "1", Handler: handler, Schedule: Schedule{Type: ScheduleInterval, Interval: time.Hour}})
	s.Register(&Task{ID: "2", Handler: handler, Schedule: Schedule{Type: ScheduleInterval, Interval: time.Hour}})

	tasks := s.Tasks()
	if len(tasks) != 2 {
		t.Errorf("got %d tasks, want 2", len(tasks))
	}
}
