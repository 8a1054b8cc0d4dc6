package progress_test

import (
	"testing"

	"github.com/p-n-ai/cogni/internal/progress"
)

func TestMemoryEventLogger_LogEvent(t *testing.T) {
	logger := progress.NewMemoryEventLogger()

	err := logger.LogEvent(progress.Event{
		CurriculumID: "cur-1",
		Type:         progress.EventToggled,
		Key:          "module-0",
		Seq:          1,
		Data: map[string]any{
			"completed": true,
		},
	})
	if err != nil {
		t.Fatalf("LogEvent() error = %v", err)
	}

	events := logger.Events()
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Type != progress.EventToggled {
		t.Errorf("Type = %q, want %s", events[0].Type, progress.EventToggled)
	}
	if events[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestMemoryEventLogger_RequiresType(t *testing.T) {
	logger := progress.NewMemoryEventLogger()
	if err := logger.LogEvent(progress.Event{CurriculumID: "cur-1"}); err == nil {
		t.Fatal("expected error for empty event type")
	}
	if len(logger.Events()) != 0 {
		t.Error("rejected event should not be recorded")
	}
}

func TestMemoryEventLogger_OfType(t *testing.T) {
	logger := progress.NewMemoryEventLogger()
	for _, typ := range []string{progress.EventToggled, progress.EventPersisted, progress.EventToggled} {
		_ = logger.LogEvent(progress.Event{CurriculumID: "cur-1", Type: typ})
	}

	if got := len(logger.OfType(progress.EventToggled)); got != 2 {
		t.Errorf("OfType(toggled) = %d, want 2", got)
	}
	if got := len(logger.OfType(progress.EventReverted)); got != 0 {
		t.Errorf("OfType(reverted) = %d, want 0", got)
	}
}

func TestPostgresEventLogger_LogEvent_NilPool(t *testing.T) {
	logger := progress.NewPostgresEventLogger(nil)

	err := logger.LogEvent(progress.Event{
		CurriculumID: "cur-1",
		Type:         progress.EventToggled,
	})
	if err == nil {
		t.Fatal("expected error for nil pool")
	}

	if _, err := logger.History(t.Context(), "cur-1"); err == nil {
		t.Fatal("expected error for nil pool")
	}
}
