package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "json")
	logger.Info("hidden")
	logger.Warn("shown", "table", "units")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"table":"units"`) {
		t.Errorf("output = %s, want JSON attribute", out)
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(New(&buf, "info", "text"))
	defer slog.SetDefault(prev)

	runID := uuid.MustParse("0b7e4a5c-1f0e-4d8e-9a34-5a9b3c2d1e0f")
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	ctx = WithRun(ctx, runID)

	FromContext(ctx).Info("hello")
	out := buf.String()
	if !strings.Contains(out, "request_id=req-1") {
		t.Errorf("output = %s, want request_id", out)
	}
	if !strings.Contains(out, "run_id="+runID.String()) {
		t.Errorf("output = %s, want run_id", out)
	}
}

func TestRunID(t *testing.T) {
	if got := RunID(context.Background()); got != uuid.Nil {
		t.Errorf("RunID() = %v, want nil UUID", got)
	}
	id := NewRunID()
	if got := RunID(WithRun(context.Background(), id)); got != id {
		t.Errorf("RunID() = %v, want %v", got, id)
	}
}
