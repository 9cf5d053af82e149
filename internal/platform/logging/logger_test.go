package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/trace"
)

func TestJSONLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(LevelInfo, &buf).Named("sync")

	logger.Info("games fetched", "season", "2024/1", "count", 12, "error", errors.New("partial"))
	logger.Debug("dropped")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}

	var got map[string]any
	if err := sonic.UnmarshalString(lines[0], &got); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if got["msg"] != "games fetched" || got["component"] != "sync" {
		t.Fatalf("unexpected entry: %v", got)
	}
	if got["count"] != float64(12) || got["error"] != "partial" {
		t.Fatalf("unexpected fields: %v", got)
	}
}

func TestContextLoggerAddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(LevelDebug, &buf)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "feed reconstructed", "gamePk", 745527)

	if !strings.Contains(buf.String(), `"trace_id":"4bf92f3577b34da6a3ce929d0e0e4736"`) {
		t.Fatalf("missing trace id: %s", buf.String())
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	if logger.With("k", "v") == nil {
		t.Fatalf("expected non-nil derived logger")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": LevelDebug, "WARN": LevelWarn, "error": LevelError, "": LevelInfo, "x": LevelInfo}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q)=%v want %v", input, got, want)
		}
	}
}
