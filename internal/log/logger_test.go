package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := RequestID(ctx); got != "" {
		t.Fatalf("empty context should have no request ID, got %q", got)
	}

	ctx = WithRequestID(ctx, "req_abc123")
	if got := RequestID(ctx); got != "req_abc123" {
		t.Fatalf("RequestID = %q", got)
	}
}

func TestContextHandlerAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWriter(&buf, slog.LevelInfo)

	ctx := WithRequestID(context.Background(), "req_abc123")
	logger.InfoContext(ctx, "Expense created", "id", "x")

	line := buf.String()
	if !strings.Contains(line, "request_id=req_abc123") {
		t.Fatalf("log line missing request id: %s", line)
	}
}

func TestContextHandlerWithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWriter(&buf, slog.LevelInfo)

	logger.Info("startup")
	if strings.Contains(buf.String(), "request_id") {
		t.Fatalf("unexpected request id attr: %s", buf.String())
	}
}

func TestSetupRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWriter(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn line missing: %s", out)
	}
}
