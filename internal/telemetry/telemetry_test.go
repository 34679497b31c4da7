package telemetry

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/hartwell/gauge"
)

func TestNewLogger_RespectsLevel(t *testing.T) {
	logger := NewLogger(slog.LevelInfo)
	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}
	if logger.Handler().Enabled(nil, slog.LevelDebug) {
		t.Fatal("expected a Debug record to be filtered out at Info level")
	}
	if !logger.Handler().Enabled(nil, slog.LevelInfo) {
		t.Fatal("expected an Info record to pass at Info level")
	}
}

func TestHooks_OnDetermine_LogsVertexCountAndName(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	g := gauge.New(0, gauge.Const(10), gauge.Const(0), 0)
	g.SetHooks(Hooks(logger, "test-gauge"))

	_ = g.Goal() // forces a determination rebuild.

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("decoding log line: %v (buf=%q)", err, buf.String())
	}
	if rec["gauge"] != "test-gauge" {
		t.Fatalf("gauge tag = %v, want test-gauge", rec["gauge"])
	}
	if !strings.Contains(rec["msg"].(string), "determination") {
		t.Fatalf("msg = %v, want it to mention the determination rebuild", rec["msg"])
	}
}

func TestHooks_OnInvalidate_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ceiling := gauge.New(10, gauge.Const(100), gauge.Const(-100), 0)
	g := gauge.New(0, ceiling, gauge.Const(-100), 0)
	g.SetHooks(Hooks(logger, "dependent"))

	_ = g.Goal() // caches a determination before the limit mutates.
	buf.Reset()

	m, _ := gauge.NewMomentum(1, 0, gauge.Inf)
	if _, err := ceiling.AddMomentum(m); err != nil {
		t.Fatalf("AddMomentum: %v", err)
	}

	if !strings.Contains(buf.String(), "invalidated") {
		t.Fatalf("expected an invalidation log line, got %q", buf.String())
	}
}
