package logger

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestHandler(buf *bytes.Buffer, format logFormat) (*structuredHandler, *asyncWriter) {
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	return newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	}), aw
}

func closeWriter(t *testing.T, aw *asyncWriter) {
	t.Helper()
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newTestHandler(buf, formatKV)
	ctx := WithRID(Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	log := slog.New(handler).With("component", "report")
	LogEvent(ctx, log, slog.LevelInfo, "report.dispatched",
		slog.String("status", "ok"),
		slog.String("reason", "closed"),
	)
	closeWriter(t, aw)

	tokens := strings.Split(strings.TrimSpace(buf.String()), " ")
	expected := []string{"ts=", "level=INFO", "component=report", "event=report.dispatched", "status=ok", "rid=rid-123", "update_id=42", "user_id=7", "chat_id=9"}
	if len(tokens) < len(expected) {
		t.Fatalf("unexpected token count: %d (%v)", len(tokens), tokens)
	}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newTestHandler(buf, formatJSON)
	ctx := WithRID(Background(), "rid-json")

	log := slog.New(handler).With("component", "report.dispatch")
	LogEvent(ctx, log, slog.LevelError, "delivery.failed",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
		slog.Duration("elapsed", 1500*time.Microsecond),
	)
	closeWriter(t, aw)

	line := strings.TrimSpace(buf.String())
	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"report.dispatch"`, `"event":"delivery.failed"`, `"status":"fail"`, `"rid":"rid-json"`, `"elapsed_ms":2`, `"err":"boom"`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		if idx == -1 || idx < pos {
			t.Fatalf("prefix %s not found in order within %s", pref, line)
		}
		pos = idx
	}
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	for _, format := range []logFormat{formatKV, formatJSON} {
		buf := &bytes.Buffer{}
		handler, aw := newTestHandler(buf, format)
		rawRID := "123:456:789"
		ctx := WithRID(Background(), rawRID)
		LogEvent(ctx, slog.New(handler), slog.LevelInfo, "rid.test")
		closeWriter(t, aw)

		line := strings.TrimSpace(buf.String())
		compact := CompactRID(rawRID)
		if compact != "3f.co.lx" {
			t.Fatalf("compact rid = %s", compact)
		}
		switch format {
		case formatKV:
			if !strings.Contains(line, "rid="+compact) || strings.Contains(line, "rid_full=") {
				t.Fatalf("unexpected kv rid rendering: %s", line)
			}
		case formatJSON:
			if !strings.Contains(line, `"rid":"`+compact+`"`) || !strings.Contains(line, `"rid_full":"`+rawRID+`"`) {
				t.Fatalf("unexpected json rid rendering: %s", line)
			}
		}
	}
}

func TestStructuredHandlerDropsBelowLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newTestHandler(buf, formatKV)
	slog.New(handler).Debug("noise")
	closeWriter(t, aw)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestSanitizeLimit(t *testing.T) {
	got := SanitizeLimit("a\x00b\u200bc\nd", 4)
	if got != "abc\n" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
	if SanitizeLimit("abc", 0) != "" {
		t.Fatal("zero limit must yield empty string")
	}
}

func TestRatioSampler(t *testing.T) {
	s := newRatioSampler(1, 3)
	var passed int
	for i := 0; i < 9; i++ {
		if s.Allow() {
			passed++
		}
	}
	if passed != 3 {
		t.Fatalf("passed = %d, want 3", passed)
	}
	s.Set(0, 0)
	if !s.Allow() {
		t.Fatal("disabled sampler must allow everything")
	}
	if n, d := parseRatioSpec("2/5"); n != 2 || d != 5 {
		t.Fatalf("parseRatioSpec(2/5) = %d/%d", n, d)
	}
	if n, d := parseRatioSpec("10"); n != 1 || d != 10 {
		t.Fatalf("parseRatioSpec(10) = %d/%d", n, d)
	}
}
