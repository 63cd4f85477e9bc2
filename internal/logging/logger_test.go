package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// decodeLines parses the JSON lines written by a zerolog logger.
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		entries = append(entries, m)
	}
	return entries
}

func newBufferLogger(level zerolog.Level) (*ZerologAdapter, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewZerologAdapter(zerolog.New(&buf).Level(level)), &buf
}

func TestFieldHelpers(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("range", "[0, 7]"), "range", "[0, 7]"},
		{"Int", Int("evicted", 3), "evicted", 3},
		{"Uint64", Uint64("index", 94), "index", uint64(94)},
		{"Float64", Float64("progress", 0.5), "progress", 0.5},
		{"Bool", Bool("cached", true), "cached", true},
		{"Duration", Duration("elapsed", time.Second), "elapsed", time.Second},
		{"Err", Err(boom), "error", boom},
		{"Err nil", Err(nil), "error", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.field.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.key)
			}
			if tt.field.Value != tt.value {
				t.Errorf("Value = %v, want %v", tt.field.Value, tt.value)
			}
		})
	}
}

func TestZerologAdapter_Levels(t *testing.T) {
	t.Parallel()
	logger, buf := newBufferLogger(zerolog.DebugLevel)

	logger.Info("generation finished", Uint64("terms", 8))
	logger.Debug("cache hit", String("range", "[0, 7]"))
	logger.Error("memory probe failed", errors.New("no such process"), String("probe", "rss"))

	entries := decodeLines(t, buf)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	want := []struct {
		level, msg, key string
		value           any
	}{
		{"info", "generation finished", "terms", float64(8)},
		{"debug", "cache hit", "range", "[0, 7]"},
		{"error", "memory probe failed", "probe", "rss"},
	}
	for i, w := range want {
		e := entries[i]
		if e["level"] != w.level || e["message"] != w.msg {
			t.Errorf("entry %d = %v, want level %q message %q", i, e, w.level, w.msg)
		}
		if e[w.key] != w.value {
			t.Errorf("entry %d %s = %v, want %v", i, w.key, e[w.key], w.value)
		}
	}
	if entries[2]["error"] != "no such process" {
		t.Errorf("error entry lost its cause: %v", entries[2])
	}
}

func TestZerologAdapter_LevelFilter(t *testing.T) {
	t.Parallel()
	logger, buf := newBufferLogger(zerolog.InfoLevel)

	logger.Debug("skipping index", Uint64("index", 94))
	if buf.Len() != 0 {
		t.Errorf("debug entry written at info level: %s", buf.String())
	}
}

func TestZerologAdapter_PrintfPrintln(t *testing.T) {
	t.Parallel()
	logger, buf := newBufferLogger(zerolog.InfoLevel)

	logger.Printf("served %d terms", 8)
	logger.Println("cache", "swept")

	entries := decodeLines(t, buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0]["message"] != "served 8 terms" {
		t.Errorf("Printf message = %v", entries[0]["message"])
	}
	if entries[1]["message"] != "cache swept" {
		t.Errorf("Println message = %v", entries[1]["message"])
	}
}

func TestZerologAdapter_FieldTypes(t *testing.T) {
	t.Parallel()
	logger, buf := newBufferLogger(zerolog.InfoLevel)

	logger.Info("fields",
		Int("int", -1),
		Field{Key: "int64", Value: int64(-2)},
		Float64("float", 1.5),
		Bool("bool", true),
		Duration("dur", 1500*time.Millisecond),
		Err(errors.New("e")),
		Field{Key: "other", Value: []uint64{1, 2}},
	)

	e := decodeLines(t, buf)[0]
	checks := map[string]any{
		"int":   float64(-1),
		"int64": float64(-2),
		"float": 1.5,
		"bool":  true,
		"dur":   float64(1500),
		"error": "e",
	}
	for k, v := range checks {
		if e[k] != v {
			t.Errorf("%s = %v (%T), want %v", k, e[k], e[k], v)
		}
	}
	if other, ok := e["other"].([]any); !ok || len(other) != 2 {
		t.Errorf("other = %v, want a two element array", e["other"])
	}
}

func TestNewLogger_Component(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewLogger(&buf, "server").Info("listening")

	e := decodeLines(t, &buf)[0]
	if e["component"] != "server" {
		t.Errorf("component = %v, want server", e["component"])
	}
	if _, ok := e["time"]; !ok {
		t.Error("entry has no timestamp")
	}
}

func TestNewNopLogger(t *testing.T) {
	t.Parallel()
	logger := NewNopLogger()
	logger.Info("ignored")
	logger.Error("ignored", errors.New("x"))
	logger.Printf("ignored %d", 1)
}

func TestNewDefaultLogger(t *testing.T) {
	t.Parallel()
	if NewDefaultLogger() == nil {
		t.Fatal("NewDefaultLogger returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
