package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("debug msg", nil)
	l.Info("info msg", nil)
	l.Warn("warn msg", nil)
	l.Error("error msg", nil, errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2 (below-min levels discarded)", len(lines))
	}

	var e struct {
		Level   string `json:"level"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &e); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if e.Level != "ERROR" || e.Message != "error msg" || e.Error != "boom" {
		t.Errorf("entry = %+v", e)
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Info("source ingested", Fields{"source": "utah-go-users", "created": 3})

	var e struct {
		Fields map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if e.Fields["source"] != "utah-go-users" {
		t.Errorf("fields = %v", e.Fields)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"WARN", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("ingest.events.created")
	m.IncrCounter("ingest.events.created")
	m.SetGauge("workingset.size", 42)
	m.RecordTiming("scrape.fetch", 10*time.Millisecond)
	m.RecordTiming("scrape.fetch", 30*time.Millisecond)

	snap := m.Snapshot()

	counters := snap["counters"].(map[string]int64)
	if counters["ingest.events.created"] != 2 {
		t.Errorf("counter = %d, want 2", counters["ingest.events.created"])
	}
	gauges := snap["gauges"].(map[string]float64)
	if gauges["workingset.size"] != 42 {
		t.Errorf("gauge = %v, want 42", gauges["workingset.size"])
	}
	timings := snap["timings"].(map[string]map[string]interface{})
	stats := timings["scrape.fetch"]
	if stats["count"].(int) != 2 || stats["average"].(string) != "20ms" {
		t.Errorf("timing stats = %v", stats)
	}
}
