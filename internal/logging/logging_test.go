package logging

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func withLogFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "repoview.log")
	Configure(path)
	t.Cleanup(func() {
		Configure("")
		SetTraceEnabled(false)
	})
	return path
}

func TestTraceWritesJSONLineWhenEnabled(t *testing.T) {
	path := withLogFile(t)
	Trace("ignored", nil)
	SetTraceEnabled(true)
	Trace("fetch.done", map[string]interface{}{"pane": 1})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected a single trace line, got %d", len(lines))
	}
	var entry struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry.Event != "fetch.done" || entry.Payload["pane"] != float64(1) {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestErrorAppendsToLog(t *testing.T) {
	path := withLogFile(t)
	Error(nil)
	Error(errors.New("fetch failed"))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "fetch failed") {
		t.Fatalf("expected error in log, got %q", string(data))
	}
}

func TestConcurrentWritersKeepLinesWhole(t *testing.T) {
	path := withLogFile(t)
	SetTraceEnabled(true)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			Trace("refresh.applied", map[string]interface{}{"pane": i})
		}(i)
	}
	wg.Wait()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !json.Valid([]byte(line)) {
			t.Fatalf("interleaved line %q", line)
		}
	}
	if Path() != path {
		t.Fatalf("expected path %q, got %q", path, Path())
	}
}
