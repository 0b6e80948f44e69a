// Package testutil holds helpers shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// AssertGolden compares output with testdata/<name> relative to the calling
// package. Setting UPDATE_GOLDEN rewrites the file first.
func AssertGolden(t testing.TB, name, output string) {
	t.Helper()
	path := filepath.Join("testdata", name)
	if os.Getenv("UPDATE_GOLDEN") != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
			t.Fatalf("failed to update golden: %v", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden %s: %v", name, err)
	}
	if string(data) != output {
		t.Fatalf("output mismatch for %s\nexpected:\n%s\nactual:\n%s", name, string(data), output)
	}
}

// Eventually polls condition until it returns true or the timeout elapses.
func Eventually(t testing.TB, timeout, interval time.Duration, condition func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if condition() {
			return
		}
		if time.Now().After(deadline) {
			if msg == "" {
				msg = "condition not met within timeout"
			}
			t.Fatalf("%s", msg)
		}
		time.Sleep(interval)
	}
}
