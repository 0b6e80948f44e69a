package testutil

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestAssertGoldenMatchesFile(t *testing.T) {
	AssertGolden(t, "sample.txt", "hello\nworld\n")
}

func TestEventuallyReturnsOnceConditionHolds(t *testing.T) {
	var calls atomic.Int32
	Eventually(t, time.Second, time.Millisecond, func() bool {
		return calls.Add(1) >= 3
	}, "")
	if calls.Load() != 3 {
		t.Fatalf("expected 3 polls, got %d", calls.Load())
	}
}
