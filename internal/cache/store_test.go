package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func openTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	logging.Configure(filepath.Join(t.TempDir(), "repoview.log"))
	t.Cleanup(func() { logging.Configure("") })
	s, err := Open(filepath.Join(t.TempDir(), "cache", "records.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	s.now = clock.Now
	return s, clock
}

func sample(labels ...string) []nav.Record {
	out := make([]nav.Record, len(labels))
	for i, l := range labels {
		out[i] = nav.Record{Locator: "loc/" + l, Label: l}
	}
	return out
}

func TestStoreRoundTripPreservesOrder(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	key := Key("Commits", "octo/hello")
	if key != "Commits|octo/hello" {
		t.Fatalf("unexpected key %q", key)
	}
	if err := s.Save(ctx, key, sample("c", "a", "b")); err != nil {
		t.Fatalf("save: %v", err)
	}
	records, ok, err := s.Load(ctx, key, time.Minute)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if len(records) != 3 || records[0].Label != "c" || records[2].Locator != "loc/b" {
		t.Fatalf("unexpected records %+v", records)
	}
}

func TestStoreMissAndExpiry(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()
	if _, ok, err := s.Load(ctx, "missing", time.Minute); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := s.Save(ctx, "k", sample("a")); err != nil {
		t.Fatalf("save: %v", err)
	}
	clock.now = clock.now.Add(2 * time.Minute)
	if _, ok, _ := s.Load(ctx, "k", time.Minute); ok {
		t.Fatalf("expected stale entry to miss")
	}
	if _, ok, _ := s.Load(ctx, "k", 0); !ok {
		t.Fatalf("expected zero max age to accept any entry")
	}
}

func TestStoreSaveReplacesWholesale(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	_ = s.Save(ctx, "k", sample("a", "b", "c"))
	if err := s.Save(ctx, "k", sample("z")); err != nil {
		t.Fatalf("save: %v", err)
	}
	records, _, _ := s.Load(ctx, "k", 0)
	if len(records) != 1 || records[0].Label != "z" {
		t.Fatalf("expected replaced list, got %+v", records)
	}
	if err := s.Save(ctx, "k", nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	records, ok, _ := s.Load(ctx, "k", 0)
	if !ok || len(records) != 0 {
		t.Fatalf("expected cached empty list, got ok=%v records=%v", ok, records)
	}
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Save(context.Background(), "k", sample("a")); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = s.Close()
	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, ok, _ := s.Load(context.Background(), "k", 0); !ok {
		t.Fatalf("expected entry after reopen")
	}
}
