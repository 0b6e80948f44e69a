package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
)

type fakeAPI struct {
	mu     sync.Mutex
	hits   map[string]int
	auth   []string
	server *httptest.Server
}

const detailJSON = `{"sha":"%s","files":[
 {"filename":"main.go","status":"modified","additions":3,"deletions":1,"patch":"@@ -1,2 +1,3 @@\n package main\n+\tfmt.Println()\n"},
 {"filename":"logo.png","status":"added","additions":0,"deletions":0}
]}`

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{hits: map[string]int{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octo/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("per_page") != "100" {
			http.Error(w, "missing per_page", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `[{"name":"hello","full_name":"octo/hello"},{"name":"tools","full_name":"octo/tools"}]`)
	})
	mux.HandleFunc("/users/ghost/repos", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	mux.HandleFunc("/repos/octo/hello/commits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
 {"sha":"aaaaaaaaaaaa","commit":{"message":"Add greeting\n\nLonger body"}},
 {"sha":"bbbbbbbbbbbb","commit":{"message":"Initial commit"}}
]`)
	})
	mux.HandleFunc("/repos/octo/hello/commits/", func(w http.ResponseWriter, r *http.Request) {
		sha := strings.TrimPrefix(r.URL.Path, "/repos/octo/hello/commits/")
		fmt.Fprintf(w, detailJSON, sha)
	})
	api.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.hits[r.URL.Path]++
		api.auth = append(api.auth, r.Header.Get("Authorization"))
		api.mu.Unlock()
		if r.Header.Get("Accept") != "application/vnd.github+json" {
			http.Error(w, "bad accept", http.StatusNotAcceptable)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(api.server.Close)
	return api
}

func (a *fakeAPI) count(path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hits[path]
}

func (a *fakeAPI) client(opts Options) *Client {
	opts.BaseURL = a.server.URL + "/"
	return NewClient(opts)
}

func TestRepositories(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(Options{Token: "secret"})
	records, err := c.Repositories(context.Background(), "octo")
	if err != nil {
		t.Fatalf("repositories: %v", err)
	}
	if len(records) != 2 || records[0].Locator != "octo/hello" || records[0].Label != "hello" {
		t.Fatalf("unexpected records %+v", records)
	}
	if api.auth[0] != "Bearer secret" {
		t.Fatalf("expected bearer token, got %q", api.auth[0])
	}
}

func TestRepositoriesStatusError(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(Options{})
	_, err := c.Repositories(context.Background(), "ghost")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound || statusErr.Message != "Not Found" {
		t.Fatalf("unexpected status error %+v", statusErr)
	}
	if api.auth[0] != "" {
		t.Fatalf("expected no authorization header without token")
	}
}

func TestRepositoriesRequiresAccount(t *testing.T) {
	c := NewClient(Options{})
	if _, err := c.Repositories(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty account")
	}
}

func TestCommitsLabelsWithShortSHAAndSubject(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(Options{})
	records, err := c.Commits(context.Background(), "octo/hello")
	if err != nil {
		t.Fatalf("commits: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(records))
	}
	if records[0].Label != "aaaaaaa - Add greeting" {
		t.Fatalf("unexpected label %q", records[0].Label)
	}
	if records[1].Locator != "octo/hello@bbbbbbbbbbbb" {
		t.Fatalf("unexpected locator %q", records[1].Locator)
	}
	if api.count("/repos/octo/hello/commits/aaaaaaaaaaaa") != 0 {
		t.Fatalf("expected no prefetch when disabled")
	}
}

func TestCommitsPrefetchesDetails(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(Options{Prefetch: 1})
	if _, err := c.Commits(context.Background(), "octo/hello"); err != nil {
		t.Fatalf("commits: %v", err)
	}
	c.warming.Wait()
	if api.count("/repos/octo/hello/commits/aaaaaaaaaaaa") != 1 {
		t.Fatalf("expected first commit prefetched")
	}
	if api.count("/repos/octo/hello/commits/bbbbbbbbbbbb") != 0 {
		t.Fatalf("expected prefetch limited to one commit")
	}
	if _, err := c.FileChanges(context.Background(), "octo/hello@aaaaaaaaaaaa"); err != nil {
		t.Fatalf("file changes: %v", err)
	}
	if api.count("/repos/octo/hello/commits/aaaaaaaaaaaa") != 1 {
		t.Fatalf("expected memoised detail to be reused")
	}
}

func TestFileChangesAlignsLabels(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(Options{})
	records, err := c.FileChanges(context.Background(), "octo/hello@abc")
	if err != nil {
		t.Fatalf("file changes: %v", err)
	}
	want := []string{
		"modified  +3  -1  main.go",
		"added     +0  -0  logo.png",
	}
	for i, w := range want {
		if records[i].Label != w {
			t.Fatalf("row %d: expected %q, got %q", i, w, records[i].Label)
		}
	}
	if records[0].Locator != "octo/hello@abc:main.go" {
		t.Fatalf("unexpected locator %q", records[0].Locator)
	}
}

func TestFileContentSharesCommitDetail(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(Options{})
	ctx := context.Background()
	if _, err := c.FileChanges(ctx, "octo/hello@abc"); err != nil {
		t.Fatalf("file changes: %v", err)
	}
	records, err := c.FileContent(ctx, "octo/hello@abc:main.go")
	if err != nil {
		t.Fatalf("file content: %v", err)
	}
	want := []string{"@@ -1,2 +1,3 @@", " package main", "+   fmt.Println()"}
	if len(records) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(records))
	}
	for i, w := range want {
		if records[i].Label != w || records[i].Locator != "" {
			t.Fatalf("line %d: expected leaf %q, got %+v", i, w, records[i])
		}
	}
	if api.count("/repos/octo/hello/commits/abc") != 1 {
		t.Fatalf("expected a single detail request, got %d", api.count("/repos/octo/hello/commits/abc"))
	}
	empty, err := c.FileContent(ctx, "octo/hello@abc:logo.png")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty content for binary file, got %v %v", empty, err)
	}
	if _, err := c.FileContent(ctx, "octo/hello@abc:missing.go"); err == nil {
		t.Fatalf("expected error for unknown file")
	}
}

func TestInvalidLocators(t *testing.T) {
	c := NewClient(Options{})
	ctx := context.Background()
	if _, err := c.Commits(ctx, "noslash"); err == nil {
		t.Fatalf("expected invalid repository locator")
	}
	if _, err := c.FileChanges(ctx, "octo/hello"); err == nil {
		t.Fatalf("expected invalid commit locator")
	}
	if _, err := c.FileContent(ctx, "octo/hello@abc"); err == nil {
		t.Fatalf("expected invalid file locator")
	}
}

func TestParseFileKeepsColonsInPath(t *testing.T) {
	ref, err := parseFile("o/r@sha:dir/a:b.txt")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ref.path != "dir/a:b.txt" || ref.commit.sha != "sha" || ref.commit.repo.name != "r" {
		t.Fatalf("unexpected ref %+v", ref)
	}
	if ref.String() != "o/r@sha:dir/a:b.txt" {
		t.Fatalf("round trip mismatch: %q", ref.String())
	}
}

func TestExpandTabs(t *testing.T) {
	if got := expandTabs("a\tb"); got != "a   b" {
		t.Fatalf("unexpected expansion %q", got)
	}
	if got := expandTabs("\t\tx"); got != "        x" {
		t.Fatalf("unexpected expansion %q", got)
	}
}

func TestSetDrivesProviderChain(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(Options{})
	set := c.Set("octo")
	ctx := context.Background()
	repos, err := set.Root.Root(ctx)
	if err != nil || len(repos) != 2 {
		t.Fatalf("root: %v %v", repos, err)
	}
	commits, err := set.Commits.Children(ctx, repos[0].Locator)
	if err != nil || len(commits) != 2 {
		t.Fatalf("commits: %v %v", commits, err)
	}
	files, err := set.Files.Children(ctx, commits[0].Locator)
	if err != nil || len(files) != 2 {
		t.Fatalf("files: %v %v", files, err)
	}
	lines, err := set.Content.Children(ctx, files[0].Locator)
	if err != nil || len(lines) != 3 {
		t.Fatalf("content: %v %v", lines, err)
	}
}

// gatedDetailServer serves commit details only once release is closed.
func gatedDetailServer(t *testing.T, release chan struct{}, started chan struct{}) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	var once sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/repos/octo/hello/commits":
			fmt.Fprint(w, `[{"sha":"aaaaaaaaaaaa","commit":{"message":"one"}}]`)
		case strings.HasPrefix(r.URL.Path, "/repos/octo/hello/commits/"):
			atomic.AddInt32(&hits, 1)
			once.Do(func() { close(started) })
			<-release
			fmt.Fprintf(w, detailJSON, strings.TrimPrefix(r.URL.Path, "/repos/octo/hello/commits/"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestCommitsDoesNotWaitForPrefetch(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	srv, _ := gatedDetailServer(t, release, started)
	c := NewClient(Options{BaseURL: srv.URL, Prefetch: 1})

	ctx, cancel := context.WithCancel(context.Background())
	records, err := c.Commits(ctx, "octo/hello")
	if err != nil || len(records) != 1 {
		t.Fatalf("commits: records=%v err=%v", records, err)
	}
	// The listing request is over; its context ending must not stop the warm-up.
	cancel()
	<-started
	close(release)
	c.warming.Wait()
	if _, ok := c.cachedDetail("octo/hello@aaaaaaaaaaaa"); !ok {
		t.Fatalf("expected prefetched detail to be memoised")
	}
}

func TestCancelledCallerDoesNotFailSharedDetailFetch(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	srv, hits := gatedDetailServer(t, release, started)
	c := NewClient(Options{BaseURL: srv.URL})

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.FileChanges(firstCtx, "octo/hello@aaaaaaaaaaaa")
		firstErr <- err
	}()
	<-started

	secondErr := make(chan error, 1)
	var second []nav.Record
	go func() {
		var err error
		second, err = c.FileChanges(context.Background(), "octo/hello@aaaaaaaaaaaa")
		secondErr <- err
	}()
	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled caller to see context.Canceled, got %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	if err := <-secondErr; err != nil {
		t.Fatalf("expected live caller to succeed, got %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("expected two file changes, got %d", len(second))
	}
	if n := atomic.LoadInt32(hits); n != 1 {
		t.Fatalf("expected one detail request, got %d", n)
	}
}

func TestDetailMemoIsBounded(t *testing.T) {
	c := NewClient(Options{})
	for i := 0; i < maxDetails+10; i++ {
		c.storeDetail(fmt.Sprintf("octo/hello@%d", i), commitDetail{})
	}
	if len(c.details) != maxDetails || len(c.order) != maxDetails {
		t.Fatalf("expected %d memoised details, got %d", maxDetails, len(c.details))
	}
	if _, ok := c.cachedDetail("octo/hello@0"); ok {
		t.Fatalf("expected oldest detail evicted")
	}
	if _, ok := c.cachedDetail(fmt.Sprintf("octo/hello@%d", maxDetails+9)); !ok {
		t.Fatalf("expected newest detail kept")
	}
}
