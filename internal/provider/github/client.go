// Package github fetches repositories, commits and file changes from the
// GitHub REST API and exposes them as navigator providers.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL = "https://api.github.com"
	defaultTimeout = 15 * time.Second
	perPage        = 100
	prefetchLimit  = 4
	// maxDetails caps the memoised commit details; the oldest are evicted.
	maxDetails = 256
)

// StatusError reports a non-2xx API response.
type StatusError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, e.Message)
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Token   string
	// Prefetch is how many commit details to warm after a commit listing.
	Prefetch   int
	HTTPClient *http.Client
}

// Client talks to the GitHub REST API. Commit details are memoised so the
// file change and file content levels share one request per commit.
type Client struct {
	baseURL  string
	token    string
	prefetch int
	http     *http.Client

	mu      sync.Mutex
	details map[string]commitDetail
	order   []string
	group   singleflight.Group
	warming sync.WaitGroup
}

// NewClient returns a client for opts.
func NewClient(opts Options) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:  base,
		token:    strings.TrimSpace(opts.Token),
		prefetch: opts.Prefetch,
		http:     hc,
		details:  make(map[string]commitDetail),
	}
}

type repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

type commitSummary struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
	} `json:"commit"`
}

type fileChange struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Patch     string `json:"patch"`
}

type commitDetail struct {
	SHA   string       `json:"sha"`
	Files []fileChange `json:"files"`
}

func (c *Client) repositories(ctx context.Context, account string) ([]repository, error) {
	var repos []repository
	path := fmt.Sprintf("/users/%s/repos?per_page=%d", url.PathEscape(account), perPage)
	if err := c.get(ctx, path, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) commits(ctx context.Context, repo repoRef) ([]commitSummary, error) {
	var commits []commitSummary
	path := fmt.Sprintf("/repos/%s/%s/commits?per_page=%d", url.PathEscape(repo.owner), url.PathEscape(repo.name), perPage)
	if err := c.get(ctx, path, &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

func (c *Client) commitDetail(ctx context.Context, ref commitRef) (commitDetail, error) {
	key := ref.String()
	if detail, ok := c.cachedDetail(key); ok {
		return detail, nil
	}
	ch := c.group.DoChan(key, func() (interface{}, error) {
		// Shared by every caller of key, so no single caller may cancel it.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultTimeout)
		defer cancel()
		var d commitDetail
		path := fmt.Sprintf("/repos/%s/%s/commits/%s", url.PathEscape(ref.repo.owner), url.PathEscape(ref.repo.name), url.PathEscape(ref.sha))
		if err := c.get(fctx, path, &d); err != nil {
			return commitDetail{}, err
		}
		c.storeDetail(key, d)
		return d, nil
	})
	select {
	case <-ctx.Done():
		return commitDetail{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return commitDetail{}, res.Err
		}
		return res.Val.(commitDetail), nil
	}
}

func (c *Client) cachedDetail(key string) (commitDetail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.details[key]
	return d, ok
}

func (c *Client) storeDetail(key string, d commitDetail) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.details[key]; !ok {
		c.order = append(c.order, key)
	}
	c.details[key] = d
	for len(c.order) > maxDetails {
		delete(c.details, c.order[0])
		c.order = c.order[1:]
	}
}

// warm fetches up to c.prefetch commit details in the background so the
// listing is not held back. Failures are left for the foreground request to
// report.
func (c *Client) warm(ctx context.Context, refs []commitRef) {
	if c.prefetch <= 0 || len(refs) == 0 {
		return
	}
	if len(refs) > c.prefetch {
		refs = refs[:c.prefetch]
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultTimeout)
	c.warming.Add(1)
	go func() {
		defer c.warming.Done()
		defer cancel()
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(prefetchLimit)
		for _, ref := range refs {
			g.Go(func() error {
				_, err := c.commitDetail(gctx, ref)
				return err
			})
		}
		_ = g.Wait()
	}()
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Message string `json:"message"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(data, &body)
		return &StatusError{StatusCode: resp.StatusCode, URL: endpoint, Message: body.Message}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}
