package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/backend"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/cache"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/canvas"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/console"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/input"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/provider"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/provider/github"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/ui"
)

const (
	DriverTea   = "tea"
	DriverTcell = "tcell"

	refreshThrottle = 2 * time.Second
)

// Config describes user-provided application options.
type Config struct {
	Account    string
	Depth      int
	Driver     string
	Token      string
	APIURL     string
	CachePath  string
	CacheTTL   time.Duration
	Refresh    time.Duration
	Prefetch   int
	Width      int
	Height     int
	ShowFooter bool
}

// Run wires the GitHub client, record cache and refresher, then hands control
// to the configured driver until the user quits.
func Run(cfg Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := openCache(cfg.CachePath)
	if store != nil {
		defer store.Close()
	}
	sess := newSession(cfg, store, github.NewClient(github.Options{
		BaseURL:  cfg.APIURL,
		Token:    cfg.Token,
		Prefetch: cfg.Prefetch,
	}))

	switch cfg.Driver {
	case DriverTcell:
		return runConsole(ctx, cfg, sess)
	default:
		return runTea(ctx, cfg, sess)
	}
}

func runTea(ctx context.Context, cfg Config, sess *session) error {
	refresher := sess.refresher(cfg.Refresh, nil)
	defer refresher.Stop()

	opts := ui.Options{
		Account:    cfg.Account,
		Connect:    sess.connect,
		Refresher:  refresher,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Context:    ctx,
	}
	if cfg.Account != "" {
		n, err := sess.connect(cfg.Account)
		if err != nil {
			return err
		}
		opts.Navigator = n
	}
	program := tea.NewProgram(ui.NewModel(opts), tea.WithAltScreen())
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func runConsole(ctx context.Context, cfg Config, sess *session) error {
	n, err := sess.connect(cfg.Account)
	if err != nil {
		return err
	}
	screen, err := canvas.OpenScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer screen.Close()

	refresher := sess.refresher(cfg.Refresh, screen.Wake)
	defer refresher.Stop()

	return console.New(n, screen, input.DefaultKeyMap(), refresher).Run(ctx)
}

// openCache opens the record cache. The application runs uncached when the
// path is empty or the database cannot be opened.
func openCache(path string) *cache.Store {
	if path == "" {
		return nil
	}
	store, err := cache.Open(path)
	if err != nil {
		logging.Error(fmt.Errorf("open cache: %w", err))
		return nil
	}
	return store
}

// session builds navigator chains for an account and serves background
// refreshes from the same cached providers.
type session struct {
	client *github.Client
	store  *cache.Store
	ttl    time.Duration
	depth  int

	mu     sync.Mutex
	levels []*cache.Provider
}

func newSession(cfg Config, store *cache.Store, client *github.Client) *session {
	return &session{client: client, store: store, ttl: cfg.CacheTTL, depth: cfg.Depth}
}

func (s *session) connect(account string) (*nav.Navigator, error) {
	set := s.client.Set(account)
	levels := []*cache.Provider{
		cache.WrapRoot(s.store, provider.Titles[0], account, set.Root, s.ttl),
		cache.Wrap(s.store, provider.Titles[1], set.Commits, s.ttl),
		cache.Wrap(s.store, provider.Titles[2], set.Files, s.ttl),
		cache.Wrap(s.store, provider.Titles[3], set.Content, s.ttl),
	}
	n, err := provider.New(provider.Set{
		Root:    levels[0],
		Commits: levels[1],
		Files:   levels[2],
		Content: levels[3],
	}, s.depth)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.levels = levels
	s.mu.Unlock()
	return n, nil
}

// fetch re-reads the list shown in pane, bypassing cache freshness.
func (s *session) fetch(ctx context.Context, pane int, locator string) ([]nav.Record, error) {
	s.mu.Lock()
	levels := s.levels
	s.mu.Unlock()
	if pane < 0 || pane >= len(levels) {
		return nil, fmt.Errorf("refresh pane %d: %w", pane, nav.ErrNoProvider)
	}
	if pane == 0 {
		return levels[0].RefreshRoot(ctx)
	}
	return levels[pane].Refresh(ctx, locator)
}

// refresher returns nil when background refresh is disabled.
func (s *session) refresher(interval time.Duration, notify func()) *backend.Refresher {
	if interval <= 0 {
		return nil
	}
	return backend.NewRefresher(s.fetch, backend.Options{
		Interval: interval,
		Throttle: refreshThrottle,
		Notify:   notify,
	})
}
