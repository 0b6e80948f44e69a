package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/app"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/provider"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	// File is the config file that was consulted, empty when none was found.
	File  string
	Flags map[string]string
	Args  []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

// FileOptions mirrors the optional YAML config file. Every field is optional.
type FileOptions struct {
	Depth    int    `yaml:"depth"`
	Driver   string `yaml:"driver"`
	Token    string `yaml:"token"`
	APIURL   string `yaml:"api_url"`
	Cache    string `yaml:"cache"`
	CacheTTL string `yaml:"cache_ttl"`
	Refresh  string `yaml:"refresh"`
	Prefetch int    `yaml:"prefetch"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Footer   *bool  `yaml:"footer"`
	Trace    *bool  `yaml:"trace"`
	LogFile  string `yaml:"log_file"`
}

const (
	envConfig   = "REPOVIEW_CONFIG"
	envDepth    = "REPOVIEW_DEPTH"
	envDriver   = "REPOVIEW_DRIVER"
	envToken    = "REPOVIEW_TOKEN"
	envGHToken  = "GITHUB_TOKEN"
	envAPIURL   = "REPOVIEW_API_URL"
	envCache    = "REPOVIEW_CACHE"
	envCacheTTL = "REPOVIEW_CACHE_TTL"
	envRefresh  = "REPOVIEW_REFRESH"
	envPrefetch = "REPOVIEW_PREFETCH"
	envWidth    = "REPOVIEW_WIDTH"
	envHeight   = "REPOVIEW_HEIGHT"
	envFooter   = "REPOVIEW_FOOTER"
	envTrace    = "REPOVIEW_TRACE"
	envLogFile  = "REPOVIEW_LOG_FILE"
)

const (
	DriverTea   = app.DriverTea
	DriverTcell = app.DriverTcell

	// CacheOff disables the record cache when given as the cache path.
	CacheOff = "off"
)

const (
	defaultCacheTTL = 10 * time.Minute
	defaultRefresh  = 60 * time.Second
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Values resolve
// in order flags, environment, config file, built-in defaults.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	path, explicit := configPath(args, env)
	file, found, err := readFile(path)
	if err != nil {
		return Config{}, err
	}
	if explicit && !found {
		return Config{}, fmt.Errorf("config file %s not found", path)
	}
	fileTTL, err := fileDuration("cache_ttl", file.CacheTTL, defaultCacheTTL)
	if err != nil {
		return Config{}, err
	}
	fileRefresh, err := fileDuration("refresh", file.Refresh, defaultRefresh)
	if err != nil {
		return Config{}, err
	}

	flags := flag.NewFlagSet("repoview", flag.ContinueOnError)
	flags.SetOutput(new(strings.Builder))

	flags.String("config", path, "path to the YAML config file")
	depth := flags.Int("depth", envOrInt(env, envDepth, orInt(file.Depth, provider.MaxDepth)), "number of panes (3 or 4)")
	driver := flags.String("driver", envOrDefault(env, envDriver, orString(file.Driver, DriverTea)), "terminal driver: tea or tcell")
	token := flags.String("token", tokenDefault(env, file.Token), "GitHub API token (GITHUB_TOKEN is also honoured)")
	apiURL := flags.String("api-url", envOrDefault(env, envAPIURL, file.APIURL), "GitHub API base URL")
	cachePath := flags.String("cache", envOrDefault(env, envCache, orString(file.Cache, defaultCachePath(env))), "record cache database path, or \"off\"")
	cacheTTL := flags.Duration("cache-ttl", envOrDuration(env, envCacheTTL, fileTTL), "how long cached lists are served without refetching")
	refresh := flags.Duration("refresh", envOrDuration(env, envRefresh, fileRefresh), "background refresh interval for the deepest pane (0 disables)")
	prefetch := flags.Int("prefetch", envOrInt(env, envPrefetch, file.Prefetch), "commit details to warm after listing commits")
	width := flags.Int("width", envOrInt(env, envWidth, file.Width), "desired viewport width in cells (0 uses terminal width)")
	height := flags.Int("height", envOrInt(env, envHeight, file.Height), "desired viewport height in rows (0 uses terminal height)")
	footer := flags.Bool("footer", envOrBool(env, envFooter, orBool(file.Footer, false)), "show the key help footer")
	trace := flags.Bool("trace", envOrBool(env, envTrace, orBool(file.Trace, false)), "enable verbose JSON trace logging")
	logFile := flags.String("log-file", envOrDefault(env, envLogFile, file.LogFile), "path to the log file")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	if flags.NArg() > 1 {
		return Config{}, fmt.Errorf("expected at most one account argument, got %d", flags.NArg())
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	cache := strings.TrimSpace(*cachePath)
	if strings.EqualFold(cache, CacheOff) {
		cache = ""
	}
	resolvedFile := ""
	if found {
		resolvedFile = path
	}

	cfg := Config{
		App: app.Config{
			Account:    strings.TrimSpace(flags.Arg(0)),
			Depth:      *depth,
			Driver:     strings.ToLower(strings.TrimSpace(*driver)),
			Token:      *token,
			APIURL:     *apiURL,
			CachePath:  cache,
			CacheTTL:   *cacheTTL,
			Refresh:    *refresh,
			Prefetch:   *prefetch,
			Width:      *width,
			Height:     *height,
			ShowFooter: *footer,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		File: resolvedFile,
		Flags: map[string]string{
			"config":   path,
			"depth":    strconv.Itoa(*depth),
			"driver":   *driver,
			"token":    maskToken(*token),
			"apiURL":   *apiURL,
			"cache":    *cachePath,
			"cacheTTL": cacheTTL.String(),
			"refresh":  refresh.String(),
			"prefetch": strconv.Itoa(*prefetch),
			"width":    strconv.Itoa(*width),
			"height":   strconv.Itoa(*height),
			"footer":   strconv.FormatBool(*footer),
			"trace":    strconv.FormatBool(*trace),
			"logFile":  *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// configPath finds the config file named by --config or the environment,
// falling back to the XDG location. explicit reports a user-supplied path.
func configPath(args []string, env map[string]string) (path string, explicit bool) {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value, true
		}
		if i+1 < len(args) {
			return args[i+1], true
		}
	}
	if v := strings.TrimSpace(env[envConfig]); v != "" {
		return v, true
	}
	return filepath.Join(xdgDir(env, "XDG_CONFIG_HOME", ".config"), "repoview", "config.yaml"), false
}

func defaultCachePath(env map[string]string) string {
	return filepath.Join(xdgDir(env, "XDG_CACHE_HOME", ".cache"), "repoview", "cache.db")
}

func xdgDir(env map[string]string, key, fallback string) string {
	if v := strings.TrimSpace(env[key]); v != "" {
		return v
	}
	if home := strings.TrimSpace(env["HOME"]); home != "" {
		return filepath.Join(home, fallback)
	}
	return fallback
}

// readFile loads path if present. A missing file yields zero values.
func readFile(path string) (FileOptions, bool, error) {
	var file FileOptions
	if path == "" {
		return file, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return file, false, nil
		}
		return file, false, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, false, fmt.Errorf("parse config %s: %w", path, err)
	}
	return file, true, nil
}

func fileDuration(name, value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("config %s: %w", name, err)
	}
	return d, nil
}

func tokenDefault(env map[string]string, fromFile string) string {
	if v := strings.TrimSpace(env[envToken]); v != "" {
		return v
	}
	if v := strings.TrimSpace(env[envGHToken]); v != "" {
		return v
	}
	return fromFile
}

func maskToken(token string) string {
	if token == "" {
		return ""
	}
	return "set"
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

func orInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

func orString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func orBool(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects option combinations the application cannot run with.
func Validate(cfg Config) error {
	a := cfg.App
	if a.Depth < provider.MinDepth || a.Depth > provider.MaxDepth {
		return fmt.Errorf("depth must be %d or %d (got %d)", provider.MinDepth, provider.MaxDepth, a.Depth)
	}
	switch a.Driver {
	case DriverTea, DriverTcell:
	default:
		return fmt.Errorf("driver must be %q or %q (got %q)", DriverTea, DriverTcell, a.Driver)
	}
	if a.Driver == DriverTcell && a.Account == "" {
		return errors.New("the tcell driver needs an account argument")
	}
	if a.CacheTTL < 0 {
		return fmt.Errorf("cache-ttl must be >= 0 (got %s)", a.CacheTTL)
	}
	if a.Refresh < 0 {
		return fmt.Errorf("refresh must be >= 0 (got %s)", a.Refresh)
	}
	if a.Prefetch < 0 {
		return fmt.Errorf("prefetch must be >= 0 (got %d)", a.Prefetch)
	}
	return nil
}
