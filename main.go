package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/app"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/config"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging/events"
	"golang.org/x/term"
)

var errNoTerminal = errors.New("repoview must be run from a terminal")

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	tty := probeTerminal(standardDescriptors())
	events.App.Start(startupTracePayload(runtimeCfg, tty))
	if err := requireTerminal(tty); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(runtimeCfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startupTracePayload bundles runtime context for trace logging. The API
// token never reaches the log.
func startupTracePayload(cfg config.Config, tty terminalInfo) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	redacted := cfg
	if redacted.App.Token != "" {
		redacted.App.Token = "set"
	}
	payload := map[string]interface{}{
		"argv":       cfg.Args,
		"flags":      flags,
		"config":     redacted,
		"configFile": cfg.File,
		"tty":        tty,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	return payload
}

type terminalInfo struct {
	Detected *terminalSize   `json:"detected,omitempty"`
	Probes   []terminalProbe `json:"probes"`
}

type terminalSize struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type terminalProbe struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

type descriptor struct {
	name string
	fd   int
}

func standardDescriptors() []descriptor {
	return []descriptor{
		{"stdin", int(os.Stdin.Fd())},
		{"stdout", int(os.Stdout.Fd())},
		{"stderr", int(os.Stderr.Fd())},
	}
}

// probeTerminal records which descriptors are terminals and the first size
// that can be read.
func probeTerminal(fds []descriptor) terminalInfo {
	results := make([]terminalProbe, 0, len(fds))
	var detected *terminalSize
	for _, d := range fds {
		entry := terminalProbe{Name: d.name}
		if d.fd >= 0 && term.IsTerminal(d.fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(d.fd); err == nil {
				entry.Width = width
				entry.Height = height
				if detected == nil {
					detected = &terminalSize{Source: d.name, Width: width, Height: height}
				}
			} else {
				entry.Error = err.Error()
			}
		}
		results = append(results, entry)
	}
	return terminalInfo{Detected: detected, Probes: results}
}

// requireTerminal fails unless both input and output are terminals.
func requireTerminal(info terminalInfo) error {
	seen := map[string]bool{}
	for _, p := range info.Probes {
		seen[p.Name] = p.IsTerminal
	}
	if !seen["stdin"] || !seen["stdout"] {
		return errNoTerminal
	}
	return nil
}
