package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/backend"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging/events"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/ui/command"
)

type inflight struct {
	seq    uint64
	cancel context.CancelFunc
}

// loadRoot supersedes every outstanding fetch and repopulates the first pane.
func (m *Model) loadRoot() tea.Cmd {
	if m.nav == nil {
		return nil
	}
	req := m.nav.BeginRoot()
	return m.startFetch(req)
}

// confirm starts the fetch for the pane right of the active one. The
// navigator does not move until the result arrives.
func (m *Model) confirm() tea.Cmd {
	pane := m.nav.ActivePane()
	rec, ok := pane.SelectedRecord()
	if !ok {
		return nil
	}
	req, ok := m.nav.BeginConfirm()
	if !ok {
		return nil
	}
	events.Nav.Confirm(m.nav.Active(), rec.Locator)
	m.errMsg = ""
	return m.startFetch(req)
}

func (m *Model) startFetch(req nav.FetchRequest) tea.Cmd {
	for target, f := range m.cancels {
		if target >= req.Target {
			f.cancel()
			delete(m.cancels, target)
		}
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancels[req.Target] = inflight{seq: req.Seq, cancel: cancel}
	m.loadingTitle = req.Title
	cmds := []tea.Cmd{m.bus.Fetch(ctx, req)}
	if !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleFetchedMsg(msg tea.Msg) tea.Cmd {
	fetched, ok := msg.(command.FetchedMsg)
	if !ok || m.nav == nil {
		return nil
	}
	res := fetched.Result
	req := res.Request
	if f, ok := m.cancels[req.Target]; ok && f.seq == req.Seq {
		f.cancel()
		delete(m.cancels, req.Target)
	}
	from := m.nav.Active()
	if !m.nav.Complete(res) {
		events.Fetch.Discard(req.Target, req.Locator, req.Seq)
		return nil
	}
	if from != m.nav.Active() {
		events.Nav.ActivePane(from, m.nav.Active())
	}
	if res.Err != nil {
		logging.Error(fmt.Errorf("load %s: %w", req.Title, res.Err))
		m.errMsg = fmt.Sprintf("%s: %v", req.Title, res.Err)
		return nil
	}
	m.errMsg = ""
	if req.Target > 0 {
		m.refresher.Track(backend.Target{Pane: req.Target, Locator: req.Locator})
	}
	return nil
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) tea.Cmd {
	if m.nav == nil || !m.nav.Loading() {
		m.spinning = false
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

// cancelAll aborts every outstanding fetch. It runs when the program exits.
func (m *Model) cancelAll() {
	for target, f := range m.cancels {
		f.cancel()
		delete(m.cancels, target)
	}
}
