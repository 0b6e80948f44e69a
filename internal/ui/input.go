package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/input"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging/events"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
)

var copyToClipboard = clipboard.WriteAll

var errNoConnector = errors.New("no account connector configured")

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch m.mode {
	case ModeAccount:
		return m.handleAccountKey(keyMsg)
	case ModeFind:
		return m.handleFindKey(keyMsg)
	}
	cmd := m.keys.Resolve(keyMsg)
	events.Input.Key(keyMsg.String(), cmd.String())
	switch cmd {
	case input.CmdQuit:
		m.cancelAll()
		events.App.Stop("quit")
		return tea.Quit
	case input.CmdConfirm:
		return m.confirm()
	case input.CmdFind:
		m.beginFind()
		return nil
	case input.CmdYank:
		m.yank()
		return nil
	case input.CmdHelp:
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.syncCapacity()
		return nil
	}
	if handled, _ := input.Apply(m.ctx, m.nav, cmd); handled {
		m.clearInfo()
	}
	return nil
}

func (m *Model) beginFind() {
	if m.nav.ActivePane().Len() == 0 {
		return
	}
	m.findOrigin, _ = m.nav.ActivePane().Selected()
	m.find.SetValue("")
	m.find.Focus()
	m.mode = ModeFind
	m.syncCapacity()
}

func (m *Model) endFind() {
	m.find.Blur()
	m.find.SetValue("")
	m.mode = ModeBrowse
	m.syncCapacity()
}

func (m *Model) handleFindKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.nav.JumpTo(m.findOrigin)
		m.endFind()
		return nil
	case tea.KeyEnter:
		m.endFind()
		return nil
	}
	var cmd tea.Cmd
	before := m.find.Value()
	m.find, cmd = m.find.Update(msg)
	if query := m.find.Value(); query != before {
		m.jumpToMatch(query)
	}
	return cmd
}

func (m *Model) jumpToMatch(query string) {
	pane := m.nav.ActivePane()
	idx := m.findOrigin
	if strings.TrimSpace(query) != "" {
		idx = nav.BestMatchIndex(pane.Items(), query)
	}
	events.Nav.Find(m.nav.Active(), query, idx)
	if idx < 0 {
		return
	}
	m.nav.JumpTo(idx)
}

func (m *Model) yank() {
	rec, ok := m.nav.ActivePane().SelectedRecord()
	if !ok {
		return
	}
	value := rec.Locator
	if value == "" {
		value = rec.Label
	}
	if err := copyToClipboard(value); err != nil {
		logging.Error(fmt.Errorf("copy to clipboard: %w", err))
		m.errMsg = "copy failed: " + err.Error()
		return
	}
	events.Nav.Yank(m.nav.Active(), value)
	m.setInfo("copied " + value)
}

func (m *Model) handleAccountKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		events.App.Stop("account prompt cancelled")
		return tea.Quit
	case tea.KeyEnter:
		return m.submitAccount()
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return cmd
}

func (m *Model) submitAccount() tea.Cmd {
	account := strings.TrimSpace(m.prompt.Value())
	if account == "" {
		m.errMsg = "enter an account name"
		return nil
	}
	if m.connect == nil {
		m.errMsg = errNoConnector.Error()
		return nil
	}
	n, err := m.connect(account)
	if err != nil {
		logging.Error(fmt.Errorf("connect %s: %w", account, err))
		m.errMsg = err.Error()
		return nil
	}
	m.account = account
	m.errMsg = ""
	m.prompt.Blur()
	m.attach(n)
	return m.loadRoot()
}
