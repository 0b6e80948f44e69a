package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/backend"
)

func waitForRefreshEvent(r *backend.Refresher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-r.Events()
		if !ok {
			return refreshDoneMsg{}
		}
		return refreshEventMsg{event: evt}
	}
}

type refreshEventMsg struct {
	event backend.Event
}

type refreshDoneMsg struct{}

func (m *Model) handleRefreshEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(refreshEventMsg)
	if !ok {
		return nil
	}
	if m.dispatcher != nil {
		res := m.dispatcher.Handle(eventMsg.event)
		if res.Err != nil {
			m.errMsg = "refresh failed: " + res.Err.Error()
		}
	}
	if m.refresher != nil {
		return waitForRefreshEvent(m.refresher)
	}
	return nil
}

func (m *Model) handleRefreshDoneMsg(tea.Msg) tea.Cmd {
	m.refresher = nil
	return nil
}
