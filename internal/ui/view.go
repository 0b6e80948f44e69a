package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/canvas"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging/events"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/render"
	"github.com/muesli/reflow/truncate"
)

const minGridRows = render.ReservedRows + 1

// View implements tea.Model.
func (m *Model) View() string {
	width, height := m.size()
	if m.mode == ModeAccount || m.nav == nil {
		return m.viewAccount(width)
	}
	lines := []string{styles.Header.Render(fit(m.breadcrumb(), width))}

	rows := m.gridRows()
	m.grid.Resize(rows, width)
	render.Render(m.nav, m.grid)
	body := strings.Split(m.grid.Render(paint), "\n")
	// The grid's reserved bottom row carries the status line.
	body[len(body)-1] = m.statusLine(width)
	lines = append(lines, body...)

	if m.mode == ModeFind {
		lines = append(lines, ansi.Truncate(m.find.View(), width, "…"))
	}
	if footer := m.footer(width); footer != "" {
		lines = append(lines, footer)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewAccount(width int) string {
	lines := []string{
		styles.Header.Render(fit("repoview", width)),
		ansi.Truncate(m.prompt.View(), width, "…"),
	}
	if m.errMsg != "" {
		lines = append(lines, styles.Error.Render(fit(m.errMsg, width)))
	}
	return strings.Join(lines, "\n")
}

func paint(attr canvas.Attr, text string) string {
	if attr == canvas.AttrInverted {
		return styles.Inverted.Render(text)
	}
	return styles.Item.Render(text)
}

func (m *Model) breadcrumb() string {
	parts := make([]string, 0, 2)
	if m.account != "" {
		parts = append(parts, m.account)
	}
	if src := m.nav.ActivePane().Source(); src != "" {
		parts = append(parts, src)
	}
	if len(parts) == 0 {
		return m.nav.ActivePane().Title()
	}
	return strings.Join(parts, " › ")
}

func (m *Model) statusLine(width int) string {
	if m.nav.Loading() {
		text := fmt.Sprintf("%s loading %s…", m.spinner.View(), m.loadingTitle)
		return ansi.Truncate(text, width, "…")
	}
	if m.errMsg != "" {
		return styles.Error.Render(fit(m.errMsg, width))
	}
	if info := m.currentInfo(); info != "" {
		return styles.Info.Render(fit(info, width))
	}
	pane := m.nav.ActivePane()
	pos := fmt.Sprintf("%s  0/0", pane.Title())
	if sel, ok := pane.Selected(); ok {
		pos = fmt.Sprintf("%s  %d/%d", pane.Title(), sel+1, pane.Len())
	}
	return styles.Footer.Render(fit(pos, width))
}

func (m *Model) footer(width int) string {
	if !m.showFooter && !m.showHelp {
		return ""
	}
	m.help.Width = width
	return styles.Footer.Render(m.help.View(m.keys))
}

func (m *Model) size() (int, int) {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return width, height
}

// gridRows is the height left for the panes once the header, find prompt and
// help footer are placed.
func (m *Model) gridRows() int {
	width, height := m.size()
	used := 1
	if m.mode == ModeFind {
		used++
	}
	if footer := m.footer(width); footer != "" {
		used += strings.Count(footer, "\n") + 1
	}
	if rows := height - used; rows > minGridRows {
		return rows
	}
	return minGridRows
}

func (m *Model) syncCapacity() {
	if m.nav == nil {
		return
	}
	m.nav.SetCapacity(render.Capacity(m.gridRows()))
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	events.Input.Resize(resize.Width, resize.Height)
	m.syncCapacity()
	return nil
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(infoTimeout)
}

func (m *Model) clearInfo() {
	if m.infoMsg == "" {
		return
	}
	if !m.infoExpire.IsZero() && time.Now().Before(m.infoExpire) {
		return
	}
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func fit(text string, width int) string {
	if width <= 0 || ansi.StringWidth(text) <= width {
		return text
	}
	return truncate.StringWithTail(text, uint(width), "…")
}
