package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/provider"
)

func typeText(h *Harness, text string) {
	for _, r := range text {
		h.Send(keyRunes(string(r)))
	}
}

func TestFindJumpsToBestMatch(t *testing.T) {
	h := startedHarness(t, &fakeSource{})
	h.Send(keyRunes("/"))
	if h.Model().Mode() != ModeFind {
		t.Fatalf("expected find mode")
	}
	typeText(h, "thr")
	sel, _ := h.Model().Navigator().ActivePane().Selected()
	if sel != 2 {
		t.Fatalf("expected selection on three, got %d", sel)
	}
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if h.Model().Mode() != ModeBrowse {
		t.Fatalf("expected browse mode after enter")
	}
	sel, _ = h.Model().Navigator().ActivePane().Selected()
	if sel != 2 {
		t.Fatalf("expected selection kept, got %d", sel)
	}
}

func TestFindEscapeRestoresSelection(t *testing.T) {
	h := startedHarness(t, &fakeSource{})
	h.Send(keyRunes("j"))
	h.Send(keyRunes("/"))
	typeText(h, "three")
	h.Send(tea.KeyMsg{Type: tea.KeyEsc})
	sel, _ := h.Model().Navigator().ActivePane().Selected()
	if sel != 1 {
		t.Fatalf("expected original selection restored, got %d", sel)
	}
	if h.Model().Mode() != ModeBrowse {
		t.Fatalf("expected browse mode")
	}
}

func TestFindKeysDoNotNavigate(t *testing.T) {
	h := startedHarness(t, &fakeSource{})
	h.Send(keyRunes("/"))
	typeText(h, "q")
	if h.Quit() {
		t.Fatalf("typing q in find mode must not quit")
	}
	if h.Model().Navigator().Active() != 0 {
		t.Fatalf("expected pane unchanged")
	}
}

func TestFindOnEmptyPaneIsIgnored(t *testing.T) {
	h := startedHarness(t, &fakeSource{rootErr: errors.New("down")})
	h.Send(keyRunes("/"))
	if h.Model().Mode() != ModeBrowse {
		t.Fatalf("expected find refused on empty pane")
	}
}

func TestYankCopiesLocator(t *testing.T) {
	var copied string
	withStub(t, &copyToClipboard, func(s string) error {
		copied = s
		return nil
	})
	h := startedHarness(t, &fakeSource{})
	h.Send(keyRunes("y"))
	if copied != "octo/one" {
		t.Fatalf("expected locator copied, got %q", copied)
	}
	if !strings.Contains(h.Model().currentInfo(), "octo/one") {
		t.Fatalf("expected info message, got %q", h.Model().currentInfo())
	}
}

func TestYankFailureSetsError(t *testing.T) {
	withStub(t, &copyToClipboard, func(string) error { return errors.New("no clipboard") })
	h := startedHarness(t, &fakeSource{})
	h.Send(keyRunes("y"))
	if !strings.Contains(h.Model().errMsg, "no clipboard") {
		t.Fatalf("expected clipboard error, got %q", h.Model().errMsg)
	}
}

func TestHelpToggle(t *testing.T) {
	h := startedHarness(t, &fakeSource{})
	before := h.Model().Navigator().Pane(0).Capacity()
	h.Send(keyRunes("?"))
	if !h.Model().showHelp {
		t.Fatalf("expected help shown")
	}
	if after := h.Model().Navigator().Pane(0).Capacity(); after >= before {
		t.Fatalf("expected help to take rows, capacity %d -> %d", before, after)
	}
	h.Send(keyRunes("?"))
	if h.Model().showHelp {
		t.Fatalf("expected help hidden")
	}
}

func TestPaneMovementKeys(t *testing.T) {
	h := startedHarness(t, &fakeSource{})
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	h.Send(tea.KeyMsg{Type: tea.KeyLeft})
	n := h.Model().Navigator()
	if n.Active() != 0 {
		t.Fatalf("expected pane 0 active, got %d", n.Active())
	}
	h.Send(keyRunes("l"))
	if n.Active() != 1 {
		t.Fatalf("expected pane 1 active, got %d", n.Active())
	}
	h.Send(keyRunes("G"))
	if sel, _ := n.ActivePane().Selected(); sel != 1 {
		t.Fatalf("expected last row, got %d", sel)
	}
}

func newPromptModel(t *testing.T, connect Connector) *Harness {
	t.Helper()
	quietLogs(t)
	h := NewHarness(NewModel(Options{Connect: connect, Width: 80, Height: 12}))
	h.Start()
	return h
}

func TestAccountPromptConnectsAndLoads(t *testing.T) {
	var asked string
	src := &fakeSource{}
	h := newPromptModel(t, func(account string) (*nav.Navigator, error) {
		asked = account
		return provider.New(src.set(), provider.MinDepth)
	})
	if h.Model().Mode() != ModeAccount {
		t.Fatalf("expected account prompt")
	}
	typeText(h, "octo")
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if asked != "octo" {
		t.Fatalf("expected connect for octo, got %q", asked)
	}
	m := h.Model()
	if m.Mode() != ModeBrowse || m.Navigator().Pane(0).Len() != 3 {
		t.Fatalf("expected loaded browser after connect")
	}
}

func TestAccountPromptRejectsBlankAndErrors(t *testing.T) {
	h := newPromptModel(t, func(string) (*nav.Navigator, error) {
		return nil, errors.New("bad depth")
	})
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if h.Model().errMsg == "" || h.Model().Mode() != ModeAccount {
		t.Fatalf("expected blank account rejected")
	}
	typeText(h, "octo")
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(h.Model().errMsg, "bad depth") || h.Model().Mode() != ModeAccount {
		t.Fatalf("expected connect error kept on prompt, got %q", h.Model().errMsg)
	}
}

func TestAccountPromptEscapeQuits(t *testing.T) {
	h := newPromptModel(t, nil)
	h.Send(tea.KeyMsg{Type: tea.KeyEsc})
	if !h.Quit() {
		t.Fatalf("expected quit")
	}
}
