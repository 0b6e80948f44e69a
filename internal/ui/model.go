package ui

import (
	"context"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/backend"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/canvas"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/data/dispatcher"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/input"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/theme"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/ui/command"
)

type Mode int

const (
	ModeBrowse Mode = iota
	ModeFind
	ModeAccount
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	infoTimeout   = 5 * time.Second
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Connector builds a navigator for an account entered at the prompt.
type Connector func(account string) (*nav.Navigator, error)

// Options configures a Model.
type Options struct {
	// Navigator is the chain to browse. When nil, the model asks for an
	// account first and builds one with Connect.
	Navigator  *nav.Navigator
	Connect    Connector
	Account    string
	Refresher  *backend.Refresher
	Keys       input.KeyMap
	Width      int
	Height     int
	ShowFooter bool
	Context    context.Context
}

// Model implements the Bubble Tea model for the pane navigator.
type Model struct {
	nav          *nav.Navigator
	connect      Connector
	account      string
	mode         Mode
	ctx          context.Context
	cancels      map[int]inflight
	spinning     bool
	loadingTitle string
	errMsg       string
	infoMsg      string
	infoExpire   time.Time

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	showHelp    bool
	grid        *canvas.Grid

	keys       input.KeyMap
	help       help.Model
	spinner    spinner.Model
	find       textinput.Model
	findOrigin int
	prompt     textinput.Model

	refresher  *backend.Refresher
	dispatcher *dispatcher.Dispatcher
	bus        *command.Bus

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI state from opts.
func NewModel(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	keys := opts.Keys
	if len(keys.Quit.Keys()) == 0 {
		keys = input.DefaultKeyMap()
	}
	m := &Model{
		connect:    opts.Connect,
		account:    opts.Account,
		ctx:        ctx,
		cancels:    make(map[int]inflight),
		showFooter: opts.ShowFooter,
		grid:       canvas.NewGrid(0, 0),
		keys:       keys,
		help:       help.New(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(*styles.Loading)),
		find:       newTextInput("/ ", "find in pane"),
		prompt:     newTextInput("account: ", "GitHub user or organisation"),
		refresher:  opts.Refresher,
		bus:        command.New(),
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	if opts.Navigator != nil {
		m.attach(opts.Navigator)
	} else {
		m.mode = ModeAccount
		m.prompt.Focus()
	}
	m.registerHandlers()
	return m
}

func newTextInput(prompt, placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.PromptStyle = *styles.Prompt
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func (m *Model) attach(n *nav.Navigator) {
	m.nav = n
	m.dispatcher = dispatcher.New(n)
	m.mode = ModeBrowse
	m.syncCapacity()
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.nav != nil {
		cmds = append(cmds, m.loadRoot())
	}
	if m.refresher != nil {
		cmds = append(cmds, waitForRefreshEvent(m.refresher))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):         m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):  m.handleWindowSizeMsg,
		reflect.TypeOf(command.FetchedMsg{}): m.handleFetchedMsg,
		reflect.TypeOf(spinner.TickMsg{}):    m.handleSpinnerTickMsg,
		reflect.TypeOf(refreshEventMsg{}):    m.handleRefreshEventMsg,
		reflect.TypeOf(refreshDoneMsg{}):     m.handleRefreshDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// Navigator exposes the chain being browsed, nil until an account is chosen.
func (m *Model) Navigator() *nav.Navigator {
	return m.nav
}

// Mode reports the current input mode.
func (m *Model) Mode() Mode {
	return m.mode
}
