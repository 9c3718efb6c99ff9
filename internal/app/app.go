package app

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyleking/tcnotify/internal/browser"
	"github.com/kyleking/tcnotify/internal/history"
	"github.com/kyleking/tcnotify/internal/ui/modal"
	"github.com/kyleking/tcnotify/internal/ui/panes"
	"github.com/kyleking/tcnotify/internal/watcher"
)

// FocusedPane represents which pane currently has focus.
type FocusedPane int

const (
	PaneLive FocusedPane = iota
	PaneActivity
)

const paneCount = 2

// refreshInterval re-renders relative timestamps in the activity feed.
const refreshInterval = 30 * time.Second

// Watcher is the part of *watcher.Watcher the UI drives.
type Watcher interface {
	Start(ctx context.Context)
	Stop()
	State() watcher.State
	Events() *watcher.EventBus
}

// Option configures a Model.
type Option func(*Model)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithOpener overrides how build URLs are opened.
func WithOpener(open func(url string) error) Option {
	return func(m *Model) { m.openURL = open }
}

// WithClipboard overrides how build URLs are copied.
func WithClipboard(write func(text string) error) Option {
	return func(m *Model) { m.copyText = write }
}

// WithRunningNotifications also lists still-running builds in the feed on
// every cycle.
func WithRunningNotifications(on bool) Option {
	return func(m *Model) { m.showRunning = on }
}

// WithHistory seeds the activity feed from store and records every finished
// build into it.
func WithHistory(store *history.Store) Option {
	return func(m *Model) { m.history = store }
}

// Model is the root bubbletea model for the application.
type Model struct {
	ctx       context.Context
	watcher   Watcher
	events    *EventStream
	pipelines []string
	users     []string

	focused  FocusedPane
	live     panes.LiveBuildsModel
	activity panes.ActivityModel

	state       watcher.State
	stalled     bool
	lastCheck   time.Time
	checks      int
	flash       string
	showRunning bool
	history     *history.Store

	modalStack *modal.Stack
	help       help.Model
	keys       KeyMap

	now      func() time.Time
	openURL  func(string) error
	copyText func(string) error

	width  int
	height int
}

// New creates the application model. The watcher is started by Init.
func New(ctx context.Context, w Watcher, pipelines, users []string, opts ...Option) Model {
	m := Model{
		ctx:        ctx,
		watcher:    w,
		events:     Subscribe(w.Events()),
		pipelines:  pipelines,
		users:      users,
		focused:    PaneLive,
		live:       panes.NewLiveBuildsModel(),
		activity:   panes.NewActivityModel(),
		state:      w.State(),
		modalStack: modal.NewStack(),
		help:       help.New(),
		keys:       DefaultKeyMap(),
		now:        time.Now,
		openURL:    browser.Open,
		copyText:   clipboard.WriteAll,
	}

	for _, opt := range opts {
		opt(&m)
	}

	if m.history != nil {
		m.activity.Push(m.history.Notifications(panes.MaxActivity)...)
	}

	return m
}

// Close detaches the model from the watcher's events.
func (m Model) Close() {
	m.events.Close()
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.events.Next(), m.startCmd(), tick())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.modalStack.SetSize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case StateChangedMsg:
		return m.handleStateChange(msg)

	case BuildCheckMsg:
		return m.handleBuildCheck(msg)

	case CycleErrorMsg:
		return m.handleCycleError(msg)

	case modal.FilterResultMsg:
		return m.handleFilterResult(msg)

	case actionDoneMsg:
		m.flash = msg.text
		return m, nil

	case tickMsg:
		return m, tick()
	}

	if m.modalStack.HasActive() {
		return m.updateModal(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.modalStack.Update(msg)
	return m, cmd
}

// startCmd and stopCmd run off the event loop: the watcher publishes
// synchronously and its handlers feed back into this loop.
func (m Model) startCmd() tea.Cmd {
	w, ctx := m.watcher, m.ctx
	return func() tea.Msg {
		w.Start(ctx)
		return nil
	}
}

func (m Model) stopCmd() tea.Cmd {
	w := m.watcher
	return func() tea.Msg {
		w.Stop()
		return nil
	}
}

func (m Model) restartCmd() tea.Cmd {
	w, ctx := m.watcher, m.ctx
	return func() tea.Msg {
		w.Stop()
		w.Start(ctx)
		return nil
	}
}
