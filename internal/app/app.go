// Package app implements the lazychanges terminal UI: a navigable forest
// of changed files with collapsible folders, a flatten/nest toggle and
// filter/search over the change set.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazychanges/internal/app/services"
	"github.com/chmouel/lazychanges/internal/config"
	"github.com/chmouel/lazychanges/internal/git"
	"github.com/chmouel/lazychanges/internal/theme"
	"github.com/chmouel/lazychanges/internal/tree"
)

// Key constants shared by the update loop.
const (
	keyEnter = "enter"
	keyEsc   = "esc"
	keyCtrlC = "ctrl+c"
	keyCtrlD = "ctrl+d"
	keyCtrlU = "ctrl+u"
	keyDown  = "down"
	keyUp    = "up"

	placeholderFilter = "Filter files..."
	placeholderSearch = "Search files..."
)

type notification struct {
	Message  string
	Severity string
}

type forestMsg struct {
	forest []*tree.Node
	change services.Change
	err    error
}

type notifyMsg notification

type watchEventMsg struct{}

// row is one visible line of the tree pane.
type row struct {
	node  *tree.Node
	depth int
}

// Model is the bubbletea model for lazychanges.
type Model struct {
	cfg    *config.AppConfig
	thm    *theme.Theme
	view   *services.ViewService
	watch  *services.WatchService
	filter *services.FilterService

	forest    []*tree.Node
	rows      []row
	cursor    int
	scroll    int
	collapsed map[*tree.Node]bool

	filterInput   textinput.Model
	showingFilter bool
	showingSearch bool

	notifyCh chan notification

	width  int
	height int
	status string
	sev    string
	loaded bool
}

// NewModel assembles the model and its services for the given repository
// directory and view context.
func NewModel(cfg *config.AppConfig, cwd string, vc services.ViewContext) *Model {
	m := &Model{
		cfg:       cfg,
		thm:       theme.ByName(cfg.Theme),
		filter:    services.NewFilterService(""),
		collapsed: make(map[*tree.Node]bool),
		notifyCh:  make(chan notification, 16),
		width:     80,
		height:    24,
	}

	gitSvc := git.NewService(m.notify, m.notifyOnce)
	m.view = services.NewViewService(gitSvc, cwd, vc)
	if cfg.AutoRefresh {
		m.watch = services.NewWatchService(gitSvc, cwd, nil)
		if _, err := m.watch.Start(context.Background()); err != nil {
			m.watch = nil
		}
	}

	ti := textinput.New()
	ti.Placeholder = placeholderFilter
	ti.CharLimit = 100
	ti.Prompt = "> "
	m.filterInput = ti

	return m
}

// NewModelWithView builds a model around an existing view service; used by
// tests to inject a fake git backend.
func NewModelWithView(cfg *config.AppConfig, view *services.ViewService) *Model {
	m := &Model{
		cfg:       cfg,
		thm:       theme.ByName(cfg.Theme),
		view:      view,
		filter:    services.NewFilterService(""),
		collapsed: make(map[*tree.Node]bool),
		notifyCh:  make(chan notification, 16),
		width:     80,
		height:    24,
	}
	ti := textinput.New()
	ti.Placeholder = placeholderFilter
	ti.CharLimit = 100
	ti.Prompt = "> "
	m.filterInput = ti
	return m
}

func (m *Model) notify(message, severity string) {
	select {
	case m.notifyCh <- notification{Message: message, Severity: severity}:
	default:
	}
}

func (m *Model) notifyOnce(_, message, severity string) {
	m.notify(message, severity)
}

// Close releases background resources.
func (m *Model) Close() {
	if m.watch != nil {
		m.watch.Stop()
	}
}

// Init starts the first rebuild and the notification/watch listeners.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.rebuildCmd(), m.listenNotify()}
	if cmd := m.watchCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) rebuildCmd() tea.Cmd {
	view := m.view
	return func() tea.Msg {
		forest, change, err := view.Rebuild(context.Background())
		return forestMsg{forest: forest, change: change, err: err}
	}
}

func (m *Model) listenNotify() tea.Cmd {
	ch := m.notifyCh
	return func() tea.Msg {
		return notifyMsg(<-ch)
	}
}

func (m *Model) watchCmd() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	ch := m.watch.NextEvent()
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		<-ch
		return watchEventMsg{}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filterInput.Width = max(10, msg.Width-6)
		return m, nil

	case forestMsg:
		if msg.err != nil {
			// Fail-stale: keep showing the previous forest.
			m.setStatus(msg.err.Error(), "error")
			return m, nil
		}
		m.forest = msg.forest
		m.loaded = true
		if msg.change.Kind == services.ChangeForest {
			m.collapsed = make(map[*tree.Node]bool)
			m.cursor = 0
			m.scroll = 0
		}
		m.rebuildRows()
		return m, nil

	case notifyMsg:
		m.setStatus(msg.Message, msg.Severity)
		return m, m.listenNotify()

	case watchEventMsg:
		m.watch.ResetWaiting()
		cmds := []tea.Cmd{}
		if m.watch.ShouldRefresh(time.Now()) {
			cmds = append(cmds, m.rebuildCmd())
		}
		if cmd := m.watchCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showingFilter || m.showingSearch {
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case "q", keyCtrlC, keyEsc:
		return m, tea.Quit
	case "j", keyDown:
		m.moveCursor(1)
	case "k", keyUp:
		m.moveCursor(-1)
	case keyCtrlD, " ":
		m.moveCursor(m.pageSize() / 2)
	case keyCtrlU:
		m.moveCursor(-m.pageSize() / 2)
	case "g":
		m.cursor = 0
		m.scroll = 0
	case "G":
		m.cursor = max(0, len(m.rows)-1)
		m.ensureVisible()
	case keyEnter:
		m.toggleCollapse()
	case "z":
		return m, m.toggleSubtree()
	case "Z":
		m.view.ToggleNested()
		m.setStatus(modeLabel(m.view.Nested()), "info")
		return m, m.rebuildCmd()
	case "r":
		return m, m.rebuildCmd()
	case "f":
		m.showingFilter = true
		m.showingSearch = false
		m.filterInput.Placeholder = placeholderFilter
		m.filterInput.SetValue(m.filter.FilterQuery)
		m.filterInput.Focus()
		return m, textinput.Blink
	case "/":
		m.showingSearch = true
		m.showingFilter = false
		m.filterInput.Placeholder = placeholderSearch
		m.filterInput.SetValue(m.filter.SearchQuery)
		m.filterInput.Focus()
		return m, textinput.Blink
	case "n":
		m.searchNext(true)
	case "N":
		m.searchNext(false)
	}

	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		m.showingFilter = false
		m.showingSearch = false
		m.filterInput.Blur()
		return m, nil
	case keyEsc, keyCtrlC:
		if m.showingFilter {
			m.filter.FilterQuery = ""
			m.applyFilter()
		} else {
			m.filter.SearchQuery = ""
		}
		m.showingFilter = false
		m.showingSearch = false
		m.filterInput.SetValue("")
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	value := m.filterInput.Value()
	if m.showingFilter && value != m.filter.FilterQuery {
		m.filter.FilterQuery = value
		m.applyFilter()
	}
	if m.showingSearch && value != m.filter.SearchQuery {
		m.filter.SearchQuery = value
		if value != "" {
			m.searchNext(true)
		}
	}
	return m, cmd
}

// applyFilter narrows the record set and reassembles the forest. Node
// identity is not preserved across a filter change; collapse state resets.
func (m *Model) applyFilter() {
	records := m.filter.Apply(m.view.Records())
	m.forest = m.view.Assemble(context.Background(), records)
	m.collapsed = make(map[*tree.Node]bool)
	m.rebuildRows()
	m.cursor = 0
	m.scroll = 0
}

// toggleCollapse expands or collapses the selected folder row.
func (m *Model) toggleCollapse() {
	node := m.selectedNode()
	if node == nil || !node.IsDir() {
		return
	}
	m.collapsed[node] = !m.collapsed[node]
	m.rebuildRows()
}

// toggleSubtree flattens or nests the selected folder in place. On a root
// folder this flips the default mode and rebuilds instead, since several
// independent roots may be showing.
func (m *Model) toggleSubtree() tea.Cmd {
	node := m.selectedNode()
	if node == nil || !node.IsDir() {
		return nil
	}
	change := services.Toggle(node)
	if change.Kind == services.ChangeForest {
		m.view.ToggleNested()
		m.setStatus(modeLabel(m.view.Nested()), "info")
		return m.rebuildCmd()
	}
	// Only the toggled subtree changed; visible rows under it are
	// recomputed, everything else keeps its node identity.
	m.rebuildRows()
	return nil
}

func (m *Model) setStatus(message, severity string) {
	m.status = message
	m.sev = severity
}

func modeLabel(nested bool) string {
	if nested {
		return "Tree view: nested folders"
	}
	return "Tree view: flat list"
}
