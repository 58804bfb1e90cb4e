// Package review provides the interactive frontends over the session
// engine: a bubbletea TUI for terminals and a plain line-mode prompt loop
// for everything else. Both speak the same single-keystroke protocol.
package review

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shirou/gopsutil/v4/disk"

	"github.com/chonklab/antichonk/internal/scan"
	"github.com/chonklab/antichonk/internal/session"
	"github.com/chonklab/antichonk/internal/tree"
	"github.com/chonklab/antichonk/internal/ui"
)

// ─── Messages ────────────────────────────────────────────────────────────────

type diskUsageMsg struct {
	usage *disk.UsageStat
	err   error
}

func fetchDiskUsage(path string) tea.Cmd {
	return func() tea.Msg {
		usage, err := disk.Usage(path)
		return diskUsageMsg{usage: usage, err: err}
	}
}

// ─── Key map ─────────────────────────────────────────────────────────────────

type keyMap struct {
	DeleteFile key.Binding
	DeleteDir  key.Binding
	SkipFile   key.Binding
	SkipDir    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	DeleteFile: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete file")),
	DeleteDir:  key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete directory")),
	SkipFile:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip file")),
	SkipDir:    key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "skip directory")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:       key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ─── Model ───────────────────────────────────────────────────────────────────

// Config carries the run parameters the TUI displays.
type Config struct {
	Root   string
	Order  scan.Order
	DryRun bool
	Stats  *scan.Stats
}

// Model is the bubbletea Model for the review loop.
type Model struct {
	cfg  Config
	sess *session.Session

	current    scan.FileRecord
	hasCurrent bool
	treeView   string

	showHelp bool
	warning  string
	usage    *disk.UsageStat

	width    int
	height   int
	quitting bool
}

// NewModel creates a Model positioned on the first presentable candidate.
func NewModel(cfg Config, sess *session.Session) Model {
	m := Model{
		cfg:    cfg,
		sess:   sess,
		width:  80,
		height: 24,
	}
	m.load()
	return m
}

// load pulls the current candidate from the session and caches its tree
// view. Rendering the tree here keeps View free of filesystem I/O.
func (m *Model) load() {
	rec, ok := m.sess.Next()
	m.current, m.hasCurrent = rec, ok
	if !ok {
		m.treeView = ""
		return
	}
	highlight := lipgloss.NewStyle().Foreground(ui.ColorSuccess).Bold(true)
	m.treeView = tree.Render(rec.Dir, rec.Path, tree.Options{
		Highlight: func(name string) string { return highlight.Render(name) },
		ShowSizes: true,
	})
}

func (m Model) Init() tea.Cmd {
	return fetchDiskUsage(m.cfg.Root)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case diskUsageMsg:
		if msg.err == nil {
			m.usage = msg.usage
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if !m.hasCurrent {
			// Exhausted; any key leaves the summary screen.
			m.quitting = true
			return m, tea.Quit
		}

		decision := session.ParseDecision(msg.String())
		switch decision {
		case session.Help, session.Invalid:
			// Unrecognized input never advances and never deletes.
			m.showHelp = true
			return m, nil
		case session.Quit:
			m.quitting = true
			return m, tea.Quit
		}

		m.showHelp = false
		res := m.sess.Apply(m.current, decision)
		m.warning = res.Warning
		if res.Advance {
			m.load()
		}
		return m, nil
	}

	return m, nil
}

// View delegates to view.go renderView.
func (m Model) View() string {
	return m.renderView()
}

// Run drives the TUI to completion and returns the run summary.
func Run(cfg Config, sess *session.Session) (session.Summary, error) {
	program := tea.NewProgram(NewModel(cfg, sess))
	if _, err := program.Run(); err != nil {
		return sess.Summary(), err
	}
	return sess.Summary(), nil
}
