package analyze

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shirou/gopsutil/v4/disk"

	"github.com/4ndymcfly/linuxmole/internal/guard"
	"github.com/4ndymcfly/linuxmole/internal/ui"
	"github.com/4ndymcfly/linuxmole/pkg/whitelist"
)

// ─── Messages ────────────────────────────────────────────────────────────────

type navKind int

const (
	navInitial navKind = iota
	navDescend
	navAscend
	navRefresh
)

// scanMsg carries one finished level scan. gen ties it to the request
// that started it; results from superseded scans are discarded.
type scanMsg struct {
	gen     int
	kind    navKind
	target  string
	entries []Entry
	err     error
}

type deleteResultMsg struct {
	path  string
	freed int64
	err   error
}

// ─── Model ───────────────────────────────────────────────────────────────────

// Model is the bubbletea Model for the interactive disk analyzer.
type Model struct {
	scanner *Scanner
	nav     *Navigator
	wl      *whitelist.Whitelist

	entries []Entry
	cursor  int
	offset  int
	width   int
	height  int

	scanning bool
	gen      int
	cancel   context.CancelFunc
	spin     spinner.Model

	confirmDelete bool
	quitting      bool
	err           error

	diskFree  uint64
	diskTotal uint64
}

// NewModel creates an analyzer rooted at the given path.
func NewModel(scanner *Scanner, root string, wl *whitelist.Whitelist) Model {
	sp := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(ui.ColorCoral)),
	)
	m := Model{
		scanner:  scanner,
		nav:      NewNavigator(scanner, root),
		wl:       wl,
		width:    80,
		height:   24,
		spin:     sp,
		scanning: true,
	}
	if usage, err := disk.Usage(root); err == nil {
		m.diskFree = usage.Free
		m.diskTotal = usage.Total
	}
	return m
}

// Init kicks off the first scan. Init runs on a copy of the model, so
// the command captures the starting generation instead of bumping it.
func (m Model) Init() tea.Cmd {
	scanner, target, gen := m.scanner, m.nav.Current(), m.gen
	scan := func() tea.Msg {
		entries, err := scanner.ScanLevel(context.Background(), target)
		return scanMsg{gen: gen, kind: navInitial, target: target, entries: entries, err: err}
	}
	return tea.Batch(scan, m.spin.Tick)
}

// startScan cancels any scan in flight and starts one for target. The
// scan itself is pure; the navigator moves only when the result lands.
func (m *Model) startScan(kind navKind, target string) tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.gen++
	m.scanning = true
	m.err = nil

	gen, scanner := m.gen, m.scanner
	return func() tea.Msg {
		entries, err := scanner.ScanLevel(ctx, target)
		return scanMsg{gen: gen, kind: kind, target: target, entries: entries, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case scanMsg:
		if msg.gen != m.gen {
			// A newer navigation superseded this scan.
			return m, nil
		}
		m.scanning = false
		if msg.err != nil {
			m.err = &NavigationError{Path: msg.target, Err: msg.err}
			return m, nil
		}
		switch msg.kind {
		case navDescend:
			m.nav.push(msg.target)
		case navAscend:
			m.nav.pop()
		}
		m.entries = m.nav.withParentMarker(msg.entries)
		m.cursor = 0
		m.offset = 0
		return m, nil

	case deleteResultMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, m.startScan(navRefresh, m.nav.Current())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Two-key delete: d arms, Enter confirms, anything else clears.
	if m.confirmDelete {
		m.confirmDelete = false
		if msg.String() == "enter" {
			if e, ok := m.selected(); ok && !e.IsParent {
				return m, m.deleteEntry(e)
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		if m.cancel != nil {
			m.cancel()
		}
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}

	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
			m.ensureVisible()
		}

	case "right", "l", "enter":
		if e, ok := m.selected(); ok {
			switch {
			case e.IsParent:
				return m, tea.Batch(m.startScan(navAscend, e.Path), m.spin.Tick)
			case e.IsDir:
				return m, tea.Batch(m.startScan(navDescend, e.Path), m.spin.Tick)
			}
		}

	case "left", "h", "backspace", "esc":
		if !m.nav.AtRoot() {
			parent := m.nav.stack[len(m.nav.stack)-1]
			return m, tea.Batch(m.startScan(navAscend, parent), m.spin.Tick)
		}

	case "r":
		return m, tea.Batch(m.startScan(navRefresh, m.nav.Current()), m.spin.Tick)

	case "d":
		if e, ok := m.selected(); ok && !e.IsParent {
			if pat, protected := m.wl.Match(e.Path); protected {
				m.err = fmt.Errorf("%s is protected by whitelist pattern %s", e.Path, pat)
				return m, nil
			}
			m.confirmDelete = true
		}
	}

	return m, nil
}

// deleteEntry routes the confirmed deletion through the guard engine;
// the TUI's own two-key confirmation stands in for the prompt.
func (m Model) deleteEntry(e Entry) tea.Cmd {
	wl := m.wl
	return func() tea.Msg {
		cand := guard.Candidate{Path: e.Path, Reason: "delete " + e.Name, Size: e.Size}
		allowed, protected := guard.Filter([]guard.Candidate{cand}, wl)
		if len(protected) > 0 {
			return deleteResultMsg{path: e.Path, err: fmt.Errorf(
				"%s is protected by whitelist pattern %s", e.Path, protected[0].Pattern)}
		}
		sum, err := guard.Execute(allowed, 0, guard.Options{AssumeYes: true, Out: io.Discard})
		if err != nil {
			return deleteResultMsg{path: e.Path, err: err}
		}
		if sum.Failed > 0 {
			return deleteResultMsg{path: e.Path, err: sum.Failures[0]}
		}
		return deleteResultMsg{path: e.Path, freed: sum.Reclaimed}
	}
}

// View delegates to view.go renderView.
func (m Model) View() string {
	return m.renderView()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (m Model) selected() (Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return Entry{}, false
	}
	return m.entries[m.cursor], true
}

func (m *Model) ensureVisible() {
	vh := m.viewportHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+vh {
		m.offset = m.cursor - vh + 1
	}
}

func (m Model) viewportHeight() int {
	h := m.height - 8 // header (4) + footer (3) + padding
	if h < 1 {
		h = 1
	}
	return h
}

// levelTotal sums the level's entries, parent marker excluded.
func (m Model) levelTotal() int64 {
	var total int64
	for _, e := range m.entries {
		if !e.IsParent {
			total += e.Size
		}
	}
	return total
}

// largestEntry returns the size bars are scaled against.
func (m Model) largestEntry() int64 {
	var max int64
	for _, e := range m.entries {
		if !e.IsParent && e.Size > max {
			max = e.Size
		}
	}
	return max
}

// Run starts the analyzer TUI in the alternate screen.
func Run(root string, wl *whitelist.Whitelist) error {
	scanner := NewScanner(8)
	p := tea.NewProgram(NewModel(scanner, root, wl), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
