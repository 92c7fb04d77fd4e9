// Package ui implements the interactive Bubble Tea view of a conversion
// run: a scrollable target list with live statuses, a header with the
// current phase, and a footer with aggregate counts.
package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/variantly/imgvariant/internal/cli/hooks"
	"github.com/variantly/imgvariant/pkg/converter"
)

const listHeightMargin = 4 // header + footer + padding

// Model is the TUI state. Hook messages arrive via Program.Send from
// worker goroutines; Bubble Tea serializes them through Update.
type Model struct {
	list        list.Model
	spinner     spinner.Model
	width       int
	height      int
	initialized bool

	// items holds one row per conversion target in discovery order.
	// itemIndex maps a target label to its position in items.
	items     []targetItem
	itemIndex map[string]int
	mu        sync.Mutex

	summary      runSummary
	phaseMessage string
	fatalError   string
	quitting     bool
	appVersion   string

	debounceTimer *time.Timer
}

// targetItem is a single "input -> output" row in the list.
type targetItem struct {
	label    string
	status   converter.Status
	message  string
	duration time.Duration
}

// runSummary mirrors the report counters for the footer while the run is
// still in flight.
type runSummary struct {
	discovered int
	generated  int
	skipped    int
	failed     int
	startTime  time.Time
}

// NewModel creates the initial TUI model. appVersion appears in the header.
func NewModel(appVersion string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorProcessing)

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)
	delegate.ShowDescription = true
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(colorNormalFg).Padding(0, 0, 0, 1)
	delegate.Styles.NormalDesc = delegate.Styles.NormalDesc.Foreground(colorNormalDescFg).Padding(0, 0, 0, 1)
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true).Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(colorSelectedDescFg).Background(colorSelectedBg).Padding(0, 0, 0, 1)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Model{
		list:         l,
		spinner:      s,
		itemIndex:    make(map[string]int),
		summary:      runSummary{startTime: time.Now()},
		phaseMessage: "Initializing...",
		appVersion:   appVersion,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := m.height - listHeightMargin
		if listHeight < 1 {
			listHeight = 1
		}
		m.list.SetSize(m.width, listHeight)
		m.initialized = true

	case tea.KeyMsg:
		if m.quitting {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
		var listCmd tea.Cmd
		m.list, listCmd = m.list.Update(msg)
		cmds = append(cmds, listCmd)

	case spinner.TickMsg:
		if m.quitting {
			return m, nil
		}
		var spinnerCmd tea.Cmd
		m.spinner, spinnerCmd = m.spinner.Update(msg)
		cmds = append(cmds, spinnerCmd)

	case hooks.FileDiscoveredMsg:
		m.mu.Lock()
		m.summary.discovered++
		m.mu.Unlock()
		if !m.quitting && m.phaseMessage == "Initializing..." {
			m.phaseMessage = "Scanning..."
		}

	case hooks.FileStatusUpdateMsg:
		m.mu.Lock()
		idx, known := m.itemIndex[msg.Path]
		if !known {
			m.items = append(m.items, targetItem{label: msg.Path})
			idx = len(m.items) - 1
			m.itemIndex[msg.Path] = idx
		}
		item := &m.items[idx]
		if isFinalStatus(msg.Status) && !isFinalStatus(item.status) {
			m.countFinal(msg.Status)
		}
		item.status = msg.Status
		item.message = msg.Message
		if msg.Duration > 0 {
			item.duration = msg.Duration
		}
		cmds = append(cmds, m.debounceListUpdate())
		m.mu.Unlock()

		if !m.quitting && msg.Status == converter.StatusProcessing && m.phaseMessage != "Converting..." {
			m.phaseMessage = "Converting..."
		}

	case hooks.RunCompleteMsg:
		m.phaseMessage = "Complete"
		m.mu.Lock()
		m.summary.discovered = msg.Report.Summary.TotalFilesScanned
		m.summary.generated = msg.Report.Summary.GeneratedCount
		m.summary.skipped = msg.Report.Summary.UpToDateCount + msg.Report.Summary.NoEncoderCount
		m.summary.failed = msg.Report.Summary.ErrorCount
		m.mu.Unlock()

	case updateListMsg:
		m.mu.Lock()
		items := make([]list.Item, len(m.items))
		for i, item := range m.items {
			items[i] = item
		}
		m.mu.Unlock()
		cmds = append(cmds, m.list.SetItems(items))
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return "Exiting...\n"
	}
	if !m.initialized {
		return "Initializing..."
	}

	headerLeft := fmt.Sprintf("imgvariant v%s", m.appVersion)
	headerRight := m.phaseMessage
	if m.phaseMessage != "Complete" && m.phaseMessage != "Initializing..." {
		headerRight = m.spinner.View() + " " + m.phaseMessage
	}
	header := headerStyle.Width(m.width).Render(joinEdges(m.width, headerLeft, headerRight))

	m.mu.Lock()
	elapsed := time.Since(m.summary.startTime).Round(time.Millisecond)
	footerLeft := fmt.Sprintf("Generated: %d | Skipped: %d | Failed: %d | Files: %d | Elapsed: %s",
		m.summary.generated, m.summary.skipped, m.summary.failed, m.summary.discovered, elapsed)
	m.mu.Unlock()
	footer := footerStyle.Width(m.width).Render(joinEdges(m.width, footerLeft, "q: quit"))

	errorView := ""
	if m.fatalError != "" {
		errorView = statusStyleFailed.Render(m.fatalError) + "\n"
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.list.View(), errorView, footer)
}

// joinEdges pads left and right fragments apart across the full width.
func joinEdges(width int, left, right string) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	center := ""
	if gap > 0 {
		center = lipgloss.PlaceHorizontal(gap, lipgloss.Center, " ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, center, right)
}

func isFinalStatus(status converter.Status) bool {
	return status == converter.StatusGenerated ||
		status == converter.StatusFailed ||
		status == converter.StatusSkipped
}

// countFinal updates footer counters. Caller holds mu.
func (m *Model) countFinal(status converter.Status) {
	switch status {
	case converter.StatusGenerated:
		m.summary.generated++
	case converter.StatusSkipped:
		m.summary.skipped++
	case converter.StatusFailed:
		m.summary.failed++
	}
}

// FilterValue implements list.Item.
func (i targetItem) FilterValue() string { return i.label }

// Title implements list.Item.
func (i targetItem) Title() string { return i.label }

// Description implements list.Item.
func (i targetItem) Description() string {
	var style lipgloss.Style
	icon := " "
	switch i.status {
	case converter.StatusGenerated:
		style, icon = statusStyleGenerated, "✓"
	case converter.StatusFailed:
		style, icon = statusStyleFailed, "✗"
	case converter.StatusSkipped:
		style, icon = statusStyleSkipped, "-"
	case converter.StatusProcessing:
		style, icon = statusStyleProcessing, "…"
	default:
		style = statusStylePending
	}

	details := ""
	switch i.status {
	case converter.StatusFailed:
		details = i.message
	case converter.StatusSkipped:
		details = strings.TrimSpace(strings.SplitN(i.message, ":", 2)[0])
	case converter.StatusGenerated:
		if i.duration > 0 {
			details = formatDuration(i.duration)
		}
	}
	return fmt.Sprintf("%s %s", style.Render("["+icon+"]"), details)
}

func formatDuration(d time.Duration) string {
	switch {
	case d == 0:
		return ""
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// updateListMsg triggers a bulk refresh of the list component.
type updateListMsg struct{}

const listUpdateDebounce = 50 * time.Millisecond

// debounceListUpdate coalesces rapid status changes into at most one list
// refresh per debounce window. Caller holds mu.
func (m *Model) debounceListUpdate() tea.Cmd {
	if m.debounceTimer != nil {
		m.debounceTimer.Stop()
	}
	m.debounceTimer = time.NewTimer(listUpdateDebounce)
	timer := m.debounceTimer
	return func() tea.Msg {
		<-timer.C
		return updateListMsg{}
	}
}

const (
	colorHeaderFg = lipgloss.Color("252")
	colorHeaderBg = lipgloss.Color("62")
	colorFooterFg = lipgloss.Color("252")
	colorFooterBg = lipgloss.Color("56")

	colorNormalFg       = lipgloss.Color("250")
	colorNormalDescFg   = lipgloss.Color("244")
	colorSelectedFg     = lipgloss.Color("255")
	colorSelectedBg     = lipgloss.Color("56")
	colorSelectedDescFg = lipgloss.Color("248")

	colorGenerated  = lipgloss.Color("40")
	colorFailed     = lipgloss.Color("196")
	colorSkipped    = lipgloss.Color("214")
	colorPending    = lipgloss.Color("244")
	colorProcessing = lipgloss.Color("205")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorHeaderFg).Background(colorHeaderBg).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(colorFooterFg).Background(colorFooterBg).Padding(0, 1)

	statusStyleGenerated  = lipgloss.NewStyle().Foreground(colorGenerated)
	statusStyleFailed     = lipgloss.NewStyle().Foreground(colorFailed)
	statusStyleSkipped    = lipgloss.NewStyle().Foreground(colorSkipped)
	statusStylePending    = lipgloss.NewStyle().Foreground(colorPending)
	statusStyleProcessing = lipgloss.NewStyle().Foreground(colorProcessing)
)
