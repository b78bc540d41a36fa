package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"svcore/internal/driver"
)

const statusWidth = 10

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// checkModel follows one CheckFiles run, one row per declaration file.
type checkModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]int
	width   int
	failed  int
	elapsed time.Duration
	done    bool
}

type fileRow struct {
	path    string
	stage   driver.Stage
	status  driver.Status
	elapsed time.Duration
}

type eventMsg driver.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders the events of a
// check run. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &checkModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.rows[i] = fileRow{path: file, stage: driver.StageLoad, status: driver.StatusQueued}
		m.byPath[file] = i
	}
	return m
}

func (m *checkModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *checkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *checkModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.header()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-14, 20)
	for _, row := range m.rows {
		label := rowLabel(row)
		fmt.Fprintf(&b, "  %s %s", rowStyle(row).Render(fmt.Sprintf("%*s", statusWidth, label)), truncate(row.path, nameWidth))
		if row.elapsed > 0 {
			b.WriteString(faintStyle.Render(fmt.Sprintf("  %s", row.elapsed.Round(time.Microsecond))))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *checkModel) header() string {
	h := fmt.Sprintf("%s: %d file(s)", m.title, len(m.rows))
	if m.failed > 0 {
		h += fmt.Sprintf(", %d failed", m.failed)
	}
	if m.done {
		if m.elapsed > 0 {
			h += fmt.Sprintf(" in %s", m.elapsed.Round(time.Millisecond))
		}
		return "done: " + h
	}
	return m.spinner.View() + " " + h
}

func (m *checkModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

// apply records ev. Events without a file describe the whole run.
func (m *checkModel) apply(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		if ev.Status == driver.StatusDone || ev.Status == driver.StatusError {
			m.elapsed = ev.Elapsed
		}
		return nil
	}
	idx, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[idx]
	if row.status == driver.StatusError {
		return nil
	}
	row.stage = ev.Stage
	row.status = ev.Status
	switch ev.Status {
	case driver.StatusError:
		m.failed++
		row.elapsed = ev.Elapsed
	case driver.StatusDone:
		row.elapsed = ev.Elapsed
	}
	return m.bar.SetPercent(m.fraction())
}

// fraction counts finished files fully and weighs files in flight by stage.
func (m *checkModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, row := range m.rows {
		switch row.status {
		case driver.StatusDone, driver.StatusError:
			sum++
		case driver.StatusWorking:
			sum += stageWeight(row.stage)
		}
	}
	return sum / float64(len(m.rows))
}

func stageWeight(stage driver.Stage) float64 {
	switch stage {
	case driver.StageLoad:
		return 0.4
	case driver.StageSnapshot:
		return 0.8
	}
	return 0
}

func rowLabel(row fileRow) string {
	if row.status != driver.StatusWorking {
		return string(row.status)
	}
	switch row.stage {
	case driver.StageLoad:
		return "loading"
	case driver.StageSnapshot:
		return "snapshot"
	}
	return string(row.stage)
}

func rowStyle(row fileRow) lipgloss.Style {
	switch row.status {
	case driver.StatusDone:
		return doneStyle
	case driver.StatusError:
		return errorStyle
	case driver.StatusWorking:
		return workingStyle
	}
	return idleStyle
}

// truncate shortens value to width terminal cells.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
