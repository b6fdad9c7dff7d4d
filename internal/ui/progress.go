package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"sift/internal/analyze"
)

const recentFiles = 8

type progressModel struct {
	title      string
	events     <-chan analyze.Event
	spinner    spinner.Model
	prog       progress.Model
	stage      analyze.Stage
	stageLabel string
	recent     []string
	scanned    int
	width      int
	done       bool
}

type eventMsg analyze.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders the stages of a
// hybrid analysis run: compiler invocation, tree enumeration, the batched
// scan and per-file detection.
func NewProgressModel(title string, events <-chan analyze.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76 // Default width

	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(analyze.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
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
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.stageLabel != "" {
		header = fmt.Sprintf("%s (%s)", header, m.stageLabel)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	fileStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	nameWidth := m.width - 4
	if nameWidth < 20 {
		nameWidth = 20
	}
	for _, p := range m.recent {
		b.WriteString("  ")
		b.WriteString(fileStyle.Render(truncate(p, nameWidth)))
		b.WriteString("\n")
	}
	if m.scanned > recentFiles {
		b.WriteString(fmt.Sprintf("  … %d files inspected\n", m.scanned))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev analyze.Event) tea.Cmd {
	m.stage = ev.Stage
	m.stageLabel = stageLabel(ev.Stage)
	if ev.Path != "" {
		m.scanned++
		m.recent = append(m.recent, ev.Path)
		if len(m.recent) > recentFiles {
			m.recent = m.recent[len(m.recent)-recentFiles:]
		}
	}
	return m.prog.SetPercent(progressFromStage(ev.Stage))
}

// progressFromStage maps a stage to a coarse completion fraction. The two
// hybrid legs run in parallel, so the bar is indicative, not exact.
func progressFromStage(stage analyze.Stage) float64 {
	switch stage {
	case analyze.StageCompile:
		return 0.1
	case analyze.StageList:
		return 0.3
	case analyze.StageScan:
		return 0.5
	case analyze.StageDetect:
		return 0.8
	case analyze.StageDone:
		return 1.0
	default:
		return 0.0
	}
}

func stageLabel(stage analyze.Stage) string {
	switch stage {
	case analyze.StageCompile:
		return "compiling"
	case analyze.StageList:
		return "listing files"
	case analyze.StageScan:
		return "scanning"
	case analyze.StageDetect:
		return "detecting"
	case analyze.StageDone:
		return "done"
	default:
		return ""
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
