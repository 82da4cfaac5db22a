package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	statusStyles = map[Status]lipgloss.Style{
		StatusQueued:  dimStyle,
		StatusWorking: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		StatusDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		StatusError:   errorStyle,
	}
)

// stageWeight is the share of a file's work finished once it enters stage.
var stageWeight = map[Stage]float64{
	StageLoad:        0.1,
	StageValidate:    0.3,
	StageDiagnostics: 0.8,
}

// row is one file of the validate run.
type row struct {
	path   string
	stage  Stage
	status Status
	fns    int
	errs   int
	warns  int
	failed string
}

func (r *row) apply(ev Event) {
	r.stage, r.status = ev.Stage, ev.Status
	if ev.Functions > 0 {
		r.fns = ev.Functions
	}
	if ev.Errors > 0 {
		r.errs = ev.Errors
	}
	if ev.Warnings > 0 {
		r.warns = ev.Warnings
	}
	if ev.Detail != "" {
		r.failed = ev.Detail
	}
}

func (r *row) finished() bool { return r.status == StatusDone || r.status == StatusError }

func (r *row) weight() float64 {
	if r.finished() {
		return 1
	}
	return stageWeight[r.stage]
}

// label is the status column: the stage while working, the outcome after.
func (r *row) label() string {
	switch r.status {
	case StatusQueued:
		return "queued"
	case StatusDone:
		return "ok"
	case StatusError:
		return "failed"
	}
	switch r.stage {
	case StageLoad:
		return "loading"
	case StageValidate:
		return "validating"
	case StageDiagnostics:
		return "collecting"
	}
	return ""
}

// counts renders "3 fn  1 error  2 warnings"; empty until the split ran.
func (r *row) counts() string {
	if r.failed != "" {
		return errorStyle.Render(r.failed)
	}
	var parts []string
	if r.fns > 0 {
		parts = append(parts, dimStyle.Render(fmt.Sprintf("%d fn", r.fns)))
	}
	if r.errs > 0 {
		parts = append(parts, errorStyle.Render(plural(r.errs, "error")))
	}
	if r.warns > 0 {
		parts = append(parts, warnStyle.Render(plural(r.warns, "warning")))
	}
	return strings.Join(parts, "  ")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

type progressModel struct {
	title  string
	phase  string
	events <-chan Event
	rows   []row
	byPath map[string]int
	width  int
	done   bool

	spin spinner.Model
	bar  progress.Model
}

type (
	eventMsg Event
	doneMsg  struct{}
)

// NewProgressModel returns a Bubble Tea model that renders one row per
// file with its function count and diagnostic tallies.
func NewProgressModel(title string, files []string, events <-chan Event) tea.Model {
	m := &progressModel{
		title:  title,
		events: events,
		rows:   make([]row, len(files)),
		byPath: make(map[string]int, len(files)),
		width:  80,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
	}
	for i, f := range files {
		m.rows[i].path = f
		m.byPath[f] = i
	}
	return m
}

// Run drives work while rendering its events to out. The event channel is
// closed once work returns; Run waits for both and returns work's error
// unless the UI itself failed.
func Run(title string, files []string, out io.Writer, work func(Sink) error) error {
	events := make(chan Event, 256)
	workErr := make(chan error, 1)
	go func() {
		defer close(events)
		workErr <- work(ChannelSink{Ch: events})
	}()

	_, uiErr := tea.NewProgram(NewProgressModel(title, files, events),
		tea.WithOutput(out), tea.WithInput(nil)).Run()
	if uiErr != nil {
		// выгребаем события, чтобы work не заблокировался
		for range events {
		}
		<-workErr
		return uiErr
	}
	return <-workErr
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) apply(ev Event) tea.Cmd {
	if ev.File == "" {
		m.phase = (&row{stage: ev.Stage, status: ev.Status}).label()
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	m.rows[i].apply(ev)
	return m.bar.SetPercent(m.fraction())
}

// fraction is the overall completion in [0, 1].
func (m *progressModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 1
	}
	var sum float64
	for i := range m.rows {
		sum += m.rows[i].weight()
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder

	header := m.title
	if m.phase != "" {
		header += " (" + m.phase + ")"
	}
	if m.done {
		b.WriteString(headerStyle.Render("done: " + header))
	} else {
		b.WriteString(m.spin.View() + " " + headerStyle.Render(header))
	}
	b.WriteString("\n\n")

	const labelWidth = 10
	pathWidth := max(m.width/2, 20)
	for i := range m.rows {
		r := &m.rows[i]
		label := statusStyles[r.status].Render(fmt.Sprintf("%-*s", labelWidth, r.label()))
		path := truncate(r.path, pathWidth)
		fmt.Fprintf(&b, "  %s %s%s  %s\n", label, path,
			strings.Repeat(" ", max(pathWidth-runewidth.StringWidth(path), 0)), r.counts())
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	b.WriteString(m.summary())
	b.WriteByte('\n')
	return b.String()
}

// summary totals the finished files.
func (m *progressModel) summary() string {
	var finished, fns, errs, warns int
	for i := range m.rows {
		r := &m.rows[i]
		if r.finished() {
			finished++
		}
		fns += r.fns
		errs += r.errs
		warns += r.warns
	}
	return fmt.Sprintf("%d/%d files  %d functions  %s  %s",
		finished, len(m.rows), fns, plural(errs, "error"), plural(warns, "warning"))
}

// truncate shortens value to width display columns, the "..." included.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
