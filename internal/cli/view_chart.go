package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/scheduler"
	"github.com/alexanderramin/gantry/internal/service"
	"github.com/alexanderramin/gantry/internal/timeline"
)

// idleCheckInterval is how often the editor is asked to expire stale drags.
const idleCheckInterval = time.Second

type idleTickMsg time.Time

type chartKeyMap struct {
	Up, Down     key.Binding
	Left, Right  key.Binding
	Start, End   key.Binding
	Move         key.Binding
	Release      key.Binding
	Abort        key.Binding
	Fix, Add     key.Binding
	Reload, Quit key.Binding

	dragging bool
}

func newChartKeyMap() chartKeyMap {
	return chartKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "-1 day")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "+1 day")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "drag start")),
		End:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "drag end")),
		Move:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		Release: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "commit")),
		Abort:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Fix:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fix dates")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp lists the bindings that apply in the current editor state.
func (k chartKeyMap) ShortHelp() []key.Binding {
	if k.dragging {
		return []key.Binding{k.Left, k.Right, k.Release, k.Abort}
	}
	return []key.Binding{k.Up, k.Down, k.Start, k.End, k.Move, k.Fix, k.Add, k.Reload, k.Quit}
}

func (k chartKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// chartModel is the interactive chart editor. Drags run through the
// session's Editor and are committed on enter, one transaction per drag.
//
// The Editor is not safe for concurrent use, so every session call happens
// inside Update rather than in a tea.Cmd.
type chartModel struct {
	ctx     context.Context
	app     *App
	project *domain.Project
	sess    *service.EditSession

	selected string
	pointer  time.Time

	width, height int
	status        string
	statusErr     bool

	form     *huh.Form
	formVals *activityFormValues

	keys     chartKeyMap
	help     help.Model
	quitting bool
}

func newChartModel(ctx context.Context, app *App, project *domain.Project, sess *service.EditSession) *chartModel {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	m := &chartModel{
		ctx:     ctx,
		app:     app,
		project: project,
		sess:    sess,
		width:   defaultTermWidth,
		keys:    newChartKeyMap(),
		help:    h,
	}
	if rows := m.rows(); len(rows) > 0 {
		m.selected = rows[0].ID
	}
	return m
}

func idleTick() tea.Cmd {
	return tea.Tick(idleCheckInterval, func(t time.Time) tea.Msg { return idleTickMsg(t) })
}

func (m *chartModel) Init() tea.Cmd {
	return idleTick()
}

func (m *chartModel) rows() []domain.Activity {
	return timeline.RowOrder(m.sess.Editor.Activities())
}

func (m *chartModel) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *chartModel) setError(err error) {
	m.status, m.statusErr = err.Error(), true
}

func (m *chartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case idleTickMsg:
		if m.sess.Editor.ExpireIdle(time.Time(msg)) {
			m.setStatus("Drag abandoned after inactivity.")
		}
		return m, idleTick()

	case tea.KeyMsg:
		if m.sess.Editor.State() == scheduler.StateDragging {
			return m.updateDragging(msg)
		}
		return m.updateIdle(msg)
	}
	return m, nil
}

func (m *chartModel) updateIdle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Start):
		m.startDrag(scheduler.DragStart)
	case key.Matches(msg, m.keys.End):
		m.startDrag(scheduler.DragEnd)
	case key.Matches(msg, m.keys.Move):
		m.startDrag(scheduler.DragMove)
	case key.Matches(msg, m.keys.Fix):
		m.fixDates()
	case key.Matches(msg, m.keys.Reload):
		if err := m.sess.Reload(m.ctx); err != nil {
			m.setError(err)
		} else {
			m.setStatus("Reloaded.")
		}
	case key.Matches(msg, m.keys.Add):
		return m, m.openAddForm()
	}
	return m, nil
}

func (m *chartModel) updateDragging(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.sess.Editor.Abort()
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Left):
		m.movePointer(-1)
	case key.Matches(msg, m.keys.Right):
		m.movePointer(1)
	case key.Matches(msg, m.keys.Abort):
		m.sess.Editor.Abort()
		m.setStatus("Drag cancelled.")
	case key.Matches(msg, m.keys.Release):
		m.release()
	}
	return m, nil
}

func (m *chartModel) moveSelection(delta int) {
	rows := m.rows()
	if len(rows) == 0 {
		return
	}
	i := 0
	for j, a := range rows {
		if a.ID == m.selected {
			i = j
			break
		}
	}
	i = min(max(i+delta, 0), len(rows)-1)
	m.selected = rows[i].ID
}

func (m *chartModel) startDrag(mode scheduler.DragMode) {
	a, ok := m.sess.Editor.Activity(m.selected)
	if !ok {
		return
	}
	pointer := domain.Day(a.StartDate)
	if mode == scheduler.DragEnd {
		pointer = a.EffectiveEnd()
	}
	if err := m.sess.Editor.StartDrag(a.ID, mode, pointer); err != nil {
		m.setError(err)
		return
	}
	m.pointer = pointer
	m.setStatus(fmt.Sprintf("Dragging %s of %s", mode, a.Name))
}

func (m *chartModel) movePointer(days int) {
	next := domain.AddDays(m.pointer, days)
	if !m.sess.Editor.Update(next) {
		m.setStatus("The start cannot pass the end.")
		return
	}
	m.pointer = next
	if id, mode, ok := m.sess.Editor.Dragging(); ok {
		a, _ := m.sess.Editor.Activity(id)
		m.setStatus(fmt.Sprintf("Dragging %s of %s: %s", mode, a.Name, formatter.DateRange(a.StartDate, a.EndDate)))
	}
}

func (m *chartModel) release() {
	id, _, _ := m.sess.Editor.Dragging()
	a, _ := m.sess.Editor.Activity(id)
	change, err := m.sess.Release(m.ctx)
	if err != nil {
		m.setError(err)
		return
	}
	if err := m.sess.Reload(m.ctx); err != nil {
		m.setError(err)
		return
	}
	m.setStatus(formatter.FormatDateChange(a.Name, change))
}

func (m *chartModel) fixDates() {
	res, err := m.app.Schedule.FixDates(m.ctx, m.sess.ProjectID, false)
	if err != nil {
		var cycle *scheduler.CycleError
		if errors.As(err, &cycle) {
			m.setError(fmt.Errorf("cannot fix dates: dependencies form a cycle through %s",
				cycleNames(cycle, m.sess.Editor.Activities())))
			return
		}
		m.setError(err)
		return
	}
	if err := m.sess.Reload(m.ctx); err != nil {
		m.setError(err)
		return
	}
	if !res.Changed() {
		m.setStatus("Schedule already satisfies every dependency.")
		return
	}
	m.setStatus(fmt.Sprintf("Moved %d activities.", len(res.Changes)))
}

// ── add-activity form ───────────────────────────────────────────────────────

type activityFormValues struct {
	name, start, end, owner string
}

func (m *chartModel) openAddForm() tea.Cmd {
	vals := &activityFormValues{start: domain.FormatDay(time.Now())}
	if a, ok := m.sess.Editor.Activity(m.selected); ok {
		vals.start = domain.FormatDay(domain.AddDays(a.EffectiveEnd(), 1))
	}
	m.formVals = vals
	m.form = newActivityForm(vals)
	return m.form.Init()
}

func (m *chartModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.form, m.formVals = nil, nil
		m.setStatus("Cancelled.")
		return m, nil
	}
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		vals := m.formVals
		m.form, m.formVals = nil, nil
		m.addActivity(vals)
		return m, nil
	case huh.StateAborted:
		m.form, m.formVals = nil, nil
		m.setStatus("Cancelled.")
		return m, nil
	}
	return m, cmd
}

func (m *chartModel) addActivity(vals *activityFormValues) {
	a := &domain.Activity{
		ProjectID: m.sess.ProjectID,
		Name:      strings.TrimSpace(vals.name),
		Owner:     strings.TrimSpace(vals.owner),
	}
	start, err := domain.ParseDay(vals.start)
	if err != nil {
		m.setError(err)
		return
	}
	a.StartDate = start
	if strings.TrimSpace(vals.end) != "" {
		end, err := domain.ParseDay(vals.end)
		if err != nil {
			m.setError(err)
			return
		}
		a.EndDate = &end
	}
	if err := m.app.Activities.Create(m.ctx, a); err != nil {
		m.setError(err)
		return
	}
	if err := m.sess.Reload(m.ctx); err != nil {
		m.setError(err)
		return
	}
	m.selected = a.ID
	m.setStatus(fmt.Sprintf("Added %s (%s)", a.Name, formatter.DateRange(a.StartDate, a.EndDate)))
}

// ── rendering ───────────────────────────────────────────────────────────────

func (m *chartModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if m.form != nil {
		sections = append(sections, m.form.View())
	} else {
		opts := formatter.ChartOptions{Selected: m.selected}
		if m.sess.Editor.State() == scheduler.StateDragging {
			p := m.pointer
			opts.Marker = &p
		}
		cols := formatter.ChartColumns(m.width, formatter.DefaultLabelWidth)
		c := m.sess.Chart(float64(cols), timeline.TerminalGridConfig())
		sections = append(sections, formatter.FormatChart(c, opts))
	}

	if m.status != "" {
		if m.statusErr {
			sections = append(sections, formatter.StyleRed.Render(m.status))
		} else {
			sections = append(sections, m.status)
		}
	}
	sections = append(sections, m.renderHelp())

	return strings.Join(sections, "\n")
}

func (m *chartModel) renderHeader() string {
	title := formatter.StylePurple.Render("gantry") + " " + formatter.Dim("›") + " " +
		formatter.StyleHeader.Render(m.project.ShortID) + " " + formatter.Bold(m.project.Name)
	if m.sess.Editor.State() == scheduler.StateDragging {
		title += "  " + formatter.StyleYellow.Render("[dragging]")
	}
	sep := formatter.Dim(strings.Repeat("─", max(m.width, 20)))
	return title + "\n" + sep
}

func (m *chartModel) renderHelp() string {
	if m.form != nil {
		return formatter.Dim("enter: next  esc: cancel")
	}
	m.keys.dragging = m.sess.Editor.State() == scheduler.StateDragging
	sep := formatter.Dim(strings.Repeat("─", max(m.width, 20)))
	return sep + "\n" + m.help.ShortHelpView(m.keys.ShortHelp())
}
