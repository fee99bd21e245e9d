package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nissyi-gh/prio/internal/api"
	"github.com/nissyi-gh/prio/internal/logger"
	"github.com/nissyi-gh/prio/internal/model"
	"github.com/nissyi-gh/prio/internal/prompt"
	"github.com/nissyi-gh/prio/internal/rank"
	"github.com/nissyi-gh/prio/internal/store"
)

// refreshInterval is how often scores are recomputed while idle.
const refreshInterval = time.Minute

type appState int

const (
	stateList appState = iota
	stateAdd
	stateConfirm
)

var (
	appStyle     = lipgloss.NewStyle().Padding(1, 2)
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	confirmStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	detailStyle  = lipgloss.NewStyle().
			Padding(1, 2).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241"))
)

type extraKeyMap struct {
	Add    key.Binding
	Toggle key.Binding
	Delete key.Binding
	Sort   key.Binding
	Plan   key.Binding
}

func newExtraKeyMap() extraKeyMap {
	return extraKeyMap{
		Add: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a/n", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", "x"),
			key.WithHelp("enter/x", "toggle"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Plan: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "copy plan"),
		),
	}
}

func (k extraKeyMap) bindings() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.Sort, k.Plan}
}

// watcher is implemented by repositories that push change events.
type watcher interface {
	Watch(ctx context.Context) (<-chan api.Event, error)
}

// Model is the top-level BubbleTea model for the prio TUI.
type Model struct {
	ctx     context.Context
	state   appState
	list    list.Model
	form    addForm
	repo    store.Repository
	keys    extraKeyMap
	sortKey rank.SortKey
	tasks   []model.Task
	ranked  []rank.Ranked
	events  <-chan api.Event
	status  string
	err     error
	width   int
	height  int

	now      func() time.Time
	copyText func(string) error
}

type tasksLoadedMsg []model.Task
type errMsg struct{ error }
type tickMsg time.Time
type feedStartedMsg struct{ events <-chan api.Event }
type changeMsg api.Event
type feedClosedMsg struct{}

// NewModel creates a new TUI model over repo. ctx bounds repository calls
// and the change feed.
func NewModel(ctx context.Context, repo store.Repository) Model {
	keys := newExtraKeyMap()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	l := list.New(nil, delegate, 0, 0)
	l.Title = "prio"
	l.Styles.Title = titleStyle
	l.SetShowHelp(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = keys.bindings
	l.AdditionalFullHelpKeys = keys.bindings

	return Model{
		ctx:      ctx,
		state:    stateList,
		list:     l,
		repo:     repo,
		keys:     keys,
		sortKey:  rank.ByScore,
		now:      time.Now,
		copyText: clipboard.WriteAll,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadTasks, tick()}
	if _, ok := m.repo.(watcher); ok {
		cmds = append(cmds, m.startFeed)
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) loadTasks() tea.Msg {
	tasks, err := m.repo.List(m.ctx)
	if err != nil {
		return errMsg{err}
	}
	return tasksLoadedMsg(tasks)
}

func (m Model) startFeed() tea.Msg {
	w := m.repo.(watcher)
	events, err := w.Watch(m.ctx)
	if err != nil {
		logger.Warn("change feed unavailable", "error", err)
		return feedClosedMsg{}
	}
	return feedStartedMsg{events: events}
}

func (m Model) listen() tea.Msg {
	ev, ok := <-m.events
	if !ok {
		return feedClosedMsg{}
	}
	return changeMsg(ev)
}

// rerank recomputes every score with one instant and refreshes the list.
func (m *Model) rerank() {
	now := m.now()
	m.ranked = rank.Rank(m.tasks, now, m.sortKey)
	m.list.Title = fmt.Sprintf("prio · by %s", m.sortKey)

	selected := ""
	if item, ok := m.list.SelectedItem().(TaskItem); ok {
		selected = item.ID
	}

	items := BuildSections(m.ranked, now)
	m.list.SetItems(items)

	idx := firstTask(items)
	for i, it := range items {
		if item, ok := it.(TaskItem); ok && item.ID == selected {
			idx = i
			break
		}
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		leftWidth := (msg.Width - h) * 60 / 100
		m.list.SetSize(leftWidth, msg.Height-v)
		return m, nil

	case tasksLoadedMsg:
		m.tasks = []model.Task(msg)
		m.rerank()
		m.err = nil
		return m, nil

	case tickMsg:
		m.rerank()
		return m, tick()

	case feedStartedMsg:
		m.events = msg.events
		return m, m.listen

	case changeMsg:
		logger.Debug("change event", "type", msg.Type, "id", msg.ID)
		return m, tea.Batch(m.loadTasks, m.listen)

	case feedClosedMsg:
		m.events = nil
		return m, nil

	case errMsg:
		m.err = msg.error
		return m, nil
	}

	switch m.state {
	case stateList:
		return m.updateList(msg)
	case stateAdd:
		return m.updateAdd(msg)
	case stateConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.list.SettingFilter() {
		switch keyMsg.String() {
		case "a", "n":
			m.state = stateAdd
			m.form = newAddForm(m.now())
			m.err = nil
			cmd := m.form.Focus()
			return m, cmd
		case "enter", "x":
			if item, ok := m.list.SelectedItem().(TaskItem); ok {
				if _, err := m.repo.ToggleComplete(m.ctx, item.ID); err != nil {
					m.err = err
					return m, nil
				}
				return m, m.loadTasks
			}
		case "s":
			m.sortKey = m.sortKey.Toggle()
			m.rerank()
			return m, nil
		case "p":
			text := prompt.DailyPlan(m.ranked, m.now())
			if err := m.copyText(text); err != nil {
				m.err = fmt.Errorf("copy to clipboard: %w", err)
				return m, nil
			}
			m.status = "Daily plan prompt copied to clipboard"
			return m, nil
		case "d":
			if _, ok := m.list.SelectedItem().(TaskItem); ok {
				m.state = stateConfirm
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if cmd, ok := m.form.Next(); ok {
				return m, cmd
			}
			n, err := m.form.Value(m.now())
			if err != nil {
				m.err = err
				return m, nil
			}
			if _, err := m.repo.Add(m.ctx, n); err != nil {
				m.err = err
				return m, nil
			}
			m.state = stateList
			m.err = nil
			return m, m.loadTasks
		case "up":
			cmd := m.form.Prev()
			return m, cmd
		case "esc":
			m.state = stateList
			m.err = nil
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y":
			if item, ok := m.list.SelectedItem().(TaskItem); ok {
				if err := m.repo.Delete(m.ctx, item.ID); err != nil {
					m.err = err
					m.state = stateList
					return m, nil
				}
			}
			m.state = stateList
			return m, m.loadTasks
		case "n", "esc":
			m.state = stateList
			return m, nil
		}
	}
	return m, nil
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return statusStyle.Render("(no task selected)")
	}
	now := m.now()

	remaining := item.TimeRemaining(now)
	switch {
	case item.Completed:
		remaining = "completed"
	case item.IsOverdue(now):
		remaining = errorStyle.Render("⚠️ " + remaining)
	}

	return fmt.Sprintf("%s\n\n%s %s\n\ndeadline:   %s\nremaining:  %s\nimportance: %d/10\neffort:     %sh\n\ncreated_at: %s",
		titleStyle.Render(item.Name),
		scoreBadge(item.Score),
		statusStyle.Render(string(model.BandFor(item.Score))),
		item.Deadline.In(now.Location()).Format("2006-01-02 15:04"),
		remaining,
		item.Importance,
		formatEffort(item.Effort),
		item.CreatedAt.In(now.Location()).Format("2006-01-02 15:04"),
	)
}

func formatEffort(h float64) string {
	return fmt.Sprintf("%g", h)
}

func (m Model) View() string {
	var errView string
	if m.err != nil {
		errView = "\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	switch m.state {
	case stateAdd:
		return appStyle.Render(
			titleStyle.Render("New Task") + "\n\n" +
				m.form.View() +
				statusStyle.Render("enter: next/save • up: back • tab/←/→: date fields • esc: cancel") +
				errView,
		)
	case stateConfirm:
		item, _ := m.list.SelectedItem().(TaskItem)
		return appStyle.Render(
			confirmStyle.Render("Delete Task?") + "\n\n" +
				"  " + item.Name + "\n\n" +
				statusStyle.Render("y: delete • n/esc: cancel") +
				errView,
		)
	default:
		h, v := appStyle.GetFrameSize()
		contentWidth := m.width - h
		contentHeight := m.height - v
		rightWidth := contentWidth - contentWidth*60/100

		rightPane := detailStyle.
			Width(rightWidth).
			Height(contentHeight).
			Render(m.renderDetail())
		content := lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), rightPane)

		var statusView string
		if m.status != "" {
			statusView = "\n" + statusStyle.Render(m.status)
		}
		return appStyle.Render(content + statusView + errView)
	}
}
