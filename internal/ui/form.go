package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nissyi-gh/prio/internal/model"
)

const (
	stepName = iota
	stepDeadline
	stepImportance
	stepEffort
	stepCount
)

var stepLabels = [stepCount]string{"Name", "Deadline", "Importance (1-10)", "Effort (hours)"}

// addForm collects a model.NewTask one field at a time.
type addForm struct {
	step       int
	name       textinput.Model
	deadline   dateInput
	importance textinput.Model
	effort     textinput.Model
}

func newAddForm(now time.Time) addForm {
	name := textinput.New()
	name.Placeholder = "Task name..."
	name.CharLimit = model.MaxNameLength

	deadline := newDateInput()
	deadline.SetValue(now.Add(24 * time.Hour).Truncate(time.Hour))

	importance := textinput.New()
	importance.Placeholder = strconv.Itoa(model.DefaultImportance)
	importance.CharLimit = 2
	importance.Width = 4

	effort := textinput.New()
	effort.Placeholder = strconv.FormatFloat(model.DefaultEffort, 'f', -1, 64)
	effort.CharLimit = 5
	effort.Width = 7

	return addForm{name: name, deadline: deadline, importance: importance, effort: effort}
}

func (f *addForm) Focus() tea.Cmd {
	f.name.Blur()
	f.deadline.Blur()
	f.importance.Blur()
	f.effort.Blur()

	switch f.step {
	case stepName:
		return f.name.Focus()
	case stepDeadline:
		return f.deadline.Focus()
	case stepImportance:
		return f.importance.Focus()
	default:
		return f.effort.Focus()
	}
}

// Next moves to the following field. It reports false on the last one.
func (f *addForm) Next() (tea.Cmd, bool) {
	if f.step == stepCount-1 {
		return nil, false
	}
	f.step++
	return f.Focus(), true
}

func (f *addForm) Prev() tea.Cmd {
	if f.step > 0 {
		f.step--
	}
	return f.Focus()
}

// Value assembles the input. Range checks are left to the repository.
func (f *addForm) Value(now time.Time) (model.NewTask, error) {
	deadline, err := f.deadline.Value(now)
	if err != nil {
		return model.NewTask{}, err
	}

	n := model.NewTask{Name: f.name.Value(), Deadline: deadline}
	if s := strings.TrimSpace(f.importance.Value()); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return model.NewTask{}, fmt.Errorf("importance must be a whole number")
		}
		n.Importance = &v
	}
	if s := strings.TrimSpace(f.effort.Value()); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.NewTask{}, fmt.Errorf("effort must be a number of hours")
		}
		n.Effort = &v
	}
	return n, nil
}

func (f addForm) Update(msg tea.Msg) (addForm, tea.Cmd) {
	var cmd tea.Cmd
	switch f.step {
	case stepName:
		f.name, cmd = f.name.Update(msg)
	case stepDeadline:
		f.deadline, cmd = f.deadline.Update(msg)
	case stepImportance:
		f.importance, cmd = f.importance.Update(msg)
	default:
		f.effort, cmd = f.effort.Update(msg)
	}
	return f, cmd
}

func (f addForm) View() string {
	views := [stepCount]string{f.name.View(), f.deadline.View(), f.importance.View(), f.effort.View()}

	var sb strings.Builder
	for i, label := range stepLabels {
		cursor := "  "
		if i == f.step {
			cursor = "> "
		}
		sb.WriteString(cursor + statusStyle.Render(label) + "\n")
		sb.WriteString("    " + views[i] + "\n\n")
	}
	return sb.String()
}
