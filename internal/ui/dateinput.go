package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldYear = iota
	fieldMonth
	fieldDay
	fieldHour
	fieldMinute
	dateFieldCount
)

// dateInput edits a deadline as YYYY-MM-DD HH:MM in separate fields.
type dateInput struct {
	fields [dateFieldCount]textinput.Model
	focus  int
}

func newDateInput() dateInput {
	placeholders := [dateFieldCount]string{"YYYY", "MM", "DD", "hh", "mm"}
	charLimits := [dateFieldCount]int{4, 2, 2, 2, 2}

	var fields [dateFieldCount]textinput.Model
	for i := range fields {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = charLimits[i]
		ti.Width = charLimits[i] + 2
		ti.Validate = func(s string) error {
			for _, r := range s {
				if !unicode.IsDigit(r) {
					return fmt.Errorf("digits only")
				}
			}
			return nil
		}
		fields[i] = ti
	}

	return dateInput{fields: fields}
}

func (d *dateInput) Focus() tea.Cmd {
	return d.focusField(0)
}

func (d *dateInput) Blur() {
	for i := range d.fields {
		d.fields[i].Blur()
	}
}

func (d *dateInput) SetValue(t time.Time) {
	d.fields[fieldYear].SetValue(fmt.Sprintf("%04d", t.Year()))
	d.fields[fieldMonth].SetValue(fmt.Sprintf("%02d", int(t.Month())))
	d.fields[fieldDay].SetValue(fmt.Sprintf("%02d", t.Day()))
	d.fields[fieldHour].SetValue(fmt.Sprintf("%02d", t.Hour()))
	d.fields[fieldMinute].SetValue(fmt.Sprintf("%02d", t.Minute()))
}

// Value parses the fields in now's location. Year and month default to
// now's; a missing time means end of day.
func (d *dateInput) Value(now time.Time) (time.Time, error) {
	get := func(i int) string { return strings.TrimSpace(d.fields[i].Value()) }
	yyyy, mo, dd, hh, mi := get(fieldYear), get(fieldMonth), get(fieldDay), get(fieldHour), get(fieldMinute)

	if yyyy == "" {
		yyyy = fmt.Sprintf("%04d", now.Year())
	}
	if mo == "" {
		mo = fmt.Sprintf("%02d", int(now.Month()))
	}
	if dd == "" {
		return time.Time{}, fmt.Errorf("day is required")
	}
	switch {
	case hh == "" && mi == "":
		hh, mi = "23", "59"
	case mi == "":
		mi = "00"
	case hh == "":
		hh = "00"
	}

	s := fmt.Sprintf("%s-%s-%s %s:%s", yyyy, padLeft(mo, 2), padLeft(dd, 2), padLeft(hh, 2), padLeft(mi, 2))
	t, err := time.ParseInLocation("2006-01-02 15:04", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %s", s)
	}
	return t, nil
}

func padLeft(s string, length int) string {
	for len(s) < length {
		s = "0" + s
	}
	return s
}

func (d *dateInput) focusField(idx int) tea.Cmd {
	d.focus = idx
	var cmds []tea.Cmd
	for i := range d.fields {
		if i == idx {
			cmds = append(cmds, d.fields[i].Focus())
		} else {
			d.fields[i].Blur()
		}
	}
	return tea.Batch(cmds...)
}

func (d dateInput) Update(msg tea.Msg) (dateInput, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "right":
			if d.focus < dateFieldCount-1 {
				cmd := d.focusField(d.focus + 1)
				return d, cmd
			}
			return d, nil
		case "shift+tab", "left":
			if d.focus > 0 {
				cmd := d.focusField(d.focus - 1)
				return d, cmd
			}
			return d, nil
		}
	}

	var cmd tea.Cmd
	d.fields[d.focus], cmd = d.fields[d.focus].Update(msg)
	return d, cmd
}

func (d dateInput) View() string {
	f := d.fields
	return f[fieldYear].View() + " - " + f[fieldMonth].View() + " - " + f[fieldDay].View() +
		"   " + f[fieldHour].View() + " : " + f[fieldMinute].View()
}
