package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nissyi-gh/prio/internal/model"
	"github.com/nissyi-gh/prio/internal/rank"
)

var bandColors = map[model.Band]lipgloss.Color{
	model.BandCritical: lipgloss.Color("196"),
	model.BandHigh:     lipgloss.Color("208"),
	model.BandMedium:   lipgloss.Color("220"),
	model.BandLow:      lipgloss.Color("70"),
	model.BandMinimal:  lipgloss.Color("241"),
}

func scoreBadge(score int) string {
	return lipgloss.NewStyle().
		Foreground(bandColors[model.BandFor(score)]).
		Bold(true).
		Render(fmt.Sprintf("[%3d]", score))
}

// TaskItem wraps a ranked task to satisfy the list.DefaultItem interface.
type TaskItem struct {
	rank.Ranked
	now time.Time
}

func (i TaskItem) Title() string {
	check := "[ ]"
	if i.Completed {
		check = "[x]"
	}
	dueMark := ""
	if i.IsOverdue(i.now) {
		dueMark = "⚠️ "
	}
	return fmt.Sprintf("%s %s %s%s", check, scoreBadge(i.Score), dueMark, i.Name)
}

func (i TaskItem) Description() string {
	return i.TimeRemaining(i.now)
}

func (i TaskItem) FilterValue() string {
	return i.Name
}

// sectionItem marks the start of the active or completed group.
type sectionItem struct {
	label string
	count int
}

func (s sectionItem) Title() string {
	return sectionStyle.Render(fmt.Sprintf("── %s (%d) ──", s.label, s.count))
}

func (s sectionItem) Description() string { return "" }

// FilterValue is empty so markers drop out of filtered views.
func (s sectionItem) FilterValue() string { return "" }
