package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/list"

	"github.com/nissyi-gh/prio/internal/rank"
)

// BuildSections turns a ranked list into list items, inserting an "Active"
// marker before the first active task and a "Completed" marker before the
// first completed one. Empty groups get no marker.
func BuildSections(ranked []rank.Ranked, now time.Time) []list.Item {
	active := 0
	for _, r := range ranked {
		if !r.Completed {
			active++
		}
	}
	completed := len(ranked) - active

	items := make([]list.Item, 0, len(ranked)+2)
	if active > 0 {
		items = append(items, sectionItem{label: "Active", count: active})
	}
	for i, r := range ranked {
		if r.Completed && (i == 0 || !ranked[i-1].Completed) {
			items = append(items, sectionItem{label: "Completed", count: completed})
		}
		items = append(items, TaskItem{Ranked: r, now: now})
	}
	return items
}

// firstTask returns the index of the first TaskItem in items, or -1.
func firstTask(items []list.Item) int {
	for i, it := range items {
		if _, ok := it.(TaskItem); ok {
			return i
		}
	}
	return -1
}
