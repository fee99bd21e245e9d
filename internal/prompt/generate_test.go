package prompt

import (
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/nissyi-gh/prio/internal/model"
	"github.com/nissyi-gh/prio/internal/rank"
)

var now = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func TestDailyPlan(t *testing.T) {
	tasks := []model.Task{
		{ID: "b", Name: "Clean garage", Deadline: now.Add(240 * time.Hour), Importance: 1, Effort: 10},
		{ID: "d", Name: "Renew passport", Deadline: now.Add(48 * time.Hour), Importance: 9, Effort: 2, Completed: true},
		{ID: "a", Name: "Write report", Deadline: now, Importance: 10, Effort: 1},
		{ID: "c", Name: "Call bank", Deadline: now.Add(26 * time.Hour), Importance: 5, Effort: 2.5},
	}

	out := DailyPlan(rank.Rank(tasks, now, rank.ByScore), now)

	g := goldie.New(t)
	g.Assert(t, "daily_plan", []byte(out))
}

func TestDailyPlan_NoActiveTasks(t *testing.T) {
	out := DailyPlan(nil, now)

	g := goldie.New(t)
	g.Assert(t, "daily_plan_empty", []byte(out))
}

func TestDailyPlan_LimitsActiveTasks(t *testing.T) {
	var tasks []model.Task
	for i := 0; i < maxTasks+5; i++ {
		tasks = append(tasks, model.Task{
			ID:         string(rune('a' + i)),
			Name:       "task",
			Deadline:   now.Add(time.Duration(i+1) * time.Hour),
			Importance: 5,
			Effort:     1,
		})
	}

	out := DailyPlan(rank.Rank(tasks, now, rank.ByDeadline), now)

	assert.Contains(t, out, "10. [")
	assert.NotContains(t, out, "11. [")
	assert.NotContains(t, out, "Already completed")
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "1", formatHours(1))
	assert.Equal(t, "2.5", formatHours(2.5))
	assert.Equal(t, "10", formatHours(10))
	assert.Equal(t, "0.75", formatHours(0.75))
}
