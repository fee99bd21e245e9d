// Package rank computes task priority scores and orders task lists by them.
//
// Scores depend on the current time, so they are never stored: callers pass
// one instant per ranking pass and get freshly scored results back.
package rank

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/nissyi-gh/prio/internal/model"
)

const (
	importanceWeight = 0.5
	urgencyWeight    = 0.3
	effortWeight     = 0.2

	// effortCeiling is the effort in hours at which the effort term reaches zero.
	effortCeiling = 10.0
)

// SortKey selects the ordering within each partition.
type SortKey int

const (
	ByScore SortKey = iota
	ByDeadline
)

var ErrUnknownSortKey = errors.New("unknown sort key")

func (k SortKey) String() string {
	if k == ByDeadline {
		return "deadline"
	}
	return "score"
}

// Toggle returns the other sort key.
func (k SortKey) Toggle() SortKey {
	if k == ByScore {
		return ByDeadline
	}
	return ByScore
}

// ParseSortKey accepts "score", "-score" and "deadline". An empty string
// means ByScore.
func ParseSortKey(s string) (SortKey, error) {
	switch s {
	case "", "score", "-score":
		return ByScore, nil
	case "deadline":
		return ByDeadline, nil
	}
	return ByScore, fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

// Ranked is a task annotated with the score it had at ranking time.
type Ranked struct {
	model.Task
	Score int
}

// Score returns the priority of t at now, in [0,100].
//
// Importance is clamped into [1,10]. Effort at or below zero counts as no
// effort and NaN effort counts as maximal effort, so malformed records still
// score inside the range.
func Score(t model.Task, now time.Time) int {
	hours := math.Max(t.Deadline.Sub(now).Hours(), 0)

	importance := float64(min(max(t.Importance, 1), 10)) / 10
	urgency := 1 / (hours/24 + 1)

	effort := t.Effort
	if math.IsNaN(effort) {
		effort = effortCeiling
	}
	effortTerm := 1 - math.Min(1, math.Max(effort, 0)/effortCeiling)

	raw := (importance*importanceWeight + urgency*urgencyWeight + effortTerm*effortWeight) * 100
	return min(max(int(math.Round(raw)), 0), 100)
}

// Rank scores every task against now and orders them: active tasks first,
// then completed ones, each group sorted by key. Ties keep input order.
func Rank(tasks []model.Task, now time.Time, key SortKey) []Ranked {
	active := make([]Ranked, 0, len(tasks))
	var completed []Ranked
	for _, t := range tasks {
		r := Ranked{Task: t, Score: Score(t, now)}
		if t.Completed {
			completed = append(completed, r)
		} else {
			active = append(active, r)
		}
	}

	sortGroup(active, key)
	sortGroup(completed, key)
	return append(active, completed...)
}

func sortGroup(group []Ranked, key SortKey) {
	switch key {
	case ByDeadline:
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Deadline.Before(group[j].Deadline)
		})
	default:
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Score > group[j].Score
		})
	}
}
