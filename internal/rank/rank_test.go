package rank

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nissyi-gh/prio/internal/model"
)

var now = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func task(id string, importance int, effort float64, deadline time.Time) model.Task {
	return model.Task{ID: id, Name: id, Importance: importance, Effort: effort, Deadline: deadline}
}

func TestScore_Examples(t *testing.T) {
	a := task("a", 10, 1, now)
	b := task("b", 1, 10, now.Add(240*time.Hour))

	assert.Equal(t, 98, Score(a, now))
	assert.Equal(t, 8, Score(b, now))
}

func TestScore_DueNowMatchesFormula(t *testing.T) {
	for importance := 1; importance <= 10; importance++ {
		for _, effort := range []float64{0.5, 1, 2.5, 5, 7.25, 9.9, 10} {
			want := int(math.Round((float64(importance)/10*0.5 + 1*0.3 + (1-effort/10)*0.2) * 100))
			got := Score(task("t", importance, effort, now), now)
			assert.Equal(t, want, got, "importance=%d effort=%v", importance, effort)
		}
	}
}

func TestScore_Range(t *testing.T) {
	deadlines := []time.Time{now.Add(-1000 * time.Hour), now, now.Add(time.Hour), now.Add(10000 * time.Hour)}
	efforts := []float64{-3, 0, 0.5, 3, 10, 50, math.NaN(), math.Inf(1)}
	for _, d := range deadlines {
		for importance := -2; importance <= 12; importance++ {
			for _, e := range efforts {
				s := Score(task("t", importance, e, d), now)
				assert.GreaterOrEqual(t, s, 0)
				assert.LessOrEqual(t, s, 100)
			}
		}
	}
}

func TestScore_Monotonic(t *testing.T) {
	t.Run("deadline approaching", func(t *testing.T) {
		prev := -1
		for h := 1000; h >= 0; h -= 7 {
			s := Score(task("t", 5, 3, now.Add(time.Duration(h)*time.Hour)), now)
			assert.GreaterOrEqual(t, s, prev, "hours=%d", h)
			prev = s
		}
	})
	t.Run("importance increasing", func(t *testing.T) {
		prev := -1
		for i := 1; i <= 10; i++ {
			s := Score(task("t", i, 3, now.Add(48*time.Hour)), now)
			assert.GreaterOrEqual(t, s, prev)
			prev = s
		}
	})
	t.Run("effort increasing", func(t *testing.T) {
		prev := 101
		for e := 0.5; e <= 10; e += 0.5 {
			s := Score(task("t", 5, e, now.Add(48*time.Hour)), now)
			assert.LessOrEqual(t, s, prev, "effort=%v", e)
			prev = s
		}
		capped := Score(task("t", 5, 10, now.Add(48*time.Hour)), now)
		assert.Equal(t, capped, Score(task("t", 5, 40, now.Add(48*time.Hour)), now))
	})
}

func TestScore_OverduePinned(t *testing.T) {
	tk := task("t", 6, 2, now)
	due := Score(tk, now)
	assert.Equal(t, due, Score(tk, now.Add(time.Hour)))
	assert.Equal(t, due, Score(tk, now.Add(30*24*time.Hour)))
}

func TestScore_LaterInstantNotLower(t *testing.T) {
	tk := task("t", 4, 6, now.Add(72*time.Hour))
	prev := -1
	for h := 0; h <= 100; h += 5 {
		s := Score(tk, now.Add(time.Duration(h)*time.Hour))
		assert.GreaterOrEqual(t, s, prev)
		prev = s
	}
}

func TestRank_ExampleOrder(t *testing.T) {
	a := task("a", 10, 1, now)
	b := task("b", 1, 10, now.Add(240*time.Hour))

	for _, key := range []SortKey{ByScore, ByDeadline} {
		got := Rank([]model.Task{b, a}, now, key)
		require.Len(t, got, 2)
		assert.Equal(t, []string{"a", "b"}, ids(got), key.String())
		assert.Equal(t, 98, got[0].Score)
		assert.Equal(t, 8, got[1].Score)
	}
}

func TestRank_CompletedLast(t *testing.T) {
	tasks := []model.Task{
		{ID: "c1", Importance: 10, Effort: 1, Deadline: now, Completed: true},
		task("a1", 1, 9, now.Add(500*time.Hour)),
		{ID: "c2", Importance: 1, Effort: 9, Deadline: now.Add(-time.Hour), Completed: true},
		task("a2", 5, 5, now.Add(5*time.Hour)),
	}

	for _, key := range []SortKey{ByScore, ByDeadline} {
		got := Rank(tasks, now, key)
		require.Len(t, got, len(tasks))
		seenCompleted := false
		for _, r := range got {
			if r.Completed {
				seenCompleted = true
			} else {
				assert.False(t, seenCompleted, "active task %s after completed one", r.ID)
			}
		}
	}

	assert.Equal(t, []string{"a2", "a1", "c1", "c2"}, ids(Rank(tasks, now, ByScore)))
	assert.Equal(t, []string{"a2", "a1", "c2", "c1"}, ids(Rank(tasks, now, ByDeadline)))
}

func TestRank_StableTies(t *testing.T) {
	d := now.Add(24 * time.Hour)
	tasks := []model.Task{task("x", 5, 2, d), task("y", 5, 2, d), task("z", 5, 2, d)}

	assert.Equal(t, []string{"x", "y", "z"}, ids(Rank(tasks, now, ByScore)))
	assert.Equal(t, []string{"x", "y", "z"}, ids(Rank(tasks, now, ByDeadline)))
}

func TestRank_Properties(t *testing.T) {
	tasks := fixture(40)

	for _, key := range []SortKey{ByScore, ByDeadline} {
		got := Rank(tasks, now, key)

		// same ids, no drops or duplicates
		require.Len(t, got, len(tasks))
		seen := map[string]bool{}
		for _, r := range got {
			assert.False(t, seen[r.ID], "duplicate %s", r.ID)
			seen[r.ID] = true
		}
		for _, tk := range tasks {
			assert.True(t, seen[tk.ID], "missing %s", tk.ID)
		}

		for i := 1; i < len(got); i++ {
			if got[i-1].Completed != got[i].Completed {
				continue
			}
			if key == ByScore {
				assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
			} else {
				assert.False(t, got[i].Deadline.Before(got[i-1].Deadline))
			}
		}

		again := Rank(unranked(got), now, key)
		assert.Equal(t, ids(got), ids(again), "idempotent for %s", key)
	}
}

func TestRank_ScoresFromFields(t *testing.T) {
	low := task("low", 1, 9, now.Add(400*time.Hour))
	high := task("high", 9, 1, now.Add(2*time.Hour))
	got := Rank([]model.Task{low, high}, now, ByScore)
	assert.Equal(t, []string{"high", "low"}, ids(got))
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil, now, ByScore))
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]SortKey{"": ByScore, "score": ByScore, "-score": ByScore, "deadline": ByDeadline} {
		got, err := ParseSortKey(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseSortKey("importance")
	assert.ErrorIs(t, err, ErrUnknownSortKey)
}

func TestSortKey_Toggle(t *testing.T) {
	assert.Equal(t, ByDeadline, ByScore.Toggle())
	assert.Equal(t, ByScore, ByDeadline.Toggle())
}

func fixture(n int) []model.Task {
	tasks := make([]model.Task, n)
	for i := range tasks {
		tasks[i] = model.Task{
			ID:         fmt.Sprintf("t%02d", i),
			Importance: i%10 + 1,
			Effort:     float64(i%7) + 0.5,
			Deadline:   now.Add(time.Duration((i*37)%200-50) * time.Hour),
			Completed:  i%4 == 0,
		}
	}
	return tasks
}

func ids(ranked []Ranked) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.ID
	}
	return out
}

func unranked(ranked []Ranked) []model.Task {
	out := make([]model.Task, len(ranked))
	for i, r := range ranked {
		out[i] = r.Task
	}
	return out
}
