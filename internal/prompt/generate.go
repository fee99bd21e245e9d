package prompt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nissyi-gh/prio/internal/rank"
)

// maxTasks bounds how many active tasks go into a plan prompt.
const maxTasks = 10

const instructions = `You are a planning assistant. Using the prioritised task list below,
propose a schedule for today. Put the highest scored tasks first unless a
deadline forces a different order, and say which tasks should be postponed.

Score is 0-100 and blends importance (50%), deadline urgency (30%) and low
effort (20%).`

// DailyPlan returns a prompt asking an assistant to plan the day around the
// active tasks in ranked. ranked must already be ordered by rank.Rank.
func DailyPlan(ranked []rank.Ranked, now time.Time) string {
	var sb strings.Builder

	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("## Tasks (as of %s)\n", now.Format("2006-01-02 15:04 MST")))

	n := 0
	for _, r := range ranked {
		if r.Completed {
			continue
		}
		if n == maxTasks {
			break
		}
		n++
		sb.WriteString(fmt.Sprintf("%d. [%d] %s - due %s (%s), importance %d/10, effort %sh\n",
			n, r.Score, r.Name,
			r.Deadline.In(now.Location()).Format("2006-01-02 15:04"),
			r.TimeRemaining(now),
			r.Importance,
			formatHours(r.Effort),
		))
	}
	if n == 0 {
		sb.WriteString("(no active tasks)\n")
	}

	if done := countCompleted(ranked); done > 0 {
		sb.WriteString(fmt.Sprintf("\nAlready completed: %d task(s).\n", done))
	}
	return sb.String()
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func countCompleted(ranked []rank.Ranked) int {
	n := 0
	for _, r := range ranked {
		if r.Completed {
			n++
		}
	}
	return n
}
