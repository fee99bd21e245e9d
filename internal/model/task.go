package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultImportance = 5
	DefaultEffort     = 1.0
	MinEffort         = 0.5
	MaxNameLength     = 200
)

// ErrInvalidTask is wrapped by every validation failure.
var ErrInvalidTask = errors.New("invalid task")

// Task represents a single task as stored by any repository.
// The priority score is not part of it; see package rank.
type Task struct {
	ID         string
	Name       string
	Deadline   time.Time
	Importance int
	Effort     float64
	Completed  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewTask is the input for creating a task. Nil Importance and Effort
// mean "use the default"; explicit values, zero included, are validated.
type NewTask struct {
	Name       string
	Deadline   time.Time
	Importance *int
	Effort     *float64
	// Imported tasks keep deadlines that have already passed.
	Imported bool
}

// Ptr returns a pointer to v, for the optional NewTask fields.
func Ptr[T any](v T) *T {
	return &v
}

// WithDefaults trims the name and fills unset importance and effort.
// The returned NewTask always has non-nil Importance and Effort.
func (n NewTask) WithDefaults() NewTask {
	n.Name = strings.TrimSpace(n.Name)
	if n.Importance == nil {
		n.Importance = Ptr(DefaultImportance)
	}
	if n.Effort == nil {
		n.Effort = Ptr(DefaultEffort)
	}
	return n
}

// Validate checks n after defaults are applied. Deadlines before now are
// rejected at creation unless n is Imported; existing tasks may still
// become overdue.
func (n NewTask) Validate(now time.Time) error {
	n = n.WithDefaults()
	switch {
	case n.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidTask)
	case len([]rune(n.Name)) > MaxNameLength:
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidTask, MaxNameLength)
	case n.Deadline.IsZero():
		return fmt.Errorf("%w: deadline is required", ErrInvalidTask)
	case !n.Imported && n.Deadline.Before(now):
		return fmt.Errorf("%w: deadline cannot be in the past", ErrInvalidTask)
	case *n.Importance < 1 || *n.Importance > 10:
		return fmt.Errorf("%w: importance must be between 1 and 10", ErrInvalidTask)
	case !(*n.Effort >= MinEffort):
		return fmt.Errorf("%w: effort must be at least %.1f hours", ErrInvalidTask, MinEffort)
	}
	return nil
}

// IsOverdue returns true if the task is past its deadline and not completed.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.Deadline.Before(now)
}

// TimeRemaining describes the time left until the deadline, e.g. "2 days 3 hours".
// Completed tasks return an empty string.
func (t Task) TimeRemaining(now time.Time) string {
	if t.Completed {
		return ""
	}
	d := t.Deadline.Sub(now)
	if d <= 0 {
		return "Overdue"
	}
	days := int(d / (24 * time.Hour))
	hours := int((d % (24 * time.Hour)) / time.Hour)
	if days > 0 {
		return fmt.Sprintf("%s %s", plural(days, "day"), plural(hours, "hour"))
	}
	return plural(hours, "hour")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
