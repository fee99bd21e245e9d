package api

import (
	"time"

	"github.com/nissyi-gh/prio/internal/model"
	"github.com/nissyi-gh/prio/internal/rank"
)

// TaskJSON is the wire form of a task. Score, TimeRemaining and IsOverdue
// are computed at response time.
type TaskJSON struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Deadline      time.Time `json:"deadline"`
	Importance    int       `json:"importance"`
	Effort        float64   `json:"effort"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Score         int       `json:"score"`
	TimeRemaining *string   `json:"time_remaining"`
	IsOverdue     bool      `json:"is_overdue"`
}

// CreateTaskRequest is the body of POST /api/tasks. Omitted importance
// and effort take their defaults; an explicit 0 is rejected.
type CreateTaskRequest struct {
	Name       string    `json:"name"`
	Deadline   time.Time `json:"deadline"`
	Importance *int      `json:"importance,omitempty"`
	Effort     *float64  `json:"effort,omitempty"`
	Imported   bool      `json:"imported,omitempty"`
}

// Event is pushed over the websocket feed after every mutation.
type Event struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

type errorResponse struct {
	Error string `json:"error"`
}

// NewTaskJSON renders a ranked task with the facts derived at now.
func NewTaskJSON(r rank.Ranked, now time.Time) TaskJSON {
	out := TaskJSON{
		ID:         r.ID,
		Name:       r.Name,
		Deadline:   r.Deadline,
		Importance: r.Importance,
		Effort:     r.Effort,
		Completed:  r.Completed,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		Score:      r.Score,
		IsOverdue:  r.IsOverdue(now),
	}
	if !r.Completed {
		remaining := r.TimeRemaining(now)
		out.TimeRemaining = &remaining
	}
	return out
}

func (t TaskJSON) model() model.Task {
	return model.Task{
		ID:         t.ID,
		Name:       t.Name,
		Deadline:   t.Deadline,
		Importance: t.Importance,
		Effort:     t.Effort,
		Completed:  t.Completed,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func (r CreateTaskRequest) model() model.NewTask {
	return model.NewTask{
		Name:       r.Name,
		Deadline:   r.Deadline,
		Importance: r.Importance,
		Effort:     r.Effort,
		Imported:   r.Imported,
	}
}
