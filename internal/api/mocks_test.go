package api

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nissyi-gh/prio/internal/model"
	"github.com/nissyi-gh/prio/internal/store"
)

var (
	now          = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	ErrMockStore = errors.New("store unavailable")
)

// memRepo is an in-memory store.Repository with a fixed clock.
type memRepo struct {
	mu    sync.Mutex
	tasks []model.Task
	seq   int
	fail  bool
}

func (m *memRepo) List(ctx context.Context) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, ErrMockStore
	}
	return append([]model.Task(nil), m.tasks...), nil
}

func (m *memRepo) Get(ctx context.Context, id string) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, fmt.Errorf("get task %s: %w", id, store.ErrNotFound)
}

func (m *memRepo) Add(ctx context.Context, n model.NewTask) (model.Task, error) {
	if err := n.Validate(now); err != nil {
		return model.Task{}, err
	}
	n = n.WithDefaults()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := model.Task{
		ID:         fmt.Sprintf("task-%d", m.seq),
		Name:       n.Name,
		Deadline:   n.Deadline,
		Importance: *n.Importance,
		Effort:     *n.Effort,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.tasks = append(m.tasks, t)
	return t, nil
}

// put stores t as-is, bypassing validation.
func (m *memRepo) put(t model.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, t)
}

func (m *memRepo) ToggleComplete(ctx context.Context, id string) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Completed = !m.tasks[i].Completed
			return m.tasks[i], nil
		}
	}
	return model.Task{}, fmt.Errorf("toggle task %s: %w", id, store.ErrNotFound)
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete task %s: %w", id, store.ErrNotFound)
}

func (m *memRepo) Close() error { return nil }
