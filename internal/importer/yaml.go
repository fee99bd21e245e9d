package importer

import (
	"context"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nissyi-gh/prio/internal/model"
	"github.com/nissyi-gh/prio/internal/store"
)

// YAMLTask represents a single task in the YAML document.
type YAMLTask struct {
	Name       string    `yaml:"name"`
	Deadline   time.Time `yaml:"deadline"`
	Importance *int      `yaml:"importance,omitempty"`
	Effort     *float64  `yaml:"effort,omitempty"`
	Completed  bool      `yaml:"completed,omitempty"`
}

// YAMLDocument represents the root structure of the YAML document.
type YAMLDocument struct {
	Tasks []YAMLTask `yaml:"tasks"`
}

// Import parses a YAML document and creates its tasks in repo. Every task
// is validated first, so an invalid document creates nothing. Deadlines
// that have already passed are kept. A repository failure part way
// through returns the number created so far.
func Import(ctx context.Context, repo store.Repository, r io.Reader) (int, error) {
	var doc YAMLDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("YAML parse error: %w", err)
	}

	if len(doc.Tasks) == 0 {
		return 0, fmt.Errorf("no tasks found in YAML")
	}

	now := time.Now()
	for i, yt := range doc.Tasks {
		if err := yt.newTask().Validate(now); err != nil {
			return 0, fmt.Errorf("task %d (%q): %w", i+1, yt.Name, err)
		}
	}

	count := 0
	for _, yt := range doc.Tasks {
		if err := importTask(ctx, repo, yt); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (yt YAMLTask) newTask() model.NewTask {
	return model.NewTask{
		Name:       yt.Name,
		Deadline:   yt.Deadline,
		Importance: yt.Importance,
		Effort:     yt.Effort,
		Imported:   true,
	}
}

func importTask(ctx context.Context, repo store.Repository, yt YAMLTask) error {
	task, err := repo.Add(ctx, yt.newTask())
	if err != nil {
		return fmt.Errorf("add task %q: %w", yt.Name, err)
	}

	if yt.Completed {
		if _, err := repo.ToggleComplete(ctx, task.ID); err != nil {
			return fmt.Errorf("complete task %q: %w", yt.Name, err)
		}
	}
	return nil
}

// Export writes tasks as a YAML document that Import accepts.
func Export(w io.Writer, tasks []model.Task) error {
	doc := YAMLDocument{Tasks: make([]YAMLTask, len(tasks))}
	for i, t := range tasks {
		doc.Tasks[i] = YAMLTask{
			Name:       t.Name,
			Deadline:   t.Deadline.UTC(),
			Importance: model.Ptr(t.Importance),
			Effort:     model.Ptr(t.Effort),
			Completed:  t.Completed,
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	return enc.Close()
}
