package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nissyi-gh/prio/internal/model"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore manages local SQLite persistence for tasks.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Repository = (*SQLiteStore)(nil)

// DefaultDBPath returns $XDG_DATA_HOME/prio/prio.db, creating the directory.
func DefaultDBPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	dir := filepath.Join(dataHome, "prio")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "prio.db"), nil
}

// NewSQLiteStore opens (or creates) the SQLite database and ensures the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		var err error
		dbPath, err = DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("determine db path: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS tasks (
		id         TEXT    PRIMARY KEY,
		name       TEXT    NOT NULL,
		deadline   TEXT    NOT NULL,
		importance INTEGER NOT NULL DEFAULT 5,
		effort     REAL    NOT NULL DEFAULT 1,
		completed  INTEGER NOT NULL DEFAULT 0,
		created_at TEXT    NOT NULL,
		updated_at TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	if err := migrateUpdatedAt(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate updated_at: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

func hasColumn(db *sql.DB, column string) (bool, error) {
	rows, err := db.Query("PRAGMA table_info(tasks)")
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dfltValue sql.NullString
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// migrateUpdatedAt adds updated_at to databases created before it existed.
func migrateUpdatedAt(db *sql.DB) error {
	ok, err := hasColumn(db, "updated_at")
	if err != nil || ok {
		return err
	}
	if _, err := db.Exec("ALTER TABLE tasks ADD COLUMN updated_at TEXT"); err != nil {
		return err
	}
	_, err = db.Exec("UPDATE tasks SET updated_at = created_at WHERE updated_at IS NULL")
	return err
}

const selectColumns = "SELECT id, name, deadline, importance, effort, completed, created_at, updated_at FROM tasks"

func scanTask(scanner interface{ Scan(...any) error }) (model.Task, error) {
	var t model.Task
	var comp int
	var deadline, created string
	var updated sql.NullString
	if err := scanner.Scan(&t.ID, &t.Name, &deadline, &t.Importance, &t.Effort, &comp, &created, &updated); err != nil {
		return model.Task{}, err
	}
	t.Completed = comp != 0

	var err error
	if t.Deadline, err = time.Parse(timeLayout, deadline); err != nil {
		return model.Task{}, fmt.Errorf("parse deadline: %w", err)
	}
	if t.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return model.Task{}, fmt.Errorf("parse created_at: %w", err)
	}
	t.UpdatedAt = t.CreatedAt
	if updated.Valid {
		if t.UpdatedAt, err = time.Parse(timeLayout, updated.String); err != nil {
			return model.Task{}, fmt.Errorf("parse updated_at: %w", err)
		}
	}
	return t, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Add validates n, inserts it and returns the stored task.
func (s *SQLiteStore) Add(ctx context.Context, n model.NewTask) (model.Task, error) {
	now := s.now()
	if err := n.Validate(now); err != nil {
		return model.Task{}, err
	}
	n = n.WithDefaults()

	id := NewID()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks (id, name, deadline, importance, effort, completed, created_at, updated_at) VALUES (?, ?, ?, ?, ?, 0, ?, ?)",
		id, n.Name, formatTime(n.Deadline), *n.Importance, *n.Effort, formatTime(now), formatTime(now),
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return s.Get(ctx, id)
}

// List returns all tasks in creation order.
func (s *SQLiteStore) List(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Get retrieves a single task by its ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (model.Task, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, fmt.Errorf("get task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, nil
}

// ToggleComplete atomically flips the completed status of a task.
func (s *SQLiteStore) ToggleComplete(ctx context.Context, id string) (model.Task, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET completed = 1 - completed, updated_at = ? WHERE id = ?",
		formatTime(s.now()), id,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("toggle task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Task{}, fmt.Errorf("toggle task %s: %w", id, ErrNotFound)
	}
	return s.Get(ctx, id)
}

// Delete removes a task by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete task %s: %w", id, ErrNotFound)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
