package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nissyi-gh/prio/internal/model"
)

var now = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	s.now = func() time.Time { return now }
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewSQLiteStore_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := NewSQLiteStore(path)
	require.NoError(t, err)
	_, err = s1.Add(ctx, model.NewTask{Name: "keep", Deadline: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s2.Close()

	tasks, err := s2.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "keep", tasks[0].Name)
}

func TestNewSQLiteStore_MigratesOldSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE tasks (
		id TEXT PRIMARY KEY, name TEXT NOT NULL, deadline TEXT NOT NULL,
		importance INTEGER NOT NULL DEFAULT 5, effort REAL NOT NULL DEFAULT 1,
		completed INTEGER NOT NULL DEFAULT 0, created_at TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO tasks (id, name, deadline, created_at) VALUES (?, ?, ?, ?)`,
		"legacy", "old task", formatTime(now.Add(time.Hour)), formatTime(now))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(context.Background(), "legacy")
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.Equal(now))
	assert.Equal(t, 5, got.Importance)
}

func TestNewSQLiteStore_FreshSchemaHasUpdatedAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	var sqlText string
	require.NoError(t, db.QueryRow(`SELECT sql FROM sqlite_master WHERE name = 'tasks'`).Scan(&sqlText))
	assert.Contains(t, sqlText, "updated_at TEXT\n")
}

func TestSQLiteStore_CorruptTimestamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	added, err := s.Add(ctx, model.NewTask{Name: "x", Deadline: now.Add(time.Hour)})
	require.NoError(t, err)

	_, err = s.db.Exec("UPDATE tasks SET updated_at = 'yesterday' WHERE id = ?", added.ID)
	require.NoError(t, err)

	_, err = s.Get(ctx, added.ID)
	assert.ErrorContains(t, err, "parse updated_at")
	_, err = s.List(ctx)
	assert.ErrorContains(t, err, "parse updated_at")
}

func TestSQLiteStore_AddAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	deadline := now.Add(26 * time.Hour)

	added, err := s.Add(ctx, model.NewTask{Name: "Write report", Deadline: deadline, Importance: model.Ptr(8), Effort: model.Ptr(2.5)})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "Write report", added.Name)
	assert.True(t, added.Deadline.Equal(deadline))
	assert.Equal(t, 8, added.Importance)
	assert.Equal(t, 2.5, added.Effort)
	assert.False(t, added.Completed)
	assert.True(t, added.CreatedAt.Equal(now))

	got, err := s.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)
}

func TestSQLiteStore_AddDefaults(t *testing.T) {
	s := newTestStore(t)
	added, err := s.Add(context.Background(), model.NewTask{Name: "x", Deadline: now.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultImportance, added.Importance)
	assert.Equal(t, model.DefaultEffort, added.Effort)

	_, err = s.Add(context.Background(), model.NewTask{Name: "x", Deadline: now.Add(time.Hour), Importance: model.Ptr(0)})
	assert.ErrorIs(t, err, model.ErrInvalidTask)
}

func TestSQLiteStore_AddImportedPastDeadline(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	past := now.Add(-2 * time.Hour)

	_, err := s.Add(ctx, model.NewTask{Name: "late", Deadline: past})
	assert.ErrorIs(t, err, model.ErrInvalidTask)

	added, err := s.Add(ctx, model.NewTask{Name: "late", Deadline: past, Imported: true})
	require.NoError(t, err)
	assert.True(t, added.Deadline.Equal(past))
	assert.True(t, added.IsOverdue(now))
}

func TestSQLiteStore_AddRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Add(context.Background(), model.NewTask{Name: "", Deadline: now.Add(time.Hour)})
	assert.ErrorIs(t, err, model.ErrInvalidTask)

	tasks, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestSQLiteStore_ListCreationOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for i, name := range []string{"first", "second", "third"} {
		s.now = func() time.Time { return now.Add(time.Duration(i) * time.Second) }
		_, err := s.Add(ctx, model.NewTask{Name: name, Deadline: now.Add(time.Hour)})
		require.NoError(t, err)
	}

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "first", tasks[0].Name)
	assert.Equal(t, "second", tasks[1].Name)
	assert.Equal(t, "third", tasks[2].Name)
}

func TestSQLiteStore_ToggleComplete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	added, err := s.Add(ctx, model.NewTask{Name: "x", Deadline: now.Add(time.Hour)})
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(time.Minute) }
	toggled, err := s.ToggleComplete(ctx, added.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.True(t, toggled.UpdatedAt.Equal(now.Add(time.Minute)))

	toggled, err = s.ToggleComplete(ctx, added.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)
}

func TestSQLiteStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	added, err := s.Add(ctx, model.NewTask{Name: "x", Deadline: now.Add(time.Hour)})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, added.ID))
	_, err = s.Get(ctx, added.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_MissingID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.ToggleComplete(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "nope"), ErrNotFound)
}

func TestNewID_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.False(t, seen[id])
		seen[id] = true
	}
}
