package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nissyi-gh/prio/internal/model"
)

// Integration-style test: runs only if DATABASE_URL is set.
func TestPostgresStoreIntegration(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	ctx := context.Background()

	s, err := NewPostgresStore(ctx, url)
	require.NoError(t, err)
	defer s.Close()

	added, err := s.Add(ctx, model.NewTask{Name: "pg task", Deadline: time.Now().Add(time.Hour), Importance: model.Ptr(7)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Delete(context.Background(), added.ID) })
	assert.Equal(t, 7, added.Importance)

	got, err := s.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "pg task", got.Name)

	toggled, err := s.ToggleComplete(ctx, added.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, tasks)

	require.NoError(t, s.Delete(ctx, added.ID))
	_, err = s.Get(ctx, added.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, added.ID), ErrNotFound)
}
