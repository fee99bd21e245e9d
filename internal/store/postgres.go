package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nissyi-gh/prio/internal/model"
)

// PostgresStore persists tasks in PostgreSQL. It backs the API server when
// DATABASE_URL is configured.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ Repository = (*PostgresStore)(nil)

const postgresSchema = `CREATE TABLE IF NOT EXISTS tasks (
	id         TEXT             PRIMARY KEY,
	name       VARCHAR(200)     NOT NULL,
	deadline   TIMESTAMPTZ      NOT NULL,
	importance SMALLINT         NOT NULL DEFAULT 5 CHECK (importance BETWEEN 1 AND 10),
	effort     DOUBLE PRECISION NOT NULL DEFAULT 1 CHECK (effort >= 0.5),
	completed  BOOLEAN          NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ      NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ      NOT NULL DEFAULT now()
)`

// NewPostgresStore connects to databaseURL and ensures the schema exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresStore{pool: pool, now: time.Now}, nil
}

const pgSelectColumns = `SELECT id, name, deadline, importance, effort, completed, created_at, updated_at FROM tasks`

func scanPgTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(&t.ID, &t.Name, &t.Deadline, &t.Importance, &t.Effort, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *PostgresStore) List(ctx context.Context) ([]model.Task, error) {
	rows, err := s.pool.Query(ctx, pgSelectColumns+` ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanPgTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id string) (model.Task, error) {
	t, err := scanPgTask(s.pool.QueryRow(ctx, pgSelectColumns+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, fmt.Errorf("get task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, nil
}

func (s *PostgresStore) Add(ctx context.Context, n model.NewTask) (model.Task, error) {
	now := s.now()
	if err := n.Validate(now); err != nil {
		return model.Task{}, err
	}
	n = n.WithDefaults()

	t, err := scanPgTask(s.pool.QueryRow(ctx,
		`INSERT INTO tasks (id, name, deadline, importance, effort, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)
		 RETURNING id, name, deadline, importance, effort, completed, created_at, updated_at`,
		NewID(), n.Name, n.Deadline.UTC(), *n.Importance, *n.Effort, now.UTC(),
	))
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ToggleComplete(ctx context.Context, id string) (model.Task, error) {
	t, err := scanPgTask(s.pool.QueryRow(ctx,
		`UPDATE tasks SET completed = NOT completed, updated_at = $2 WHERE id = $1
		 RETURNING id, name, deadline, importance, effort, completed, created_at, updated_at`,
		id, s.now().UTC(),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, fmt.Errorf("toggle task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("toggle task %s: %w", id, err)
	}
	return t, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete task %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
