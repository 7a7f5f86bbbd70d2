package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskcore/taskmanager/internal/domain"
	"github.com/taskcore/taskmanager/internal/logger"
)

const taskColumns = "id, title, description, status, created_date"

// PgStore is the relational backend: one tasks table with a tsvector
// index for language-aware search. Connections come from the pool per
// operation and are released on every exit path; multi-statement
// mutations run inside a transaction that rolls back on failure.
type PgStore struct {
	db *sql.DB
}

func NewPgStore(db *sql.DB) *PgStore {
	return &PgStore{db: db}
}

// InitSchema creates the tasks table and the full-text indexes. Safe to
// run on every startup.
func InitSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id SERIAL PRIMARY KEY,
			title VARCHAR(50) NOT NULL,
			description TEXT NOT NULL,
			status VARCHAR(20) DEFAULT 'Pending',
			created_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_title
			ON tasks USING GIN (to_tsvector('english', title))`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_description
			ON tasks USING GIN (to_tsvector('english', description))`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	logger.InfoLog(ctx, "database schema initialized")
	return nil
}

// Add inserts and returns the fully materialized row; id and
// created_date come from the database defaults.
func (s *PgStore) Add(ctx context.Context, title, description string) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description)
		VALUES ($1, $2)
		RETURNING `+taskColumns,
		title, description)

	task, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}
	logger.InfoLog(ctx, fmt.Sprintf("added task ID %d: %s", task.ID, task.Title))
	return task, nil
}

func (s *PgStore) GetAll(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY created_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (s *PgStore) GetByID(ctx context.Context, id int) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1`, id)

	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return task, nil
}

func (s *PgStore) Update(ctx context.Context, task *domain.Task) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, status = $3
		WHERE id = $4`,
		task.Title, task.Description, task.Status, task.ID)
	if err != nil {
		return fmt.Errorf("update task %d: %w", task.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task %d: %w", task.ID, err)
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}
	logger.InfoLog(ctx, fmt.Sprintf("updated task ID %d: %s", task.ID, task.Title))
	return nil
}

// Delete fetches the row first so it can be returned, then removes it.
// Both statements share one transaction so a failure leaves nothing
// half-applied.
func (s *PgStore) Delete(ctx context.Context, id int) (*domain.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("delete task %d: %w", id, err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete task %d: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete task %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("delete task %d: %w", id, err)
	}
	logger.InfoLog(ctx, fmt.Sprintf("deleted task ID %d: %s", id, task.Title))
	return task, nil
}

// Search combines the tsvector index with ILIKE substring clauses. The
// index catches stemmed whole-word matches, the substring clauses catch
// partial words the index would miss.
func (s *PgStore) Search(ctx context.Context, keyword, status string) ([]domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE (to_tsvector('english', title || ' ' || description) @@ plainto_tsquery('english', $1)
			OR title ILIKE $2
			OR description ILIKE $2)`
	args := []any{keyword, "%" + keyword + "%"}
	if status != "" {
		query += ` AND status = $3`
		args = append(args, status)
	}
	query += ` ORDER BY created_date DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search tasks %q: %w", keyword, err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// Statistics computes all four counts in one conditional aggregation so
// they reflect a single snapshot.
func (s *PgStore) Statistics(ctx context.Context) (*domain.TaskStats, error) {
	var stats domain.TaskStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) AS total_tasks,
			COUNT(CASE WHEN status = 'Pending' THEN 1 END) AS pending_tasks,
			COUNT(CASE WHEN status = 'Completed' THEN 1 END) AS completed_tasks,
			COUNT(CASE WHEN created_date >= CURRENT_DATE THEN 1 END) AS tasks_today
		FROM tasks`).
		Scan(&stats.Total, &stats.Pending, &stats.Completed, &stats.CreatedToday)
	if err != nil {
		return nil, fmt.Errorf("task statistics: %w", err)
	}
	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedDate); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTasks(rows *sql.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return tasks, nil
}
