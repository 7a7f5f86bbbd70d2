package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Task status values. A task starts Pending and can only move to Completed.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)

// DateLayout is the canonical rendering of created_date in every
// serialized form (task file, API responses, Elasticsearch documents).
const DateLayout = "2006-01-02 15:04:05"

// Task is the core record representing one unit of work.
type Task struct {
	ID          int
	Title       string
	Description string
	Status      string
	CreatedDate time.Time
}

// NewTask builds a Pending task stamped with the process clock at second
// resolution, so the timestamp survives a serialize/parse round trip
// unchanged.
func NewTask(id int, title, description string) Task {
	return Task{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      StatusPending,
		CreatedDate: time.Now().In(time.Local).Truncate(time.Second),
	}
}

// TaskDocument is the flat serialized form of a Task.
type TaskDocument struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedDate string `json:"created_date"`
}

// ToDocument converts a Task to its serialized form.
func (t Task) ToDocument() TaskDocument {
	return TaskDocument{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedDate: t.CreatedDate.Format(DateLayout),
	}
}

// TaskFromDocument rebuilds a Task from its serialized form.
// TaskFromDocument(t.ToDocument()) reproduces t exactly.
func TaskFromDocument(doc TaskDocument) (Task, error) {
	created, err := time.ParseInLocation(DateLayout, doc.CreatedDate, time.Local)
	if err != nil {
		return Task{}, fmt.Errorf("parse created_date %q: %w", doc.CreatedDate, err)
	}
	return Task{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		Status:      doc.Status,
		CreatedDate: created,
	}, nil
}

func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToDocument())
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var doc TaskDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	parsed, err := TaskFromDocument(doc)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TaskStats is one consistent snapshot of aggregate counts.
type TaskStats struct {
	Total        int `json:"total_tasks"`
	Pending      int `json:"pending_tasks"`
	Completed    int `json:"completed_tasks"`
	CreatedToday int `json:"tasks_today"`
}

// TaskStore is the contract every storage backend implements. The
// Repository exposes the same surface upward so callers stay
// backend-agnostic.
type TaskStore interface {
	Add(ctx context.Context, title, description string) (*Task, error)
	GetAll(ctx context.Context) ([]Task, error)
	GetByID(ctx context.Context, id int) (*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id int) (*Task, error)
	Search(ctx context.Context, keyword, status string) ([]Task, error)
	Statistics(ctx context.Context) (*TaskStats, error)
}
