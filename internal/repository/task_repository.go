package repository

import (
	"context"
	"errors"

	"github.com/taskcore/taskmanager/internal/domain"
)

// TaskRepository is a thin façade over one store backend. It adds no
// business rules; its job is translating backend failures into the
// uniform domain.PersistenceError so callers never see a driver error.
type TaskRepository struct {
	store domain.TaskStore
}

func NewTaskRepository(store domain.TaskStore) *TaskRepository {
	return &TaskRepository{store: store}
}

func (r *TaskRepository) Add(ctx context.Context, title, description string) (*domain.Task, error) {
	task, err := r.store.Add(ctx, title, description)
	if err != nil {
		return nil, translate("add task", err)
	}
	return task, nil
}

func (r *TaskRepository) GetAll(ctx context.Context) ([]domain.Task, error) {
	tasks, err := r.store.GetAll(ctx)
	if err != nil {
		return nil, translate("list tasks", err)
	}
	return tasks, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int) (*domain.Task, error) {
	task, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, translate("find task", err)
	}
	return task, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if err := r.store.Update(ctx, task); err != nil {
		return translate("update task", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int) (*domain.Task, error) {
	task, err := r.store.Delete(ctx, id)
	if err != nil {
		return nil, translate("delete task", err)
	}
	return task, nil
}

func (r *TaskRepository) Search(ctx context.Context, keyword, status string) ([]domain.Task, error) {
	tasks, err := r.store.Search(ctx, keyword, status)
	if err != nil {
		return nil, translate("search tasks", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Statistics(ctx context.Context) (*domain.TaskStats, error) {
	stats, err := r.store.Statistics(ctx)
	if err != nil {
		return nil, translate("task statistics", err)
	}
	return stats, nil
}

// translate lets the not-found sentinel through untouched and wraps
// everything else as a persistence failure with the cause preserved.
func translate(op string, err error) error {
	if errors.Is(err, domain.ErrTaskNotFound) {
		return err
	}
	var pe *domain.PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &domain.PersistenceError{Op: op, Err: err}
}
