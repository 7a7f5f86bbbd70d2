package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/taskcore/taskmanager/internal/domain"
)

const maxTitleLength = 50

// TaskService validates and coerces caller input before any repository
// call. Validation failures never reach the store.
type TaskService interface {
	Add(ctx context.Context, title, description string) (*domain.Task, error)
	ListAll(ctx context.Context) ([]domain.Task, error)
	Find(ctx context.Context, rawID string) (*domain.Task, error)
	MarkComplete(ctx context.Context, rawID string) (*domain.Task, error)
	Delete(ctx context.Context, rawID string) (*domain.Task, error)
	Search(ctx context.Context, keyword, status string) ([]domain.Task, error)
	Statistics(ctx context.Context) (*domain.TaskStats, error)
}

type taskService struct {
	repo domain.TaskStore
}

func NewTaskService(repo domain.TaskStore) TaskService {
	return &taskService{repo: repo}
}

func (s *taskService) Add(ctx context.Context, title, description string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" {
		return nil, &domain.ValidationError{Message: "task title cannot be empty"}
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, &domain.ValidationError{Message: "task title cannot exceed 50 characters"}
	}
	if description == "" {
		return nil, &domain.ValidationError{Message: "task description cannot be empty"}
	}
	return s.repo.Add(ctx, title, description)
}

func (s *taskService) ListAll(ctx context.Context) ([]domain.Task, error) {
	return s.repo.GetAll(ctx)
}

func (s *taskService) Find(ctx context.Context, rawID string) (*domain.Task, error) {
	id, err := coerceID(rawID)
	if err != nil {
		return nil, err
	}
	task, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return nil, &domain.NotFoundError{ID: id}
	}
	return task, err
}

// MarkComplete is idempotent: completing an already Completed task
// re-persists the same status and reports success.
func (s *taskService) MarkComplete(ctx context.Context, rawID string) (*domain.Task, error) {
	id, err := coerceID(rawID)
	if err != nil {
		return nil, err
	}
	task, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return nil, &domain.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}

	task.Status = domain.StatusCompleted
	if err := s.repo.Update(ctx, task); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, &domain.NotFoundError{ID: id}
		}
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, rawID string) (*domain.Task, error) {
	id, err := coerceID(rawID)
	if err != nil {
		return nil, err
	}
	task, err := s.repo.Delete(ctx, id)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return nil, &domain.NotFoundError{ID: id}
	}
	return task, err
}

// Search returns an empty result for a blank keyword without querying
// the store, distinguishing "no query" from "query with no matches".
func (s *taskService) Search(ctx context.Context, keyword, status string) ([]domain.Task, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []domain.Task{}, nil
	}
	if status != "" && status != domain.StatusPending && status != domain.StatusCompleted {
		return nil, &domain.ValidationError{Message: "status filter must be Pending or Completed"}
	}
	return s.repo.Search(ctx, keyword, status)
}

func (s *taskService) Statistics(ctx context.Context) (*domain.TaskStats, error) {
	return s.repo.Statistics(ctx)
}

func coerceID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Message: "task ID must be a positive number"}
	}
	return id, nil
}
