// Package store holds the storage backends. Each backend implements
// domain.TaskStore; which one runs is decided at construction time in
// bootstrap, never by runtime type inspection.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/taskcore/taskmanager/internal/domain"
	"github.com/taskcore/taskmanager/internal/logger"
)

// FileStore keeps the full record set in memory and mirrors it to a JSON
// document after every mutation. Not safe for concurrent processes
// sharing one file; that is an accepted limitation of this backend.
type FileStore struct {
	path  string
	tasks []domain.Task
}

// NewFileStore loads the backing file if it exists. A missing file means
// an empty task set; a malformed file is downgraded to an empty set with
// a warning rather than an error, so the application stays available.
func NewFileStore(path string) *FileStore {
	s := &FileStore{path: path}
	s.load()
	return s
}

func (s *FileStore) load() {
	ctx := context.Background()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.InfoLog(ctx, fmt.Sprintf("no existing task file found at %s", s.path))
		return
	}
	if err != nil {
		logger.WarnLog(ctx, fmt.Sprintf("error reading task file %s, starting empty: %v", s.path, err))
		return
	}
	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		logger.WarnLog(ctx, fmt.Sprintf("error parsing task file %s, starting empty: %v", s.path, err))
		s.tasks = nil
		return
	}
	s.tasks = tasks
	logger.InfoLog(ctx, fmt.Sprintf("loaded %d tasks from %s", len(tasks), s.path))
}

func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("save tasks to %s: %w", s.path, err)
	}
	return nil
}

// nextID is max of live ids plus one. Deleting the current maximum and
// adding again reuses that number; ids freed below the maximum never
// come back.
func (s *FileStore) nextID() int {
	max := 0
	for _, t := range s.tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

func (s *FileStore) Add(ctx context.Context, title, description string) (*domain.Task, error) {
	task := domain.NewTask(s.nextID(), title, description)
	s.tasks = append(s.tasks, task)
	if err := s.save(); err != nil {
		return nil, err
	}
	logger.InfoLog(ctx, fmt.Sprintf("added task ID %d: %s", task.ID, task.Title))
	return &task, nil
}

// GetAll returns a copy in insertion order; mutating it does not touch
// the store.
func (s *FileStore) GetAll(ctx context.Context) ([]domain.Task, error) {
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

func (s *FileStore) GetByID(ctx context.Context, id int) (*domain.Task, error) {
	for _, t := range s.tasks {
		if t.ID == id {
			found := t
			return &found, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (s *FileStore) Update(ctx context.Context, task *domain.Task) error {
	for i, t := range s.tasks {
		if t.ID == task.ID {
			s.tasks[i] = *task
			if err := s.save(); err != nil {
				return err
			}
			logger.InfoLog(ctx, fmt.Sprintf("updated task ID %d: %s", task.ID, task.Title))
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

func (s *FileStore) Delete(ctx context.Context, id int) (*domain.Task, error) {
	for i, t := range s.tasks {
		if t.ID == id {
			removed := t
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			if err := s.save(); err != nil {
				return nil, err
			}
			logger.InfoLog(ctx, fmt.Sprintf("deleted task ID %d: %s", id, removed.Title))
			return &removed, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

// Search does a case-insensitive substring match on title or description,
// with an optional exact status filter, in store order.
func (s *FileStore) Search(ctx context.Context, keyword, status string) ([]domain.Task, error) {
	kw := strings.ToLower(keyword)
	var out []domain.Task
	for _, t := range s.tasks {
		if status != "" && t.Status != status {
			continue
		}
		if strings.Contains(strings.ToLower(t.Title), kw) ||
			strings.Contains(strings.ToLower(t.Description), kw) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *FileStore) Statistics(ctx context.Context) (*domain.TaskStats, error) {
	stats := &domain.TaskStats{Total: len(s.tasks)}
	year, month, day := time.Now().Date()
	for _, t := range s.tasks {
		switch t.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusCompleted:
			stats.Completed++
		}
		ty, tm, td := t.CreatedDate.Date()
		if ty == year && tm == month && td == day {
			stats.CreatedToday++
		}
	}
	return stats, nil
}
