// Package jsonfile implements service.Service on top of a single JSON file.
//
// The file holds a pretty-printed JSON array of task objects. Every mutation
// loads the whole file, edits the slice in memory and rewrites the file
// atomically (temp file + fsync + rename). Concurrent processes writing the
// same file are not coordinated; the last writer wins.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"taskcli/internal/service"
)

// DefaultFileName is the tasks file used when no path is configured.
const DefaultFileName = "tasks.json"

// Store is a file-backed task store.
type Store struct {
	path   string
	now    func() time.Time
	logger *zap.Logger
}

var _ service.Service = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store backed by the file at path.
// The file does not need to exist yet.
func New(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("tasks file path is required")
	}
	s := &Store{
		path:   path,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the tasks file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads every task from disk in file order.
// A missing file yields an empty slice.
func (s *Store) Load(ctx context.Context) ([]service.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tasks, err := readTasks(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("tasks file not found, starting empty", zap.String("path", s.path))
			return []service.Task{}, nil
		}
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	s.logger.Debug("loaded tasks", zap.String("path", s.path), zap.Int("count", len(tasks)))
	return tasks, nil
}

// Save replaces the file contents with tasks, in the order given.
func (s *Store) Save(ctx context.Context, tasks []service.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeTasks(s.path, tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	s.logger.Debug("saved tasks", zap.String("path", s.path), zap.Int("count", len(tasks)))
	return nil
}

// Add implements service.Service.
func (s *Store) Add(ctx context.Context, description string) (service.Task, error) {
	tasks, err := s.Load(ctx)
	if err != nil {
		return service.Task{}, err
	}

	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	if maxID == math.MaxInt {
		return service.Task{}, service.ErrIDsExhausted
	}

	now := service.NewTimestamp(s.now())
	task := service.Task{
		ID:          maxID + 1,
		Description: description,
		Status:      service.StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	tasks = append(tasks, task)

	if err := s.Save(ctx, tasks); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// Update implements service.Service.
func (s *Store) Update(ctx context.Context, id int, description string) (service.Task, error) {
	return s.mutate(ctx, id, func(t *service.Task) {
		t.Description = description
	})
}

// SetStatus implements service.Service.
func (s *Store) SetStatus(ctx context.Context, id int, status service.Status) (service.Task, error) {
	if !status.Valid() {
		return service.Task{}, fmt.Errorf("%w: %q", service.ErrInvalidStatus, status)
	}
	return s.mutate(ctx, id, func(t *service.Task) {
		t.Status = status
	})
}

// Delete implements service.Service.
func (s *Store) Delete(ctx context.Context, id int) error {
	tasks, err := s.Load(ctx)
	if err != nil {
		return err
	}

	i := indexOf(tasks, id)
	if i < 0 {
		return fmt.Errorf("%w: %d", service.ErrNotFound, id)
	}
	tasks = append(tasks[:i], tasks[i+1:]...)

	return s.Save(ctx, tasks)
}

// List implements service.Service.
func (s *Store) List(ctx context.Context, filter *service.Status) ([]service.Task, error) {
	tasks, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return tasks, nil
	}

	result := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == *filter {
			result = append(result, t)
		}
	}
	return result, nil
}

// mutate applies fn to the task with id, refreshes updatedAt and persists.
func (s *Store) mutate(ctx context.Context, id int, fn func(*service.Task)) (service.Task, error) {
	tasks, err := s.Load(ctx)
	if err != nil {
		return service.Task{}, err
	}

	i := indexOf(tasks, id)
	if i < 0 {
		return service.Task{}, fmt.Errorf("%w: %d", service.ErrNotFound, id)
	}

	fn(&tasks[i])
	tasks[i].UpdatedAt = s.touch(tasks[i].UpdatedAt)

	if err := s.Save(ctx, tasks); err != nil {
		return service.Task{}, err
	}
	return tasks[i], nil
}

// touch returns the current time, or prev if the clock is behind it.
func (s *Store) touch(prev service.Timestamp) service.Timestamp {
	now := service.NewTimestamp(s.now())
	if now.Before(prev.Time) {
		return prev
	}
	return now
}

func indexOf(tasks []service.Task, id int) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
