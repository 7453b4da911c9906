// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskcli/internal/service"
)

// FixedTime is the clock reading used by FakeService.
var FixedTime = time.Date(2026, time.October, 19, 9, 30, 0, 0, time.Local)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.RWMutex
	tasks []service.Task
	now   time.Time

	// Error injection for testing
	AddErr       error
	UpdateErr    error
	DeleteErr    error
	SetStatusErr error
	ListErr      error
}

var _ service.Service = (*FakeService)(nil)

// NewFakeService creates an empty FakeService whose clock reads FixedTime.
func NewFakeService() *FakeService {
	return &FakeService{now: FixedTime}
}

// AddTask seeds a task with the given id, description and status.
func (f *FakeService) AddTask(id int, description string, status service.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ts := service.NewTimestamp(f.now)
	f.tasks = append(f.tasks, service.Task{
		ID:          id,
		Description: description,
		Status:      status,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	})
}

// Advance moves the fake clock forward by d.
func (f *FakeService) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Tasks returns a copy of every stored task.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// Get returns the task with id, if present.
func (f *FakeService) Get(id int) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// Add implements service.Service.
func (f *FakeService) Add(ctx context.Context, description string) (service.Task, error) {
	if f.AddErr != nil {
		return service.Task{}, f.AddErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	maxID := 0
	for _, t := range f.tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	ts := service.NewTimestamp(f.now)
	task := service.Task{
		ID:          maxID + 1,
		Description: description,
		Status:      service.StatusTodo,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

// Update implements service.Service.
func (f *FakeService) Update(ctx context.Context, id int, description string) (service.Task, error) {
	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}
	return f.mutate(id, func(t *service.Task) { t.Description = description })
}

// SetStatus implements service.Service.
func (f *FakeService) SetStatus(ctx context.Context, id int, status service.Status) (service.Task, error) {
	if f.SetStatusErr != nil {
		return service.Task{}, f.SetStatusErr
	}
	if !status.Valid() {
		return service.Task{}, fmt.Errorf("%w: %q", service.ErrInvalidStatus, status)
	}
	return f.mutate(id, func(t *service.Task) { t.Status = status })
}

// Delete implements service.Service.
func (f *FakeService) Delete(ctx context.Context, id int) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %d", service.ErrNotFound, id)
}

// List implements service.Service.
func (f *FakeService) List(ctx context.Context, filter *service.Status) ([]service.Task, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := make([]service.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		if filter == nil || t.Status == *filter {
			result = append(result, t)
		}
	}
	return result, nil
}

func (f *FakeService) mutate(id int, fn func(*service.Task)) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.tasks {
		if f.tasks[i].ID == id {
			fn(&f.tasks[i])
			f.tasks[i].UpdatedAt = service.NewTimestamp(f.now)
			return f.tasks[i], nil
		}
	}
	return service.Task{}, fmt.Errorf("%w: %d", service.ErrNotFound, id)
}
