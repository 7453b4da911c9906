package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"taskcli/internal/service"
)

// record mirrors service.Task with pointer fields so missing keys can be
// told apart from zero values.
type record struct {
	ID          *int    `json:"id"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	CreatedAt   *string `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt"`
}

func readTasks(path string) ([]service.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tasks, err := decodeTasks(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tasks, nil
}

// decodeTasks strictly decodes a tasks file. Whitespace-only input is an
// empty store.
func decodeTasks(data []byte) ([]service.Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []service.Task{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var records []record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrMalformed, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing content", service.ErrMalformed)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", service.ErrMalformed)
	}

	tasks := make([]service.Task, 0, len(records))
	seen := make(map[int]bool, len(records))
	for i, rec := range records {
		task, err := rec.toTask()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", service.ErrMalformed, i, err)
		}
		if seen[task.ID] {
			return nil, fmt.Errorf("%w: record %d: duplicate id %d", service.ErrMalformed, i, task.ID)
		}
		seen[task.ID] = true
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r record) toTask() (service.Task, error) {
	switch {
	case r.ID == nil:
		return service.Task{}, errors.New("missing id")
	case r.Description == nil:
		return service.Task{}, errors.New("missing description")
	case r.Status == nil:
		return service.Task{}, errors.New("missing status")
	case r.CreatedAt == nil:
		return service.Task{}, errors.New("missing createdAt")
	case r.UpdatedAt == nil:
		return service.Task{}, errors.New("missing updatedAt")
	}

	if *r.ID < 1 {
		return service.Task{}, fmt.Errorf("invalid id %d", *r.ID)
	}
	status := service.Status(*r.Status)
	if !status.Valid() {
		return service.Task{}, fmt.Errorf("invalid status %q", *r.Status)
	}
	createdAt, err := service.ParseTimestamp(*r.CreatedAt)
	if err != nil {
		return service.Task{}, fmt.Errorf("invalid createdAt %q", *r.CreatedAt)
	}
	updatedAt, err := service.ParseTimestamp(*r.UpdatedAt)
	if err != nil {
		return service.Task{}, fmt.Errorf("invalid updatedAt %q", *r.UpdatedAt)
	}

	return service.Task{
		ID:          *r.ID,
		Description: *r.Description,
		Status:      status,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// encodeTasks renders tasks as an indented JSON array with a trailing newline.
func encodeTasks(tasks []service.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []service.Task{}
	}
	b, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func writeTasks(path string, tasks []service.Task) error {
	data, err := encodeTasks(tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	return writeFileAtomic(path, data, 0o644)
}

// writeFileAtomic writes data to a temp file next to path, syncs it and
// renames it into place, so readers see either the old or the new file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return syncDir(dir)
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
