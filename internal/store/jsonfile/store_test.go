package jsonfile_test

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcli/internal/service"
	"taskcli/internal/store/jsonfile"
)

// clock is a controllable time source.
type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newStore(t *testing.T) (*jsonfile.Store, *clock, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	clk := &clock{now: time.Date(2026, time.October, 19, 9, 30, 0, 0, time.Local)}
	s, err := jsonfile.New(path, jsonfile.WithClock(clk.Now))
	require.NoError(t, err)
	return s, clk, path
}

func ids(tasks []service.Task) []int {
	out := make([]int, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := jsonfile.New("  ")
	assert.Error(t, err)
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s, _, path := newStore(t)

	tasks, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "load must not create the file")
}

func TestAdd_AssignsSequentialIDs(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	first, err := s.Add(ctx, "buy milk")
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "buy milk", first.Description)
	assert.Equal(t, service.StatusTodo, first.Status)
	assert.Equal(t, "2026-10-19T09:30:00", first.CreatedAt.String())
	assert.Equal(t, first.CreatedAt.String(), first.UpdatedAt.String())

	second, err := s.Add(ctx, "walk dog")
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)
}

func TestAdd_UsesMaxIDNotCount(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	for _, d := range []string{"a", "b", "c"} {
		_, err := s.Add(ctx, d)
		require.NoError(t, err)
	}
	require.NoError(t, s.Delete(ctx, 1))

	task, err := s.Add(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, 4, task.ID)

	// Deleting the highest id frees it.
	require.NoError(t, s.Delete(ctx, 4))
	task, err = s.Add(ctx, "e")
	require.NoError(t, err)
	assert.Equal(t, 4, task.ID)
}

func TestAdd_IDSpaceExhausted(t *testing.T) {
	s, _, path := newStore(t)
	content := fmt.Sprintf(`[{"id": %d, "description": "last", "status": "todo", "createdAt": "2026-10-19T09:30:00", "updatedAt": "2026-10-19T09:30:00"}]`, math.MaxInt)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := s.Add(context.Background(), "next")
	assert.ErrorIs(t, err, service.ErrIDsExhausted)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	tasks, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, math.MaxInt, tasks[0].ID)
}

func TestUpdate(t *testing.T) {
	s, clk, _ := newStore(t)
	ctx := context.Background()

	created, err := s.Add(ctx, "draft")
	require.NoError(t, err)

	clk.Advance(time.Minute)
	updated, err := s.Update(ctx, created.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Description)
	assert.Equal(t, created.CreatedAt.String(), updated.CreatedAt.String())
	assert.Equal(t, "2026-10-19T09:31:00", updated.UpdatedAt.String())

	tasks, err := s.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "final", tasks[0].Description)
}

func TestUpdate_NotFound(t *testing.T) {
	s, _, _ := newStore(t)

	_, err := s.Update(context.Background(), 9, "x")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	s, clk, _ := newStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "report")
	require.NoError(t, err)

	clk.Advance(2 * time.Second)
	task, err := s.SetStatus(ctx, 1, service.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, service.StatusInProgress, task.Status)
	assert.Equal(t, "2026-10-19T09:30:02", task.UpdatedAt.String())

	task, err = s.SetStatus(ctx, 1, service.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, service.StatusDone, task.Status)
}

func TestSetStatus_Errors(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	_, err := s.SetStatus(ctx, 1, service.StatusDone)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = s.Add(ctx, "x")
	require.NoError(t, err)
	_, err = s.SetStatus(ctx, 1, service.Status("finished"))
	assert.ErrorIs(t, err, service.ErrInvalidStatus)
}

func TestUpdatedAt_NeverMovesBackwards(t *testing.T) {
	s, clk, _ := newStore(t)
	ctx := context.Background()

	created, err := s.Add(ctx, "x")
	require.NoError(t, err)

	clk.Advance(-time.Hour)
	task, err := s.SetStatus(ctx, created.ID, service.StatusDone)
	require.NoError(t, err)
	assert.False(t, task.UpdatedAt.Before(created.UpdatedAt.Time))

	task, err = s.Update(ctx, created.ID, "y")
	require.NoError(t, err)
	assert.False(t, task.UpdatedAt.Before(created.UpdatedAt.Time))
}

func TestDelete(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	for _, d := range []string{"a", "b", "c"} {
		_, err := s.Add(ctx, d)
		require.NoError(t, err)
	}

	require.NoError(t, s.Delete(ctx, 2))

	tasks, err := s.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, ids(tasks))

	assert.ErrorIs(t, s.Delete(ctx, 2), service.ErrNotFound)
}

func TestList_FilterPreservesOrder(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	for _, d := range []string{"a", "b", "c", "d"} {
		_, err := s.Add(ctx, d)
		require.NoError(t, err)
	}
	_, err := s.SetStatus(ctx, 4, service.StatusDone)
	require.NoError(t, err)
	_, err = s.SetStatus(ctx, 2, service.StatusDone)
	require.NoError(t, err)
	_, err = s.SetStatus(ctx, 3, service.StatusInProgress)
	require.NoError(t, err)

	done := service.StatusDone
	tasks, err := s.List(ctx, &done)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, ids(tasks))
	for _, task := range tasks {
		assert.Equal(t, service.StatusDone, task.Status)
	}

	todo := service.StatusTodo
	tasks, err = s.List(ctx, &todo)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids(tasks))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	created := service.NewTimestamp(time.Date(2025, time.January, 2, 3, 4, 5, 0, time.Local))
	updated := service.NewTimestamp(time.Date(2025, time.February, 3, 4, 5, 6, 0, time.Local))
	want := []service.Task{
		{ID: 7, Description: `quote " and backslash \ and tab	`, Status: service.StatusDone, CreatedAt: created, UpdatedAt: updated},
		{ID: 2, Description: "ünïcödé ✓", Status: service.StatusInProgress, CreatedAt: created, UpdatedAt: created},
		{ID: 3, Description: "", Status: service.StatusTodo, CreatedAt: updated, UpdatedAt: updated},
	}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Description, got[i].Description)
		assert.Equal(t, want[i].Status, got[i].Status)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt.Time), "createdAt of %d", want[i].ID)
		assert.True(t, want[i].UpdatedAt.Equal(got[i].UpdatedAt.Time), "updatedAt of %d", want[i].ID)
	}
}

func TestSave_FileFormat(t *testing.T) {
	s, _, path := newStore(t)

	_, err := s.Add(context.Background(), `say "hi"`)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := `[
  {
    "id": 1,
    "description": "say \"hi\"",
    "status": "todo",
    "createdAt": "2026-10-19T09:30:00",
    "updatedAt": "2026-10-19T09:30:00"
  }
]
`
	assert.Equal(t, want, string(data))
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	s, _, path := newStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Add(ctx, "x")
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tasks.json", entries[0].Name())
}

func TestSave_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tasks.json")
	s, err := jsonfile.New(path)
	require.NoError(t, err)

	_, err = s.Add(context.Background(), "x")
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoad_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":         `{{{`,
		"object not array": `{"id": 1}`,
		"missing id":       `[{"description": "x", "status": "todo", "createdAt": "2026-10-19T09:30:00", "updatedAt": "2026-10-19T09:30:00"}]`,
		"missing status":   `[{"id": 1, "description": "x", "createdAt": "2026-10-19T09:30:00", "updatedAt": "2026-10-19T09:30:00"}]`,
		"null description": `[{"id": 1, "description": null, "status": "todo", "createdAt": "2026-10-19T09:30:00", "updatedAt": "2026-10-19T09:30:00"}]`,
		"bad status":       `[{"id": 1, "description": "x", "status": "finished", "createdAt": "2026-10-19T09:30:00", "updatedAt": "2026-10-19T09:30:00"}]`,
		"bad timestamp":    `[{"id": 1, "description": "x", "status": "todo", "createdAt": "yesterday", "updatedAt": "2026-10-19T09:30:00"}]`,
		"zero id":          `[{"id": 0, "description": "x", "status": "todo", "createdAt": "2026-10-19T09:30:00", "updatedAt": "2026-10-19T09:30:00"}]`,
		"fractional id":    `[{"id": 1.5, "description": "x", "status": "todo", "createdAt": "2026-10-19T09:30:00", "updatedAt": "2026-10-19T09:30:00"}]`,
		"unknown field":    `[{"id": 1, "description": "x", "status": "todo", "createdAt": "2026-10-19T09:30:00", "updatedAt": "2026-10-19T09:30:00", "priority": 3}]`,
		"trailing content": `[] []`,
		"null":             `null`,
		"duplicate id":     `[{"id": 1, "description": "x", "status": "todo", "createdAt": "2026-10-19T09:30:00", "updatedAt": "2026-10-19T09:30:00"}, {"id": 1, "description": "x", "status": "todo", "createdAt": "2026-10-19T09:30:00", "updatedAt": "2026-10-19T09:30:00"}]`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			s, _, path := newStore(t)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			_, err := s.Load(context.Background())
			assert.ErrorIs(t, err, service.ErrMalformed)

			_, err = s.Add(context.Background(), "new")
			assert.ErrorIs(t, err, service.ErrMalformed)

			data, readErr := os.ReadFile(path)
			require.NoError(t, readErr)
			assert.Equal(t, content, string(data), "malformed file must not be overwritten")
		})
	}
}

func TestLoad_BlankFileIsEmpty(t *testing.T) {
	s, _, path := newStore(t)
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	tasks, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCancelledContext(t *testing.T) {
	s, _, path := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Add(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

// TestExampleFlow walks through add, mark-done, list and delete.
func TestExampleFlow(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	task, err := s.Add(ctx, "buy milk")
	require.NoError(t, err)
	assert.Equal(t, 1, task.ID)
	assert.Equal(t, service.StatusTodo, task.Status)

	_, err = s.SetStatus(ctx, 1, service.StatusDone)
	require.NoError(t, err)

	done := service.StatusDone
	tasks, err := s.List(ctx, &done)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "buy milk", tasks[0].Description)

	require.NoError(t, s.Delete(ctx, 1))
	tasks, err = s.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
