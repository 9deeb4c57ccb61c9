package inmem

import (
	"context"
	"sync"
	"testing"

	"github.com/agenticai/patterns/internal/model"
	"github.com/agenticai/patterns/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	r := New()

	tasks, err := r.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	task := &model.Task{Title: "first"}
	require.NoError(t, r.CreateTask(ctx, task))
	assert.Equal(t, 1, task.ID)

	got, err := r.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)

	done := true
	updated, err := r.UpdateTask(ctx, task.ID, model.TaskUpdate{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "first", updated.Title)

	require.NoError(t, r.DeleteTask(ctx, task.ID))

	_, err = r.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, repo.ErrTaskNotFound)

	assert.ErrorIs(t, r.DeleteTask(ctx, task.ID), repo.ErrTaskNotFound)

	_, err = r.UpdateTask(ctx, task.ID, model.TaskUpdate{Completed: &done})
	assert.ErrorIs(t, err, repo.ErrTaskNotFound)
}

func TestIdsAreNotReused(t *testing.T) {
	ctx := context.Background()
	r := New()

	first := &model.Item{Name: "a"}
	require.NoError(t, r.CreateItem(ctx, first))
	require.NoError(t, r.DeleteItem(ctx, first.ID))

	second := &model.Item{Name: "b"}
	require.NoError(t, r.CreateItem(ctx, second))

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	r := New()

	item := &model.Item{Name: "Widget", Price: 9.99}
	require.NoError(t, r.CreateItem(ctx, item))

	item.Name = "changed by caller"

	got, err := r.GetItem(ctx, item.ID)
	require.NoError(t, err)
	got.Price = 0

	again, err := r.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", again.Name)
	assert.Equal(t, 9.99, again.Price)
}

func TestListIsOrderedByID(t *testing.T) {
	ctx := context.Background()
	r := New()

	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, r.CreateItem(ctx, &model.Item{Name: name}))
	}
	require.NoError(t, r.DeleteItem(ctx, 2))

	items, err := r.ListItems(ctx)
	require.NoError(t, err)

	var names []string
	for _, i := range items {
		names = append(names, i.Name)
	}
	assert.Equal(t, []string{"a", "c", "d"}, names)
}

func TestConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	r := New()

	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.CreateTask(ctx, &model.Task{Title: "concurrent"}))
		}()
	}
	wg.Wait()

	tasks, err := r.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, n)

	for idx, task := range tasks {
		assert.Equal(t, idx+1, task.ID)
	}
}
