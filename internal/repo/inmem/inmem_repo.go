package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/agenticai/patterns/internal/model"
	"github.com/agenticai/patterns/internal/repo"
)

// Repository keeps tasks and items in process memory. All state, including
// the id counters, is lost when the process exits.
type Repository struct {
	l sync.RWMutex

	tasks      map[int]*model.Task
	lastTaskID int

	items      map[int]*model.Item
	lastItemID int
}

func New() *Repository {
	return &Repository{
		tasks: make(map[int]*model.Task),
		items: make(map[int]*model.Item),
	}
}

func (r *Repository) CreateTask(_ context.Context, task *model.Task) error {
	r.l.Lock()
	defer r.l.Unlock()

	r.lastTaskID++
	task.ID = r.lastTaskID

	r.tasks[task.ID] = repo.Clone(task)

	return nil
}

func (r *Repository) GetTask(_ context.Context, id int) (*model.Task, error) {
	r.l.RLock()
	defer r.l.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, repo.ErrTaskNotFound
	}

	return repo.Clone(t), nil
}

func (r *Repository) ListTasks(_ context.Context) ([]*model.Task, error) {
	r.l.RLock()
	defer r.l.RUnlock()

	return sortedValues(r.tasks), nil
}

func (r *Repository) UpdateTask(_ context.Context, id int, update model.TaskUpdate) (*model.Task, error) {
	r.l.Lock()
	defer r.l.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, repo.ErrTaskNotFound
	}

	updated := update.Apply(*t)
	r.tasks[id] = &updated

	return repo.Clone(&updated), nil
}

func (r *Repository) DeleteTask(_ context.Context, id int) error {
	r.l.Lock()
	defer r.l.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return repo.ErrTaskNotFound
	}

	delete(r.tasks, id)

	return nil
}

func (r *Repository) CreateItem(_ context.Context, item *model.Item) error {
	r.l.Lock()
	defer r.l.Unlock()

	r.lastItemID++
	item.ID = r.lastItemID

	r.items[item.ID] = repo.Clone(item)

	return nil
}

func (r *Repository) GetItem(_ context.Context, id int) (*model.Item, error) {
	r.l.RLock()
	defer r.l.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, repo.ErrItemNotFound
	}

	return repo.Clone(item), nil
}

func (r *Repository) ListItems(_ context.Context) ([]*model.Item, error) {
	r.l.RLock()
	defer r.l.RUnlock()

	return sortedValues(r.items), nil
}

func (r *Repository) DeleteItem(_ context.Context, id int) error {
	r.l.Lock()
	defer r.l.Unlock()

	if _, ok := r.items[id]; !ok {
		return repo.ErrItemNotFound
	}

	delete(r.items, id)

	return nil
}

func sortedValues[T any](m map[int]*T) []*T {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	result := make([]*T, 0, len(ids))
	for _, id := range ids {
		result = append(result, repo.Clone(m[id]))
	}

	return result
}

var (
	_ repo.TaskBackend = (*Repository)(nil)
	_ repo.ItemBackend = (*Repository)(nil)
)
