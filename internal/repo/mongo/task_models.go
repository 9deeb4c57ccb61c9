package mongo

import (
	"time"

	"github.com/agenticai/patterns/internal/model"
)

type Task struct {
	ID          int       `bson:"_id"`
	Title       string    `bson:"title"`
	Description *string   `bson:"description,omitempty"`
	Completed   bool      `bson:"completed"`
	CreateTime  time.Time `bson:"createTime"`
}

func (t *Task) ToModel() *model.Task {
	return &model.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreateTime,
	}
}

func taskFromModel(t *model.Task) *Task {
	return &Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		// mongodb stores milliseconds only
		CreateTime: t.CreatedAt.UTC().Truncate(time.Millisecond),
	}
}
