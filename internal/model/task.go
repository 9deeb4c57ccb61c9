package model

import "time"

// Task is a unit of work tracked by the tasks app.
type Task struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

type TaskCreate struct {
	Title       string  `json:"title" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// TaskUpdate carries a partial update. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=100"`
	Description *string `json:"description" validate:"omitnil,max=500"`
	Completed   *bool   `json:"completed"`
}

func (u TaskUpdate) Apply(t Task) Task {
	if u.Title != nil {
		t.Title = *u.Title
	}

	if u.Description != nil {
		desc := *u.Description
		t.Description = &desc
	}

	if u.Completed != nil {
		t.Completed = *u.Completed
	}

	return t
}

func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Completed == nil
}
