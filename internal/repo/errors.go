package repo

import "errors"

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrItemNotFound = errors.New("item not found")
)
