package task

import "errors"

var (
	// ErrTaskNotFound indicates the task doesn't exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTicketNotFound indicates the owning ticket doesn't exist.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrInvalidParent indicates the parent is missing, on another ticket, or a subtask itself.
	ErrInvalidParent = errors.New("invalid parent task")
	// ErrInvalidInput indicates invalid task input.
	ErrInvalidInput = errors.New("invalid task input")
)
