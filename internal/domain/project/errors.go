package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrInboxProtected indicates an attempt to delete the Inbox project.
	ErrInboxProtected = errors.New("cannot delete Inbox")
)
