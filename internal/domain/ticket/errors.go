package ticket

import "errors"

var (
	// ErrTicketNotFound indicates the ticket doesn't exist.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrProjectNotFound indicates the ticket's project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid ticket input.
	ErrInvalidInput = errors.New("invalid ticket input")
)
