package transform

import "errors"

var (
	// ErrCannotConvertInbox is returned when the Inbox project is the source of a conversion.
	ErrCannotConvertInbox = errors.New("Cannot convert Inbox")
	// ErrTargetNotFound indicates the destination ticket doesn't exist.
	ErrTargetNotFound = errors.New("target ticket not found")
	// ErrInvalidTarget indicates the destination would be deleted together with the source.
	ErrInvalidTarget = errors.New("target ticket is removed by this conversion")
)
