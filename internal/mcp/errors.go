package mcp

import (
	"errors"
	"fmt"

	"github.com/GerardFevill/taskflow/internal/domain/project"
	"github.com/GerardFevill/taskflow/internal/domain/task"
	"github.com/GerardFevill/taskflow/internal/domain/ticket"
	"github.com/GerardFevill/taskflow/internal/domain/transform"
)

// APIError represents an MCP tool error payload.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, transform.ErrCannotConvertInbox):
		return &APIError{Code: "INBOX_PROTECTED", Message: "Cannot convert Inbox", RecoveryHint: "Move tickets out of the Inbox instead"}
	case errors.Is(err, transform.ErrTargetNotFound):
		return &APIError{Code: "TARGET_NOT_FOUND", Message: "Ticket cible non trouve", RecoveryHint: "Check target_ticket_id"}
	case errors.Is(err, transform.ErrInvalidTarget):
		return &APIError{Code: "INVALID_TARGET", Message: err.Error(), RecoveryHint: "Pick a target outside the converted entity"}
	case errors.Is(err, task.ErrTaskNotFound):
		return &APIError{Code: "TASK_NOT_FOUND", Message: "Tache non trouvee", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, ticket.ErrTicketNotFound), errors.Is(err, task.ErrTicketNotFound):
		return &APIError{Code: "TICKET_NOT_FOUND", Message: "Ticket non trouve", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, ticket.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "Projet non trouve", RecoveryHint: "Call list_projects"}
	case errors.Is(err, ticket.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}
