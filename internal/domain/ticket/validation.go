package ticket

import "strings"

// ValidateCreateInput validates fields required to create a ticket.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return ErrInvalidInput
	}
	if req.Status != "" && !req.Status.Valid() {
		return ErrInvalidInput
	}
	if req.Priority != "" && !req.Priority.Valid() {
		return ErrInvalidInput
	}
	return nil
}

// ValidateUpdateInput validates the fields present in a partial update.
func ValidateUpdateInput(req UpdateRequest) error {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return ErrInvalidInput
	}
	if req.Status != nil && !req.Status.Valid() {
		return ErrInvalidInput
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return ErrInvalidInput
	}
	return nil
}
