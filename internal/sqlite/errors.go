package sqlite

import (
	"fmt"
	"strings"

	"github.com/GerardFevill/taskflow/internal/repository"
)

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "CHECK constraint failed")
}

// translate maps constraint failures onto repository sentinels.
func translate(action string, err error) error {
	switch {
	case isForeignKeyViolation(err):
		return fmt.Errorf("failed to %s: %w (%v)", action, repository.ErrForeignKeyViolation, err)
	case isCheckViolation(err):
		return fmt.Errorf("failed to %s: %w (%v)", action, repository.ErrInvalidInput, err)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
