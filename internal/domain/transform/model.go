package transform

import (
	"encoding/json"

	"github.com/GerardFevill/taskflow/internal/domain/activity"
)

// Operation names a conversion.
type Operation string

const (
	OpTaskToTicket    Operation = "task_to_ticket"
	OpTicketToTask    Operation = "ticket_to_task"
	OpTicketToProject Operation = "ticket_to_project"
	OpProjectToTicket Operation = "project_to_ticket"
	OpTaskToProject   Operation = "task_to_project"
	OpProjectToTask   Operation = "project_to_task"
)

// Outcome describes a finished conversion. It is stored as the details of
// the activity entry written for every conversion.
type Outcome struct {
	Operation  Operation           `json:"operation"`
	SourceType activity.EntityType `json:"source_type"`
	SourceID   int64               `json:"source_id"`
	TargetType activity.EntityType `json:"target_type"`
	TargetID   int64               `json:"target_id"`
	Children   int                 `json:"children"`
	Dropped    int                 `json:"dropped"`
}

func (o Outcome) details() string {
	data, err := json.Marshal(o)
	if err != nil {
		return ""
	}
	return string(data)
}
