package task

import "time"

// Task is a checklist item belonging to a ticket. A task with a ParentID is
// a subtask; subtasks never have children of their own.
type Task struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	ParentID  *int64    `json:"parent_id"`
	Text      string    `json:"text"`
	Done      bool      `json:"done"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// IsSubtask reports whether the task hangs under another task.
func (t *Task) IsSubtask() bool {
	return t.ParentID != nil
}

// TopLevel returns the tasks without a parent, keeping their order.
func TopLevel(tasks []Task) []Task {
	var out []Task
	for _, t := range tasks {
		if t.ParentID == nil {
			out = append(out, t)
		}
	}
	return out
}

// ChildrenOf returns the direct subtasks of parentID, keeping their order.
func ChildrenOf(tasks []Task, parentID int64) []Task {
	var out []Task
	for _, t := range tasks {
		if t.ParentID != nil && *t.ParentID == parentID {
			out = append(out, t)
		}
	}
	return out
}
