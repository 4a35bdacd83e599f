package ticket

import "time"

// Status represents the workflow state of a ticket
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// StatusFromDone maps a task completion flag onto a ticket status.
func StatusFromDone(done bool) Status {
	if done {
		return StatusDone
	}
	return StatusTodo
}

// Priority is the Eisenhower quadrant of a ticket
type Priority string

const (
	PriorityDo        Priority = "do"
	PriorityPlan      Priority = "plan" // schedule tier
	PriorityDelegate  Priority = "delegate"
	PriorityEliminate Priority = "eliminate"
)

// DefaultPriority is assigned to tickets created without an explicit priority.
const DefaultPriority = PriorityPlan

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityDo, PriorityPlan, PriorityDelegate, PriorityEliminate:
		return true
	}
	return false
}

// Ticket is a unit of trackable work belonging to a project
type Ticket struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Position    int        `json:"position"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Done reports whether the ticket is completed.
func (t *Ticket) Done() bool {
	return t.Status == StatusDone
}

// SearchResult represents a search hit with relevance
type SearchResult struct {
	Ticket  Ticket  `json:"ticket"`
	Rank    float64 `json:"rank"`
	Snippet string  `json:"snippet,omitempty"`
}
