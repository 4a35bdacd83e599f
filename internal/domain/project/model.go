package project

import "time"

// InboxID is the reserved default project. It is seeded by the schema and
// can never be deleted or transformed.
const InboxID int64 = 1

const (
	DefaultColor = "#6b7280"
	DefaultIcon  = "folder"
)

// Project is a top-level container of tickets
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsInbox reports whether p is the reserved Inbox project.
func (p *Project) IsInbox() bool {
	return p != nil && p.ID == InboxID
}

// ProjectSummary is a lightweight representation for listing
type ProjectSummary struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	Position    int       `json:"position"`
	TicketCount int       `json:"ticket_count"`
	OpenTickets int       `json:"open_tickets"`
	CreatedAt   time.Time `json:"created_at"`
}
