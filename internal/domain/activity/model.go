package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeCreated     ActivityType = "created"
	TypeUpdated     ActivityType = "updated"
	TypeDeleted     ActivityType = "deleted"
	TypeTransformed ActivityType = "transformed"
)

// EntityType names the kind of entity an activity refers to
type EntityType string

const (
	EntityProject EntityType = "project"
	EntityTicket  EntityType = "ticket"
	EntityTask    EntityType = "task"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	EntityType   EntityType   `json:"entity_type"`
	EntityID     int64        `json:"entity_id"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
