// Package export produces board snapshots in several encodings.
package export

import "time"

// Snapshot is the full board: every project with its tickets and their tasks.
type Snapshot struct {
	ID          string          `json:"id" yaml:"id" cbor:"id"`
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at" cbor:"generated_at"`
	Projects    []ProjectExport `json:"projects" yaml:"projects" cbor:"projects"`
}

type ProjectExport struct {
	ID          int64          `json:"id" yaml:"id" cbor:"id"`
	Name        string         `json:"name" yaml:"name" cbor:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty" cbor:"description,omitempty"`
	Color       string         `json:"color" yaml:"color" cbor:"color"`
	Icon        string         `json:"icon" yaml:"icon" cbor:"icon"`
	Position    int            `json:"position" yaml:"position" cbor:"position"`
	Tickets     []TicketExport `json:"tickets" yaml:"tickets" cbor:"tickets"`
}

type TicketExport struct {
	ID          int64        `json:"id" yaml:"id" cbor:"id"`
	Title       string       `json:"title" yaml:"title" cbor:"title"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty" cbor:"description,omitempty"`
	Status      string       `json:"status" yaml:"status" cbor:"status"`
	Priority    string       `json:"priority" yaml:"priority" cbor:"priority"`
	Position    int          `json:"position" yaml:"position" cbor:"position"`
	DueDate     *time.Time   `json:"due_date,omitempty" yaml:"due_date,omitempty" cbor:"due_date,omitempty"`
	Tasks       []TaskExport `json:"tasks" yaml:"tasks" cbor:"tasks"`
}

type TaskExport struct {
	ID       int64  `json:"id" yaml:"id" cbor:"id"`
	ParentID *int64 `json:"parent_id,omitempty" yaml:"parent_id,omitempty" cbor:"parent_id,omitempty"`
	Text     string `json:"text" yaml:"text" cbor:"text"`
	Done     bool   `json:"done" yaml:"done" cbor:"done"`
	Position int    `json:"position" yaml:"position" cbor:"position"`
}

// Result is an encoded snapshot ready to be written or served.
type Result struct {
	ID          string
	Data        []byte
	ContentType string
	Filename    string
	// Checksum is the hex BLAKE3-256 digest of Data.
	Checksum string
}
