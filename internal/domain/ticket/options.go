package ticket

// SearchOptions provides filtering options for search.
type SearchOptions struct {
	ProjectID *int64
	Statuses  []Status
	Limit     int
	Offset    int
}
