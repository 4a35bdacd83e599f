package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/GerardFevill/taskflow/internal/domain/ticket"
)

// SearchRepository implements ticket.SearchRepository for SQLite
type SearchRepository struct {
	db querier
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Search performs a full-text search over ticket titles and descriptions
func (r *SearchRepository) Search(ctx context.Context, query string, opts ticket.SearchOptions) ([]ticket.SearchResult, error) {
	match := matchExpression(query)
	if match == "" {
		return nil, nil
	}

	baseQuery := `
		SELECT
			t.id, t.project_id, t.title, t.description, t.status, t.priority,
			t.position, t.due_date, t.created_at, t.updated_at,
			bm25(tickets_fts) as rank,
			snippet(tickets_fts, -1, '[', ']', '...', 12) as snippet
		FROM tickets_fts
		JOIN tickets t ON t.id = tickets_fts.rowid
		WHERE tickets_fts MATCH ?
	`

	args := []any{match}
	conditions := []string{}

	if opts.ProjectID != nil {
		conditions = append(conditions, "t.project_id = ?")
		args = append(args, *opts.ProjectID)
	}

	if len(opts.Statuses) > 0 {
		placeholders := make([]string, len(opts.Statuses))
		for i, status := range opts.Statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		conditions = append(conditions, fmt.Sprintf("t.status IN (%s)", strings.Join(placeholders, ",")))
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	baseQuery += " ORDER BY rank, t.id"

	if opts.Limit > 0 {
		baseQuery += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			baseQuery += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search tickets: %w", err)
	}
	defer rows.Close()

	var results []ticket.SearchResult
	for rows.Next() {
		var result ticket.SearchResult
		var t *ticket.Ticket
		t, err = scanTicketWith(rows, &result.Rank, &result.Snippet)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		result.Ticket = *t
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	return results, nil
}

// matchExpression quotes every term so user input can't inject FTS5 syntax.
// Terms are ANDed, the last one as a prefix.
func matchExpression(query string) string {
	terms := strings.Fields(query)
	for i, term := range terms {
		terms[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
	}
	if len(terms) == 0 {
		return ""
	}
	terms[len(terms)-1] += "*"
	return strings.Join(terms, " ")
}
