package repository

import "github.com/josh-kwaku/learning-backend/internal/domain"

// orderBy maps a caller-supplied sort key onto a whitelisted column. Unknown
// keys fall back to fallback so user input never reaches the SQL text.
func orderBy(columns map[string]string, fallback string, p domain.PageRequest) string {
	col, ok := columns[p.SortBy]
	if !ok {
		col = fallback
	}
	dir := "DESC"
	if p.Direction == domain.SortAsc {
		dir = "ASC"
	}
	return col + " " + dir
}
