package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/josh-kwaku/learning-backend/internal/auth"
	"github.com/josh-kwaku/learning-backend/internal/domain"
)

const maxBodyBytes = 1 << 20

// requester returns the authenticated caller's id.
func requester(r *http.Request) (uuid.UUID, *AppError) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, ErrMissingToken
	}
	return id, nil
}

// pathID parses a UUID path segment. A malformed id cannot name an existing
// resource, so it reads as not found.
func pathID(r *http.Request, name string) (uuid.UUID, *AppError) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, ErrResourceNotFound
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) *AppError {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return ErrInvalidRequest
	}
	return nil
}

// Paging holds the page size bounds applied to list endpoints.
type Paging struct {
	DefaultSize int
	MaxSize     int
}

// parse reads page, size, sortBy and direction from the query string. page is
// 1-based; size is clamped to MaxSize.
func (p Paging) parse(r *http.Request) (domain.PageRequest, []FieldError) {
	q := r.URL.Query()
	req := domain.PageRequest{
		Page:      1,
		Size:      p.DefaultSize,
		SortBy:    q.Get("sortBy"),
		Direction: domain.SortDesc,
	}
	var errs []FieldError

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs = append(errs, FieldError{Field: "page", Message: "must be a positive integer"})
		}
		req.Page = n
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs = append(errs, FieldError{Field: "size", Message: "must be a positive integer"})
		}
		req.Size = min(n, p.MaxSize)
	}
	switch d := strings.ToUpper(q.Get("direction")); d {
	case "":
	case string(domain.SortAsc), string(domain.SortDesc):
		req.Direction = domain.SortDirection(d)
	default:
		errs = append(errs, FieldError{Field: "direction", Message: "must be ASC or DESC"})
	}
	return req, errs
}
