package domain

import (
	"vidtube/errs"
)

// Pagination defaults applied by Normalize when the caller leaves the
// request empty.
const (
	DefaultPage    = 1
	DefaultLimit   = 10
	DefaultSortKey = "created_at"
	SortAsc        = "asc"
	SortDesc       = "desc"
	MaxLimit       = 100
)

// PageRequest is the uniform page/limit/sort contract applied to every
// paginated listing.
type PageRequest struct {
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	SortBy  string `json:"sort_by"`
	SortDir string `json:"sort_dir"`
}

// Normalize fills in the defaults for fields the caller left zero-valued.
// It does not fix invalid values; that is Validate's job.
func (r *PageRequest) Normalize() {
	if r.Page == 0 {
		r.Page = DefaultPage
	}
	if r.Limit == 0 {
		r.Limit = DefaultLimit
	}
	if r.SortBy == "" {
		r.SortBy = DefaultSortKey
	}
	if r.SortDir == "" {
		r.SortDir = SortAsc
	}
}

// Validate rejects non-positive page and limit values, an unknown sort
// direction, and any sort key not in the allowed set. Rejecting instead of
// clamping keeps a bad request visible to the caller.
func (r PageRequest) Validate(allowedSortKeys ...string) error {
	if r.Page <= 0 {
		return errs.Errorf(errs.EINVALID, "Page must be a positive integer.")
	}
	if r.Limit <= 0 || r.Limit > MaxLimit {
		return errs.Errorf(errs.EINVALID, "Limit must be between 1 and %d.", MaxLimit)
	}
	if r.SortDir != SortAsc && r.SortDir != SortDesc {
		return errs.Errorf(errs.EINVALID, "Sort direction must be %q or %q.", SortAsc, SortDesc)
	}
	for _, key := range allowedSortKeys {
		if r.SortBy == key {
			return nil
		}
	}
	return errs.Errorf(errs.EINVALID, "Unknown sort key %q.", r.SortBy)
}

// Offset returns the number of records to skip for this page.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// Page is one slice of an ordered result set, together with the totals
// computed against the same filtered query.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}

// NewPage assembles a Page from a slice and the total count of the filtered
// query it was cut from.
func NewPage[T any](items []T, req PageRequest, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &Page[T]{
		Items:       items,
		Page:        req.Page,
		Limit:       req.Limit,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNextPage: req.Page < totalPages,
		HasPrevPage: req.Page > 1 && total > 0,
	}
}
