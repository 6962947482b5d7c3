package models

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageParams selects one page of a listing. Construct via ParsePageParams or
// normalize raw values with Normalized; malformed input degrades to defaults
// rather than erroring, so pagination never produces a validation failure.
type PageParams struct {
	Page  int
	Limit int
}

// ParsePageParams builds PageParams from raw query strings. Non-numeric
// input falls back to the defaults.
func ParsePageParams(pageStr, limitStr string) PageParams {
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		page = DefaultPage
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		limit = DefaultLimit
	}
	return PageParams{Page: page, Limit: limit}.Normalized()
}

// Normalized clamps the parameters: page ≥ 1 (default 1), limit in [1,100]
// (default 10 when non-positive).
func (p PageParams) Normalized() PageParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset is the number of items to skip for this page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination describes one page of results. Total may be stale relative to
// the items when writes race the listing; that divergence is accepted.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes TotalPages = ceil(total/limit).
func NewPagination(total int, p PageParams) Pagination {
	return Pagination{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: (total + p.Limit - 1) / p.Limit,
	}
}

// PagedPosts is one page of posts plus its pagination envelope.
type PagedPosts struct {
	Items      []*Post
	Pagination Pagination
}

// PagedComments is one page of comments plus its pagination envelope.
type PagedComments struct {
	Items      []*Comment
	Pagination Pagination
}
