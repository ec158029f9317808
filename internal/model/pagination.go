package model

import (
	"time"
)

// PaginationMeta contains pagination metadata for paginated responses
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
}

// ListBookingsParams contains all parameters for paginated booking listing
type ListBookingsParams struct {
	// Pagination
	Page    int
	PerPage int

	// Sorting
	SortBy  string
	SortDir string

	// Search
	Search string

	// Filters. CreatedFrom is inclusive, CreatedTo exclusive.
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Status      string
	ServiceType string
}

// DefaultListBookingsParams returns default pagination parameters
func DefaultListBookingsParams() ListBookingsParams {
	return ListBookingsParams{
		Page:    1,
		PerPage: 10,
		SortBy:  "created_at",
		SortDir: "desc",
	}
}

// Offset returns the SQL offset for the current page
func (p ListBookingsParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}
