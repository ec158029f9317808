package handler

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rescuegrid/dispatch-admin/internal/filter"
	"github.com/rescuegrid/dispatch-admin/internal/model"
)

// Allowed sort fields for booking listing
var allowedSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"status":        true,
	"service_type":  true,
	"customer_name": true,
	"amount":        true,
}

// Allowed sort directions
var allowedSortDirs = map[string]bool{
	"asc":  true,
	"desc": true,
}

// Query keys accepted next to the filter keys
const (
	keyServiceType = "serviceType"
	keySearch      = "search"
	keySortBy      = "sort_by"
	keySortDir     = "sort_dir"
	keyPerPage     = "per_page"
)

const (
	defaultPage = 1
	minPerPage  = 1
)

// ListOptions carries the server-wide list settings
type ListOptions struct {
	Location          *time.Location
	DefaultPageSize   int
	MaxPageSize       int
	DefaultDateFilter filter.DateFilter
	PublicBaseURL     string
	// Now is replaced in tests
	Now func() time.Time
}

func (o ListOptions) now() time.Time {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	loc := o.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

// clampPageSize bounds a requested page size, falling back to the default
// when it is missing or invalid
func (o ListOptions) clampPageSize(raw string) int {
	perPage, err := strconv.Atoi(raw)
	if err != nil || perPage < minPerPage {
		perPage = o.DefaultPageSize
	}
	if o.MaxPageSize > 0 && perPage > o.MaxPageSize {
		perPage = o.MaxPageSize
	}
	return perPage
}

// ParseListBookingsParams parses the list-fetch query produced by a
// dashboard view into repository parameters. Quick date filters are
// resolved against the current time in the configured timezone; a full
// fromDate/toDate pair takes precedence over them.
func ParseListBookingsParams(q url.Values, opts ListOptions) model.ListBookingsParams {
	params := model.DefaultListBookingsParams()

	// Parse page
	if pageStr := q.Get(filter.KeyPage); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			page = defaultPage
		}
		params.Page = page
	}

	// Parse limit, per_page is kept for older clients
	limit := q.Get(filter.KeyLimit)
	if limit == "" {
		limit = q.Get(keyPerPage)
	}
	params.PerPage = opts.clampPageSize(limit)

	// Parse sort_by
	if sortBy := q.Get(keySortBy); sortBy != "" {
		sortBy = strings.ToLower(strings.TrimSpace(sortBy))
		if allowedSortFields[sortBy] {
			params.SortBy = sortBy
		}
	}

	// Parse sort_dir
	if sortDir := q.Get(keySortDir); sortDir != "" {
		sortDir = strings.ToLower(strings.TrimSpace(sortDir))
		if allowedSortDirs[sortDir] {
			params.SortDir = sortDir
		}
	}

	params.Search = strings.TrimSpace(q.Get(keySearch))
	params.Status = strings.TrimSpace(q.Get(filter.KeyStatus))
	if st := strings.ToLower(strings.TrimSpace(q.Get(keyServiceType))); model.IsValidServiceType(st) {
		params.ServiceType = st
	}

	// Parse the date window
	if period, ok := parsePeriod(q, opts); ok {
		from, to := period.From, period.To
		params.CreatedFrom = &from
		params.CreatedTo = &to
	}

	return params
}

func parsePeriod(q url.Values, opts ListOptions) (filter.Period, bool) {
	from, errFrom := time.Parse(filter.DateLayout, q.Get(filter.KeyFromDate))
	to, errTo := time.Parse(filter.DateLayout, q.Get(filter.KeyToDate))
	if errFrom == nil && errTo == nil && !from.After(to) {
		loc := opts.Location
		if loc == nil {
			loc = time.UTC
		}
		return filter.CustomPeriod(from, to, loc), true
	}

	date, ok := filter.ParseDateFilter(q.Get(filter.KeyDate))
	if !ok {
		return filter.Period{}, false
	}
	return filter.ResolvePeriod(date, opts.now())
}

// listCacheKey renders parsed params back to a canonical query so equal
// requests share a cache entry
func listCacheKey(p model.ListBookingsParams) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("per_page", strconv.Itoa(p.PerPage))
	v.Set("sort", p.SortBy+" "+p.SortDir)
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.Status != "" {
		v.Set("status", p.Status)
	}
	if p.ServiceType != "" {
		v.Set("service_type", p.ServiceType)
	}
	if p.CreatedFrom != nil {
		v.Set("from", p.CreatedFrom.UTC().Format(time.RFC3339))
	}
	if p.CreatedTo != nil {
		v.Set("to", p.CreatedTo.UTC().Format(time.RFC3339))
	}
	return v
}

// CalculateTotalPages calculates total pages from total items and per page
func CalculateTotalPages(totalItems int64, perPage int) int {
	if totalItems == 0 || perPage <= 0 {
		return 0
	}
	pages := int(totalItems) / perPage
	if int(totalItems)%perPage > 0 {
		pages++
	}
	return pages
}
