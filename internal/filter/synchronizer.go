package filter

import (
	"errors"
	"net/url"
	"strconv"
	"time"
)

var (
	ErrPartialRange  = errors.New("date range needs both start and end")
	ErrInvertedRange = errors.New("date range start is after end")
)

// State is a snapshot of a list view's filters
type State struct {
	Selection DateSelection
	Status    string
	// Page is 0-based; the URL carries Page+1
	Page int
}

// DateFilter returns the date slot as seen in the URL
func (s State) DateFilter() DateFilter {
	return s.Selection.Filter()
}

// DateRange returns the custom range or two zero times
func (s State) DateRange() (time.Time, time.Time) {
	start, end, _ := s.Selection.Range()
	return start, end
}

// Option configures a Synchronizer
type Option func(*Synchronizer)

// WithOnFilterChange registers a callback fired after the date, status or
// range filters change. Page changes do not fire it.
func WithOnFilterChange(fn func(State)) Option {
	return func(s *Synchronizer) {
		s.onChange = fn
	}
}

// Synchronizer keeps a list view's filter state and its query string in
// step. It is owned by a single view and is not safe for concurrent use.
type Synchronizer struct {
	store       QueryStore
	defaultDate DateFilter
	onChange    func(State)
	state       State
}

// Initialize reads the filters from the store. When the store has no usable
// date filter the default is seeded and written back, so the URL always
// names a filter after the first load.
func Initialize(store QueryStore, defaultDate DateFilter, opts ...Option) *Synchronizer {
	if defaultDate == DateCustom || (defaultDate != DateNone && !defaultDate.IsQuick()) {
		defaultDate = DateNone
	}
	s := &Synchronizer{store: store, defaultDate: defaultDate}
	for _, opt := range opts {
		opt(s)
	}

	q := store.Read()
	rawDate := q.Get(KeyDate)
	date, known := ParseDateFilter(rawDate)

	from, errFrom := time.Parse(DateLayout, q.Get(KeyFromDate))
	to, errTo := time.Parse(DateLayout, q.Get(KeyToDate))
	hasRange := errFrom == nil && errTo == nil && !from.After(to)

	switch {
	case hasRange:
		s.state.Selection = Custom(from, to)
	case known:
		s.state.Selection = Quick(date)
	default:
		s.state.Selection = Quick(defaultDate)
	}

	s.state.Status = q.Get(KeyStatus)
	page, err := strconv.Atoi(q.Get(KeyPage))
	validPage := err == nil && page > 1
	if validPage {
		s.state.Page = page - 1
	}

	// the first page, like an unparsable one, is never written out
	stalePage := q.Has(KeyPage) && (!validPage || q.Get(KeyPage) != strconv.Itoa(page))
	staleRange := !hasRange && (q.Has(KeyFromDate) || q.Has(KeyToDate))
	if want := string(s.state.Selection.Filter()); want != rawDate || staleRange || stalePage {
		setOrDel(q, KeyDate, want)
		if !hasRange {
			q.Del(KeyFromDate)
			q.Del(KeyToDate)
		}
		if stalePage {
			q.Del(KeyPage)
			if validPage {
				q.Set(KeyPage, strconv.Itoa(page))
			}
		}
		store.Write(q)
	}

	return s
}

// State returns a snapshot of the current filters
func (s *Synchronizer) State() State {
	return s.state
}

// DefaultDateFilter returns the filter restored when a custom range is cleared
func (s *Synchronizer) DefaultDateFilter() DateFilter {
	return s.defaultDate
}

// SetDateFilter switches the quick filter. Any value other than custom
// drops the custom range. The page resets to the first one.
func (s *Synchronizer) SetDateFilter(f DateFilter) {
	if f != DateNone {
		if _, ok := ParseDateFilter(string(f)); !ok {
			f = DateNone
		}
	}

	// choosing custom again keeps an already picked range
	if _, _, ok := s.state.Selection.Range(); f != DateCustom || !ok {
		s.state.Selection = Quick(f)
	}
	s.state.Page = 0

	q := s.store.Read()
	if f != DateCustom {
		q.Del(KeyFromDate)
		q.Del(KeyToDate)
	}
	setOrDel(q, KeyDate, string(f))
	q.Del(KeyPage)
	s.store.Write(q)

	s.changed()
}

// SetStatusFilter sets or clears (empty string) the status filter
func (s *Synchronizer) SetStatusFilter(status string) {
	s.state.Status = status
	s.state.Page = 0

	q := s.store.Read()
	setOrDel(q, KeyStatus, status)
	q.Del(KeyPage)
	s.store.Write(q)

	s.changed()
}

// SetDateRange applies a custom range. Zero times mean "no date": two zero
// bounds clear the range and restore the default filter if the view was on
// custom. A single zero bound is rejected with ErrPartialRange and leaves
// the view as it was.
func (s *Synchronizer) SetDateRange(start, end time.Time) error {
	switch {
	case start.IsZero() && end.IsZero():
		s.clearRange()
		return nil
	case start.IsZero() || end.IsZero():
		return ErrPartialRange
	}

	sel := Custom(start, end)
	from, to, _ := sel.Range()
	if from.After(to) {
		return ErrInvertedRange
	}

	s.state.Selection = sel
	s.state.Page = 0

	q := s.store.Read()
	q.Set(KeyDate, string(DateCustom))
	q.Set(KeyFromDate, from.Format(DateLayout))
	q.Set(KeyToDate, to.Format(DateLayout))
	q.Del(KeyPage)
	s.store.Write(q)

	s.changed()
	return nil
}

func (s *Synchronizer) clearRange() {
	wasCustom := s.state.Selection.Filter() == DateCustom
	if wasCustom {
		s.state.Selection = Quick(s.defaultDate)
	}

	q := s.store.Read()
	q.Del(KeyFromDate)
	q.Del(KeyToDate)
	if wasCustom {
		setOrDel(q, KeyDate, string(s.defaultDate))
	}
	s.store.Write(q)

	s.changed()
}

// SetPage moves to the 0-based page n. Page 0 drops the key from the URL.
func (s *Synchronizer) SetPage(n int) {
	if n < 0 {
		n = 0
	}
	s.state.Page = n

	q := s.store.Read()
	if n == 0 {
		q.Del(KeyPage)
	} else {
		q.Set(KeyPage, strconv.Itoa(n+1))
	}
	s.store.Write(q)
}

// BuildBackendParams derives the list-fetch parameters from the current
// state. It has no side effects.
func (s *Synchronizer) BuildBackendParams(pageSize int, extra map[string]string) BackendParams {
	p := BackendParams{
		Page:   s.state.Page + 1,
		Limit:  pageSize,
		Status: s.state.Status,
	}
	if len(extra) > 0 {
		p.Extra = make(map[string]string, len(extra))
		for k, v := range extra {
			p.Extra[k] = v
		}
	}

	if f := s.state.Selection.Filter(); f != DateNone && f != DateCustom {
		p.Date = f
	}
	if from, to, ok := s.state.Selection.Range(); ok {
		p.Date = DateCustom
		p.FromDate = from.Format(DateLayout)
		p.ToDate = to.Format(DateLayout)
	}
	return p
}

// Query returns the store's current query values
func (s *Synchronizer) Query() url.Values {
	return s.store.Read()
}

func (s *Synchronizer) changed() {
	if s.onChange != nil {
		s.onChange(s.state)
	}
}

func setOrDel(q url.Values, key, value string) {
	if value == "" {
		q.Del(key)
		return
	}
	q.Set(key, value)
}
