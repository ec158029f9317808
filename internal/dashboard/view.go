package dashboard

import (
	"context"
	"net/url"
	"time"

	"github.com/rescuegrid/dispatch-admin/internal/filter"
	"github.com/rescuegrid/dispatch-admin/internal/model"
	"go.uber.org/zap"
)

// Lister fetches one page of a list for a backend query
type Lister interface {
	ListBookings(ctx context.Context, query url.Values) (*model.BookingPage, error)
}

// View is one booking list screen. Filter changes go through its
// synchronizer and mark the view stale until the next Refresh.
type View struct {
	sync     *filter.Synchronizer
	store    filter.QueryStore
	lister   Lister
	pageSize int
	extra    map[string]string
	log      *zap.Logger

	stale bool
	page  *model.BookingPage
}

// NewView initializes a view over store. The view starts stale.
func NewView(lister Lister, store filter.QueryStore, defaultDate filter.DateFilter, pageSize int, log *zap.Logger) *View {
	if log == nil {
		log = zap.NewNop()
	}
	v := &View{
		store:    store,
		lister:   lister,
		pageSize: pageSize,
		extra:    map[string]string{},
		log:      log,
		stale:    true,
	}
	v.sync = filter.Initialize(store, defaultDate, filter.WithOnFilterChange(v.onFilterChange))
	return v
}

func (v *View) onFilterChange(s filter.State) {
	v.stale = true
	v.log.Debug("filters changed",
		zap.String("date", string(s.DateFilter())),
		zap.String("status", s.Status),
	)
}

// State returns the current filters
func (v *View) State() filter.State {
	return v.sync.State()
}

// Query returns the view's shareable query string
func (v *View) Query() string {
	return v.sync.Query().Encode()
}

// Stale reports whether the filters changed since the last successful fetch
func (v *View) Stale() bool {
	return v.stale
}

// Page returns the last fetched page, or nil
func (v *View) Page() *model.BookingPage {
	return v.page
}

// SetExtra sets or clears (empty value) a list param outside the filters
func (v *View) SetExtra(key, value string) {
	if value == "" {
		delete(v.extra, key)
	} else {
		v.extra[key] = value
	}
	v.stale = true
}

func (v *View) SetDateFilter(f filter.DateFilter) {
	v.sync.SetDateFilter(f)
}

func (v *View) SetStatusFilter(status string) {
	v.sync.SetStatusFilter(status)
}

func (v *View) SetDateRange(start, end time.Time) error {
	return v.sync.SetDateRange(start, end)
}

// SetPage moves to the 0-based page n. The page needs a refetch even though
// no filter changed.
func (v *View) SetPage(n int) {
	before := v.sync.State().Page
	v.sync.SetPage(n)
	if v.sync.State().Page != before {
		v.stale = true
	}
}

// BackendParams returns the params the next Refresh will send
func (v *View) BackendParams() filter.BackendParams {
	return v.sync.BuildBackendParams(v.pageSize, v.extra)
}

// Refresh fetches the current page. On failure the filters stay as they
// are and the view stays stale.
func (v *View) Refresh(ctx context.Context) (*model.BookingPage, error) {
	params := v.BackendParams()
	page, err := v.lister.ListBookings(ctx, params.Values())
	if err != nil {
		v.log.Warn("failed to refresh view", zap.String("query", params.Encode()), zap.Error(err))
		return nil, err
	}
	v.page = page
	v.stale = false
	return page, nil
}
