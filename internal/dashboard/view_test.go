package dashboard

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/rescuegrid/dispatch-admin/internal/filter"
	"github.com/rescuegrid/dispatch-admin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	queries []url.Values
	err     error
}

func (f *fakeLister) ListBookings(ctx context.Context, query url.Values) (*model.BookingPage, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return &model.BookingPage{Pagination: model.PaginationMeta{TotalItems: 1}}, nil
}

func TestView_InitialRefresh(t *testing.T) {
	lister := &fakeLister{}
	store := filter.ParseValuesStore("")
	v := NewView(lister, store, filter.DateToday, 10, nil)

	assert.True(t, v.Stale())
	assert.Equal(t, "date=today", v.Query())

	page, err := v.Refresh(context.Background())
	require.NoError(t, err)
	assert.Same(t, page, v.Page())
	assert.False(t, v.Stale())

	require.Len(t, lister.queries, 1)
	assert.Equal(t, "date=today&limit=10&page=1", lister.queries[0].Encode())
}

func TestView_FilterChangesMarkStale(t *testing.T) {
	lister := &fakeLister{}
	v := NewView(lister, filter.ParseValuesStore("?date=today"), filter.DateToday, 10, nil)
	_, err := v.Refresh(context.Background())
	require.NoError(t, err)

	v.SetStatusFilter("pending")
	assert.True(t, v.Stale())
	_, err = v.Refresh(context.Background())
	require.NoError(t, err)

	require.NoError(t, v.SetDateRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	))
	assert.True(t, v.Stale())
	assert.Equal(t, "date=custom&fromDate=2024-01-01&status=pending&toDate=2024-01-31", v.Query())

	v.SetExtra("serviceType", "ambulance")
	_, err = v.Refresh(context.Background())
	require.NoError(t, err)

	last := lister.queries[len(lister.queries)-1]
	assert.Equal(t, "custom", last.Get("date"))
	assert.Equal(t, "2024-01-01", last.Get("fromDate"))
	assert.Equal(t, "2024-01-31", last.Get("toDate"))
	assert.Equal(t, "pending", last.Get("status"))
	assert.Equal(t, "ambulance", last.Get("serviceType"))
}

func TestView_SetPage(t *testing.T) {
	lister := &fakeLister{}
	v := NewView(lister, filter.ParseValuesStore("?date=today"), filter.DateToday, 25, nil)
	_, err := v.Refresh(context.Background())
	require.NoError(t, err)

	v.SetPage(0)
	assert.False(t, v.Stale(), "same page does not need a refetch")

	v.SetPage(2)
	assert.True(t, v.Stale())
	assert.Equal(t, 3, v.BackendParams().Page)
	assert.Equal(t, "date=today&page=3", v.Query())
}

func TestView_RefreshFailureKeepsFilters(t *testing.T) {
	lister := &fakeLister{}
	v := NewView(lister, filter.ParseValuesStore("?date=today"), filter.DateToday, 10, nil)

	lister.err = errors.New("connection reset")
	v.SetDateFilter(filter.DateThisMonth)

	_, err := v.Refresh(context.Background())
	require.Error(t, err)

	assert.True(t, v.Stale())
	assert.Nil(t, v.Page())
	assert.Equal(t, filter.DateThisMonth, v.State().DateFilter())
	assert.Equal(t, "date=thisMonth", v.Query())
}

func TestView_RejectedRangeLeavesViewFresh(t *testing.T) {
	v := NewView(&fakeLister{}, filter.ParseValuesStore("?date=today"), filter.DateToday, 10, nil)
	_, err := v.Refresh(context.Background())
	require.NoError(t, err)

	err = v.SetDateRange(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	assert.ErrorIs(t, err, filter.ErrPartialRange)
	assert.False(t, v.Stale())
	assert.Equal(t, "date=today", v.Query())
}
