package filter

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestInitialize_SeedsDefaultDate(t *testing.T) {
	store := NewValuesStore(nil)

	s := Initialize(store, DateToday)

	assert.Equal(t, DateToday, s.State().DateFilter())
	assert.Equal(t, 0, s.State().Page)
	assert.Equal(t, "date=today", store.Encode())
	assert.Equal(t, 1, store.Writes())
}

func TestInitialize_KeepsCanonicalURLUntouched(t *testing.T) {
	store := ParseValuesStore("?date=thisWeek&status=pending&page=4")

	s := Initialize(store, DateToday)

	assert.Equal(t, DateThisWeek, s.State().DateFilter())
	assert.Equal(t, "pending", s.State().Status)
	assert.Equal(t, 3, s.State().Page)
	assert.Equal(t, 0, store.Writes())
}

func TestInitialize_RangeImpliesCustom(t *testing.T) {
	store := ParseValuesStore("date=today&fromDate=2024-01-01&toDate=2024-01-31")

	s := Initialize(store, DateToday)

	start, end := s.State().DateRange()
	assert.Equal(t, DateCustom, s.State().DateFilter())
	assert.True(t, start.Equal(day("2024-01-01")))
	assert.True(t, end.Equal(day("2024-01-31")))
	assert.Equal(t, "custom", store.Read().Get(KeyDate))
}

func TestInitialize_MalformedValuesDegrade(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantDate DateFilter
		wantPage int
		wantURL  url.Values
	}{
		{
			name:     "unknown date",
			query:    "date=lastYear",
			wantDate: DateToday,
			wantURL:  url.Values{"date": {"today"}},
		},
		{
			name:     "non numeric page",
			query:    "date=today&page=abc",
			wantDate: DateToday,
			wantURL:  url.Values{"date": {"today"}},
		},
		{
			name:     "negative page",
			query:    "date=yesterday&page=-3",
			wantDate: DateYesterday,
			wantURL:  url.Values{"date": {"yesterday"}},
		},
		{
			name:     "first page",
			query:    "date=today&page=1",
			wantDate: DateToday,
			wantURL:  url.Values{"date": {"today"}},
		},
		{
			name:     "zero padded page",
			query:    "date=today&page=03",
			wantDate: DateToday,
			wantPage: 2,
			wantURL:  url.Values{"date": {"today"}, "page": {"3"}},
		},
		{
			name:     "bad range dates",
			query:    "date=custom&fromDate=2024-13-01&toDate=2024-01-31",
			wantDate: DateCustom,
			wantURL:  url.Values{"date": {"custom"}},
		},
		{
			name:     "inverted range",
			query:    "fromDate=2024-02-01&toDate=2024-01-01",
			wantDate: DateToday,
			wantURL:  url.Values{"date": {"today"}},
		},
		{
			name:     "lone fromDate",
			query:    "date=thisMonth&fromDate=2024-02-01",
			wantDate: DateThisMonth,
			wantURL:  url.Values{"date": {"thisMonth"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := ParseValuesStore(tt.query)
			s := Initialize(store, DateToday)

			assert.Equal(t, tt.wantDate, s.State().DateFilter())
			assert.Equal(t, tt.wantPage, s.State().Page)
			assert.Equal(t, tt.wantURL, store.Read())
		})
	}
}

func TestInitialize_NoDefault(t *testing.T) {
	store := NewValuesStore(nil)

	s := Initialize(store, DateNone)

	assert.Equal(t, DateNone, s.State().DateFilter())
	assert.Equal(t, 0, store.Writes())
}

func TestSetDateFilter_QuickClearsRange(t *testing.T) {
	for _, f := range []DateFilter{DateToday, DateYesterday, DateThisWeek, DateThisMonth} {
		t.Run(string(f), func(t *testing.T) {
			store := ParseValuesStore("date=custom&fromDate=2024-01-01&toDate=2024-01-31&page=5")
			s := Initialize(store, DateToday)

			s.SetDateFilter(f)

			start, end := s.State().DateRange()
			assert.True(t, start.IsZero())
			assert.True(t, end.IsZero())
			assert.Equal(t, 0, s.State().Page)
			assert.Equal(t, url.Values{"date": {string(f)}}, store.Read())

			p := s.BuildBackendParams(10, nil)
			assert.Equal(t, f, p.Date)
			assert.Empty(t, p.FromDate)
			assert.Empty(t, p.ToDate)
			assert.NotContains(t, p.Values(), KeyFromDate)
			assert.NotContains(t, p.Values(), KeyToDate)
		})
	}
}

func TestSetDateFilter_CustomIsPendingUntilRange(t *testing.T) {
	store := NewValuesStore(nil)
	s := Initialize(store, DateToday)

	s.SetDateFilter(DateCustom)

	assert.True(t, s.State().Selection.Pending())
	assert.Equal(t, "date=custom", store.Encode())

	p := s.BuildBackendParams(25, nil)
	assert.Equal(t, DateNone, p.Date)
	assert.Equal(t, url.Values{"page": {"1"}, "limit": {"25"}}, p.Values())
}

func TestSetDateFilter_CustomKeepsPickedRange(t *testing.T) {
	store := NewValuesStore(nil)
	s := Initialize(store, DateToday)
	require.NoError(t, s.SetDateRange(day("2024-05-01"), day("2024-05-07")))

	s.SetDateFilter(DateCustom)

	start, end := s.State().DateRange()
	assert.True(t, start.Equal(day("2024-05-01")))
	assert.True(t, end.Equal(day("2024-05-07")))
	assert.Equal(t, "2024-05-01", store.Read().Get(KeyFromDate))
}

func TestSetDateFilter_None(t *testing.T) {
	store := ParseValuesStore("date=today&status=assigned")
	s := Initialize(store, DateToday)

	s.SetDateFilter(DateNone)

	assert.Equal(t, DateNone, s.State().DateFilter())
	assert.Equal(t, "status=assigned", store.Encode())
	assert.NotContains(t, s.BuildBackendParams(10, nil).Values(), KeyDate)
}

func TestSetStatusFilter(t *testing.T) {
	store := ParseValuesStore("date=today&page=3")
	s := Initialize(store, DateToday)

	s.SetStatusFilter("completed")
	assert.Equal(t, "completed", s.State().Status)
	assert.Equal(t, 0, s.State().Page)
	assert.Equal(t, "date=today&status=completed", store.Encode())

	s.SetStatusFilter("")
	assert.Equal(t, "", s.State().Status)
	assert.Equal(t, "date=today", store.Encode())
}

func TestSetDateRange_ForcesCustomFromAnyState(t *testing.T) {
	for _, query := range []string{"", "date=yesterday", "date=custom", "date=thisMonth&status=x&page=9"} {
		t.Run(query, func(t *testing.T) {
			s := Initialize(ParseValuesStore(query), DateToday)

			require.NoError(t, s.SetDateRange(day("2024-01-01"), day("2024-01-31")))

			p := s.BuildBackendParams(10, nil)
			assert.Equal(t, DateCustom, p.Date)
			assert.Equal(t, "2024-01-01", p.FromDate)
			assert.Equal(t, "2024-01-31", p.ToDate)
			assert.Equal(t, 1, p.Page)
		})
	}
}

func TestSetDateRange_SingleDay(t *testing.T) {
	s := Initialize(NewValuesStore(nil), DateToday)

	require.NoError(t, s.SetDateRange(day("2024-02-29"), day("2024-02-29")))

	p := s.BuildBackendParams(10, nil)
	assert.Equal(t, p.FromDate, p.ToDate)
}

func TestSetDateRange_TruncatesToDays(t *testing.T) {
	store := NewValuesStore(nil)
	s := Initialize(store, DateToday)

	start := time.Date(2024, 3, 1, 17, 45, 0, 0, time.UTC)
	end := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.SetDateRange(start, end))

	assert.Equal(t, "2024-03-01", store.Read().Get(KeyFromDate))
	assert.Equal(t, "2024-03-02", store.Read().Get(KeyToDate))
}

func TestSetDateRange_ClearRevertsToDefault(t *testing.T) {
	store := ParseValuesStore("date=custom&fromDate=2024-01-01&toDate=2024-01-31&status=pending")
	s := Initialize(store, DateThisWeek)

	require.NoError(t, s.SetDateRange(time.Time{}, time.Time{}))

	assert.Equal(t, DateThisWeek, s.State().DateFilter())
	assert.Equal(t, url.Values{"date": {"thisWeek"}, "status": {"pending"}}, store.Read())
}

func TestSetDateRange_ClearOnQuickFilterKeepsIt(t *testing.T) {
	store := ParseValuesStore("date=yesterday")
	s := Initialize(store, DateToday)

	require.NoError(t, s.SetDateRange(time.Time{}, time.Time{}))

	assert.Equal(t, DateYesterday, s.State().DateFilter())
	assert.Equal(t, "date=yesterday", store.Encode())
}

func TestSetDateRange_RejectsPartialAndInverted(t *testing.T) {
	store := ParseValuesStore("date=custom&fromDate=2024-01-01&toDate=2024-01-31&page=2")
	calls := 0
	s := Initialize(store, DateToday, WithOnFilterChange(func(State) { calls++ }))
	before := store.Encode()

	assert.ErrorIs(t, s.SetDateRange(day("2024-02-01"), time.Time{}), ErrPartialRange)
	assert.ErrorIs(t, s.SetDateRange(time.Time{}, day("2024-02-01")), ErrPartialRange)
	assert.ErrorIs(t, s.SetDateRange(day("2024-02-10"), day("2024-02-01")), ErrInvertedRange)

	start, _ := s.State().DateRange()
	assert.True(t, start.Equal(day("2024-01-01")))
	assert.Equal(t, 1, s.State().Page)
	assert.Equal(t, before, store.Encode())
	assert.Zero(t, calls)
}

func TestSetPage_Idempotent(t *testing.T) {
	once := ParseValuesStore("date=today")
	twice := ParseValuesStore("date=today")
	a := Initialize(once, DateToday)
	b := Initialize(twice, DateToday)

	a.SetPage(4)
	b.SetPage(4)
	b.SetPage(4)

	assert.Equal(t, a.State(), b.State())
	assert.Equal(t, once.Read(), twice.Read())
	assert.Equal(t, "5", once.Read().Get(KeyPage))
}

func TestSetPage_FirstPageOmitsKey(t *testing.T) {
	store := ParseValuesStore("date=today&page=7")
	s := Initialize(store, DateToday)

	s.SetPage(0)

	assert.Equal(t, "date=today", store.Encode())
}

func TestSetPage_DoesNotFireCallback(t *testing.T) {
	calls := 0
	s := Initialize(NewValuesStore(nil), DateToday, WithOnFilterChange(func(State) { calls++ }))

	s.SetPage(3)

	assert.Zero(t, calls)
}

func TestRoundTrip(t *testing.T) {
	store := NewValuesStore(nil)
	s := Initialize(store, DateToday)
	s.SetStatusFilter("enroute")
	require.NoError(t, s.SetDateRange(day("2023-12-24"), day("2024-01-02")))
	s.SetPage(6)

	restored := Initialize(NewValuesStore(store.Read()), DateToday)

	assert.Equal(t, s.State().DateFilter(), restored.State().DateFilter())
	assert.Equal(t, s.State().Status, restored.State().Status)
	assert.Equal(t, s.State().Page, restored.State().Page)
	assert.True(t, s.State().Selection.Equal(restored.State().Selection))
}

func TestCallbackSeesUpdatedStateAndURL(t *testing.T) {
	store := NewValuesStore(nil)
	var seen []string
	s := Initialize(store, DateToday, WithOnFilterChange(func(st State) {
		seen = append(seen, string(st.DateFilter())+"|"+store.Encode())
	}))

	s.SetDateFilter(DateThisMonth)

	require.Len(t, seen, 1)
	assert.Equal(t, "thisMonth|date=thisMonth", seen[0])
}

func TestScenario(t *testing.T) {
	store := NewValuesStore(nil)
	changes := 0
	s := Initialize(store, DateToday, WithOnFilterChange(func(State) { changes++ }))

	assert.Equal(t, DateToday, s.State().DateFilter())
	assert.Equal(t, 0, s.State().Page)

	s.SetStatusFilter("active")
	assert.Equal(t, url.Values{"date": {"today"}, "status": {"active"}}, store.Read())

	require.NoError(t, s.SetDateRange(day("2024-03-01"), day("2024-03-31")))
	assert.Equal(t, DateCustom, s.State().DateFilter())
	assert.Equal(t, "active", s.State().Status)
	assert.Equal(t, url.Values{
		"date":     {"custom"},
		"status":   {"active"},
		"fromDate": {"2024-03-01"},
		"toDate":   {"2024-03-31"},
	}, store.Read())

	s.SetPage(2)
	assert.Equal(t, "3", store.Read().Get(KeyPage))

	p := s.BuildBackendParams(10, nil)
	assert.Equal(t, BackendParams{
		Page:     3,
		Limit:    10,
		Date:     DateCustom,
		FromDate: "2024-03-01",
		ToDate:   "2024-03-31",
		Status:   "active",
	}, p)
	assert.Equal(t, 2, changes)
}

func TestBuildBackendParams_IsPure(t *testing.T) {
	store := ParseValuesStore("date=today&status=pending&page=2")
	s := Initialize(store, DateToday)
	before := s.State()

	extra := map[string]string{"serviceType": "ambulance"}
	p := s.BuildBackendParams(20, extra)
	extra["serviceType"] = "vendor"

	assert.Equal(t, before, s.State())
	assert.Equal(t, 0, store.Writes())
	assert.Equal(t, "ambulance", p.Extra["serviceType"])
}
