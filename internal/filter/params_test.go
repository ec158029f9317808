package filter

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackendParams_Values(t *testing.T) {
	p := BackendParams{
		Page:     2,
		Limit:    10,
		Date:     DateCustom,
		FromDate: "2024-01-01",
		ToDate:   "2024-01-31",
		Status:   "active",
	}

	assert.Equal(t, "date=custom&fromDate=2024-01-01&limit=10&page=2&status=active&toDate=2024-01-31", p.Encode())
}

func TestBackendParams_FiltersOverrideExtras(t *testing.T) {
	p := BackendParams{
		Page:   1,
		Limit:  10,
		Date:   DateToday,
		Status: "pending",
		Extra: map[string]string{
			"status":      "ignored",
			"limit":       "50",
			"serviceType": "manpower",
		},
	}

	v := p.Values()
	assert.Equal(t, "pending", v.Get(KeyStatus))
	assert.Equal(t, "50", v.Get(KeyLimit))
	assert.Equal(t, "manpower", v.Get("serviceType"))
	assert.Equal(t, "today", v.Get(KeyDate))
}

func TestRequestStore_Changed(t *testing.T) {
	r := httptest.NewRequest("GET", "/views/bookings?status=pending", nil)
	store := NewRequestStore(r)

	s := Initialize(store, DateToday)

	assert.True(t, store.Changed())
	assert.Equal(t, url.Values{"date": {"today"}, "status": {"pending"}}, store.Read())
	assert.Equal(t, "pending", s.State().Status)

	canonical := httptest.NewRequest("GET", "/views/bookings?date=today&status=pending", nil)
	store = NewRequestStore(canonical)
	Initialize(store, DateToday)
	assert.False(t, store.Changed())
}

func TestValuesStore_IsolatesCallers(t *testing.T) {
	store := ParseValuesStore("?date=today")

	v := store.Read()
	v.Set(KeyDate, "yesterday")

	assert.Equal(t, "today", store.Read().Get(KeyDate))
}
