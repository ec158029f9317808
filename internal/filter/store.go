package filter

import (
	"net/http"
	"net/url"
)

// Query keys shared by the dashboard URL and the list endpoints
const (
	KeyPage     = "page"
	KeyLimit    = "limit"
	KeyDate     = "date"
	KeyStatus   = "status"
	KeyFromDate = "fromDate"
	KeyToDate   = "toDate"
)

// QueryStore is the read/write facility for the view's query string
type QueryStore interface {
	Read() url.Values
	Write(url.Values)
}

// ValuesStore is an in-memory QueryStore
type ValuesStore struct {
	values url.Values
	writes int
}

// NewValuesStore copies the initial values into a new store
func NewValuesStore(initial url.Values) *ValuesStore {
	return &ValuesStore{values: cloneValues(initial)}
}

// ParseValuesStore builds a store from a raw query string; a leading '?' is
// accepted and malformed pairs are dropped.
func ParseValuesStore(rawQuery string) *ValuesStore {
	if len(rawQuery) > 0 && rawQuery[0] == '?' {
		rawQuery = rawQuery[1:]
	}
	values, _ := url.ParseQuery(rawQuery)
	return NewValuesStore(values)
}

func (s *ValuesStore) Read() url.Values {
	return cloneValues(s.values)
}

func (s *ValuesStore) Write(v url.Values) {
	s.values = cloneValues(v)
	s.writes++
}

// Encode returns the stored query string
func (s *ValuesStore) Encode() string {
	return s.values.Encode()
}

// Writes counts calls to Write
func (s *ValuesStore) Writes() int {
	return s.writes
}

// RequestStore wraps an incoming request's query. Writes are kept aside so a
// handler can tell whether the request URL was already canonical.
type RequestStore struct {
	ValuesStore
	original string
}

// NewRequestStore reads the query of r
func NewRequestStore(r *http.Request) *RequestStore {
	q := r.URL.Query()
	return &RequestStore{
		ValuesStore: ValuesStore{values: q},
		original:    q.Encode(),
	}
}

// Changed reports whether the stored query differs from the request's
func (s *RequestStore) Changed() bool {
	return s.Encode() != s.original
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
