package filter

import (
	"net/url"
	"strconv"
)

// BackendParams is what a list view sends to a paginated list endpoint
type BackendParams struct {
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
	Date     DateFilter        `json:"date,omitempty"`
	FromDate string            `json:"fromDate,omitempty"`
	ToDate   string            `json:"toDate,omitempty"`
	Status   string            `json:"status,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// Values renders the params as query values. Extra params are applied after
// page and limit, and the filter keys are applied last.
func (p BackendParams) Values() url.Values {
	v := url.Values{}
	v.Set(KeyPage, strconv.Itoa(p.Page))
	v.Set(KeyLimit, strconv.Itoa(p.Limit))
	for k, val := range p.Extra {
		v.Set(k, val)
	}
	if p.Date != DateNone {
		v.Set(KeyDate, string(p.Date))
	}
	if p.FromDate != "" && p.ToDate != "" {
		v.Set(KeyFromDate, p.FromDate)
		v.Set(KeyToDate, p.ToDate)
	}
	if p.Status != "" {
		v.Set(KeyStatus, p.Status)
	}
	return v
}

// Encode returns the params as a query string
func (p BackendParams) Encode() string {
	return p.Values().Encode()
}
