package filter

import "time"

// DateFilter is the quick date filter shown above every list view
type DateFilter string

const (
	DateNone      DateFilter = ""
	DateToday     DateFilter = "today"
	DateYesterday DateFilter = "yesterday"
	DateThisWeek  DateFilter = "thisWeek"
	DateThisMonth DateFilter = "thisMonth"
	DateCustom    DateFilter = "custom"
)

// DateLayout is the wire format of fromDate/toDate
const DateLayout = "2006-01-02"

// ParseDateFilter returns the filter for a raw query value.
// Unknown values report false.
func ParseDateFilter(raw string) (DateFilter, bool) {
	switch f := DateFilter(raw); f {
	case DateToday, DateYesterday, DateThisWeek, DateThisMonth, DateCustom:
		return f, true
	}
	return DateNone, false
}

// IsQuick reports whether f is one of the predefined shorthands
func (f DateFilter) IsQuick() bool {
	switch f {
	case DateToday, DateYesterday, DateThisWeek, DateThisMonth:
		return true
	}
	return false
}

type selectionKind uint8

const (
	kindNone selectionKind = iota
	kindQuick
	kindCustom
)

// DateSelection holds either nothing, a quick filter, or a custom range.
// A custom selection without a range is pending: the user chose "custom"
// but has not picked both dates yet.
type DateSelection struct {
	kind  selectionKind
	quick DateFilter
	start time.Time
	end   time.Time
}

// NoSelection returns the empty selection
func NoSelection() DateSelection {
	return DateSelection{}
}

// Quick returns a quick filter selection. Passing DateCustom yields a
// pending custom selection and DateNone yields the empty selection.
func Quick(f DateFilter) DateSelection {
	switch {
	case f == DateCustom:
		return DateSelection{kind: kindCustom}
	case f.IsQuick():
		return DateSelection{kind: kindQuick, quick: f}
	}
	return DateSelection{}
}

// Custom returns a custom range selection truncated to whole days
func Custom(start, end time.Time) DateSelection {
	return DateSelection{kind: kindCustom, start: dayOf(start), end: dayOf(end)}
}

// Filter projects the selection onto the date query value
func (s DateSelection) Filter() DateFilter {
	switch s.kind {
	case kindQuick:
		return s.quick
	case kindCustom:
		return DateCustom
	}
	return DateNone
}

// Range returns the custom range, if one is set
func (s DateSelection) Range() (start, end time.Time, ok bool) {
	if s.kind != kindCustom || s.start.IsZero() || s.end.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	return s.start, s.end, true
}

// Pending reports a custom selection still waiting for its range
func (s DateSelection) Pending() bool {
	_, _, ok := s.Range()
	return s.kind == kindCustom && !ok
}

// Equal compares selections by their observable values
func (s DateSelection) Equal(o DateSelection) bool {
	return s.kind == o.kind && s.quick == o.quick && s.start.Equal(o.start) && s.end.Equal(o.end)
}

func dayOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
