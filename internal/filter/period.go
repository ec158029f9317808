package filter

import "time"

// Period is a half-open time window [From, To)
type Period struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && t.Before(p.To)
}

// ResolvePeriod turns a quick filter into a concrete window in now's
// location. Weeks start on Monday. DateNone and DateCustom report false.
func ResolvePeriod(f DateFilter, now time.Time) (Period, bool) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	switch f {
	case DateToday:
		return Period{From: today, To: today.AddDate(0, 0, 1)}, true
	case DateYesterday:
		return Period{From: today.AddDate(0, 0, -1), To: today}, true
	case DateThisWeek:
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return Period{From: start, To: start.AddDate(0, 0, 7)}, true
	case DateThisMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
		return Period{From: start, To: start.AddDate(0, 1, 0)}, true
	}
	return Period{}, false
}

// CustomPeriod spans whole days from the start of from through the end of
// to, in loc.
func CustomPeriod(from, to time.Time, loc *time.Location) Period {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	return Period{
		From: time.Date(fy, fm, fd, 0, 0, 0, 0, loc),
		To:   time.Date(ty, tm, td, 0, 0, 0, 0, loc).AddDate(0, 0, 1),
	}
}
