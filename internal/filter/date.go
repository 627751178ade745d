package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"go-seasonal-jobs/internal/scraper"
)

var isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// ParseDate reads the listing's MM/DD/YYYY dates, with an ISO fallback.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == scraper.NotAvailable {
		return time.Time{}, false
	}

	//ISO format "2025-07-01" or 2025-07-01T...
	if isoDateRegex.MatchString(s) {
		t, err := time.Parse("2006-01-02", s[:10])
		return t, err == nil
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	month, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	day, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises 02/31 into March
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// BeginsWithin keeps postings whose begin date falls between now's day and
// days later, both inclusive. Undated and already started postings are dropped.
func BeginsWithin(days int, now time.Time) Predicate {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	last := today.AddDate(0, 0, days)
	return func(r scraper.JobRecord) bool {
		begin, ok := ParseDate(r.BeginDate)
		if !ok {
			return false
		}
		return !begin.Before(today) && !begin.After(last)
	}
}
