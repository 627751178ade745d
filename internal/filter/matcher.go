package filter

import (
	"strings"

	"go-seasonal-jobs/internal/scraper"

	"golang.org/x/text/cases"
)

// Predicate reports whether a record is kept.
type Predicate func(scraper.JobRecord) bool

// Apply returns the records matching every predicate, in input order.
func Apply(records []scraper.JobRecord, preds ...Predicate) []scraper.JobRecord {
	out := make([]scraper.JobRecord, 0, len(records))
	for _, r := range records {
		if matchAll(r, preds) {
			out = append(out, r)
		}
	}
	return out
}

func matchAll(r scraper.JobRecord, preds []Predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

// NoExperience keeps postings whose experience requirement reads "no",
// ignoring case and surrounding whitespace.
func NoExperience(r scraper.JobRecord) bool {
	return FieldEquals(func(r scraper.JobRecord) string { return r.ExperienceRequired }, "no")(r)
}

// FieldEquals compares a field to want after trimming and case folding.
func FieldEquals(field func(scraper.JobRecord) string, want string) Predicate {
	want = fold(want)
	return func(r scraper.JobRecord) bool {
		return fold(field(r)) == want
	}
}

// Casers are stateful, so every call gets its own.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
