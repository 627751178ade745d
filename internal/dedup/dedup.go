// Package dedup isolates postings that appeared since the previous snapshot.
package dedup

import "go-seasonal-jobs/internal/scraper"

// Set is a set of case numbers.
type Set map[string]struct{}

// CaseNumbers collects the case numbers present in records. Records without
// one contribute the empty string, so two such records match each other.
func CaseNumbers(records []scraper.JobRecord) Set {
	set := make(Set, len(records))
	for _, r := range records {
		set[r.CaseNumber] = struct{}{}
	}
	return set
}

func (s Set) Has(caseNumber string) bool {
	_, ok := s[caseNumber]
	return ok
}

// NewRecords returns the today records whose case number is absent from
// yesterday, in today's order. Duplicates within today are kept.
func NewRecords(yesterday, today []scraper.JobRecord) []scraper.JobRecord {
	return Unseen(CaseNumbers(yesterday), today)
}

// Unseen returns the records whose case number is not in seen.
func Unseen(seen Set, records []scraper.JobRecord) []scraper.JobRecord {
	out := make([]scraper.JobRecord, 0)
	for _, r := range records {
		if !seen.Has(r.CaseNumber) {
			out = append(out, r)
		}
	}
	return out
}
