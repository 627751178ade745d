package models

import (
	"time"

	"go-seasonal-jobs/internal/scraper"
)

// Posting is one row of the postings table: a record as seen on one
// snapshot day.
type Posting struct {
	CaseNumber         string    `json:"case_number"`
	SnapshotDay        time.Time `json:"snapshot_day"`
	JobTitle           string    `json:"job_title"`
	Company            string    `json:"company"`
	Location           string    `json:"location"`
	Salary             string    `json:"salary"`
	BeginDate          string    `json:"begin_date"`
	EndDate            string    `json:"end_date"`
	ExperienceRequired string    `json:"experience_required"`
	RecApplyEmail      string    `json:"rec_apply_email"`
	Phone              string    `json:"phone"`
	JobDuties          string    `json:"job_duties"`
	JobIndex           *int      `json:"job_index,omitempty"`
}

// NewPosting maps a record onto a row for day (truncated to the date).
func NewPosting(r scraper.JobRecord, day time.Time) Posting {
	return Posting{
		CaseNumber:         r.CaseNumber,
		SnapshotDay:        time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
		JobTitle:           r.JobTitle,
		Company:            r.Company,
		Location:           r.Location,
		Salary:             r.Salary,
		BeginDate:          r.BeginDate,
		EndDate:            r.EndDate,
		ExperienceRequired: r.ExperienceRequired,
		RecApplyEmail:      r.RecApplyEmail,
		Phone:              r.Phone,
		JobDuties:          r.JobDuties,
		JobIndex:           r.JobIndex,
	}
}

// Keyed reports whether the row has a usable case number. Rows without
// one cannot be upserted.
func (p Posting) Keyed() bool {
	return p.CaseNumber != "" && p.CaseNumber != scraper.NotAvailable
}
