// Shared types for every listing scraper:
// the extracted record, the page query surface, the scraper contract

package scraper

import (
	"context"
	"time"
)

// NotAvailable marks a field whose source element was missing or unreadable.
const NotAvailable = "N/A"

// JobRecord is one extracted posting. String fields are omitted from JSON
// only when empty, which never happens for freshly extracted records
// (they carry NotAvailable instead) but keeps partial downstream records intact.
type JobRecord struct {
	JobTitle           string `json:"jobTitle,omitempty"`
	RecApplyEmail      string `json:"recApplyEmail,omitempty"`
	ExperienceRequired string `json:"experience_required,omitempty"`
	Company            string `json:"company,omitempty"`
	Location           string `json:"location,omitempty"`
	Salary             string `json:"salary,omitempty"`
	BeginDate          string `json:"begin_date,omitempty"`
	EndDate            string `json:"end_date,omitempty"`
	Phone              string `json:"phone,omitempty"`
	CaseNumber         string `json:"caseNumber,omitempty"`
	JobDuties          string `json:"job_duties,omitempty"`
	JobIndex           *int   `json:"job_index,omitempty"`
}

// NewJobRecord returns a record with every field set to NotAvailable.
func NewJobRecord() JobRecord {
	return JobRecord{
		JobTitle:           NotAvailable,
		RecApplyEmail:      NotAvailable,
		ExperienceRequired: NotAvailable,
		Company:            NotAvailable,
		Location:           NotAvailable,
		Salary:             NotAvailable,
		BeginDate:          NotAvailable,
		EndDate:            NotAvailable,
		Phone:              NotAvailable,
		CaseNumber:         NotAvailable,
		JobDuties:          NotAvailable,
	}
}

// WithIndex returns a copy of r tagged with its listing position.
func (r JobRecord) WithIndex(i int) JobRecord {
	r.JobIndex = &i
	return r
}

// Definition is a <dt> label and the text of the <dd> right after it.
type Definition struct {
	Label    string
	Value    string
	HasValue bool
}

// Document is the read-only query surface of a rendered page.
type Document interface {
	// Texts returns the trimmed rendered text of every element matching
	// the CSS selector, in document order.
	Texts(ctx context.Context, selector string) ([]string, error)

	// TextsContaining returns the trimmed text of every tag element
	// ("*" for any) whose own text nodes contain substr.
	TextsContaining(ctx context.Context, tag, substr string) ([]string, error)

	// Definitions returns every <dt> paired with its following <dd>.
	Definitions(ctx context.Context) ([]Definition, error)
}

// Element is a handle to something on the page that can be interacted with.
// Handles go stale after navigation or reload.
type Element interface {
	ScrollIntoView(ctx context.Context) error
	// Activate dispatches a click directly on the element, bypassing
	// whatever overlay sits on top of it.
	Activate(ctx context.Context) error
}

// Page is a live, interactive document owned by one session.
type Page interface {
	Document

	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error

	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	WaitInteractable(ctx context.Context, selector string, timeout time.Duration) (Element, error)

	Count(ctx context.Context, selector string) (int, error)
	Elements(ctx context.Context, selector string) ([]Element, error)
	// Query returns the first match, if any.
	Query(ctx context.Context, selector string) (Element, bool, error)
}

// Scraper defines the contract of a listing scraper
type Scraper interface {
	// Scrape extracts entries start..end (inclusive) from the listing
	Scrape(ctx context.Context, start, end int) ([]JobRecord, error)

	// Name is the listing name
	Name() string
}
