package seasonal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go-seasonal-jobs/internal/scraper"

	"golang.org/x/text/unicode/norm"
)

const (
	dutiesLimit      = 500
	truncationMarker = "..."
)

// Result is the outcome of one field lookup. A lookup that finds nothing
// is not an error.
type Result struct {
	Value string
	Found bool
}

func found(v string) Result {
	if v == "" {
		return Result{}
	}
	return Result{Value: v, Found: true}
}

// Lookup reads a single field from the detail document.
type Lookup func(ctx context.Context, doc scraper.Document) (Result, error)

// FieldStrategy binds a lookup to the record field it fills.
type FieldStrategy struct {
	Field  string
	Lookup Lookup
	Set    func(r *scraper.JobRecord, v string)
}

// DefaultStrategies mirrors the markup of the seasonal jobs listing.
//
// company and location are positional: the first and second
// p.text-gray-500 inside the detail container. Nothing in the markup says
// which paragraph is which, so a layout change silently swaps or shifts them.
func DefaultStrategies(detail string) []FieldStrategy {
	secondary := detail + " p.text-gray-500"
	return []FieldStrategy{
		{"jobTitle", FirstText(detail + " h2"), func(r *scraper.JobRecord, v string) { r.JobTitle = v }},
		{"recApplyEmail", FirstText("a[href^='mailto:']"), func(r *scraper.JobRecord, v string) { r.RecApplyEmail = v }},
		{"experience_required", DefinitionFor("Experience Required:"), func(r *scraper.JobRecord, v string) { r.ExperienceRequired = v }},
		{"company", FirstText(secondary), func(r *scraper.JobRecord, v string) { r.Company = v }},
		{"location", NthText(secondary, 1), func(r *scraper.JobRecord, v string) { r.Location = v }},
		{"salary", ContainingText("*", "per hour"), func(r *scraper.JobRecord, v string) { r.Salary = v }},
		{"begin_date", LabeledText("time", "Begin date:"), func(r *scraper.JobRecord, v string) { r.BeginDate = v }},
		{"end_date", LabeledText("time", "End date:"), func(r *scraper.JobRecord, v string) { r.EndDate = v }},
		{"phone", FirstText("a[href^='tel:']"), func(r *scraper.JobRecord, v string) { r.Phone = v }},
		{"caseNumber", DefinitionFor("ETA Case Number:"), func(r *scraper.JobRecord, v string) { r.CaseNumber = v }},
		{"job_duties", Truncated(DefinitionFor("Job Duties:"), dutiesLimit), func(r *scraper.JobRecord, v string) { r.JobDuties = v }},
	}
}

// FirstText reads the first element matching selector.
func FirstText(selector string) Lookup {
	return NthText(selector, 0)
}

// NthText reads the n-th (0-based) element matching selector.
func NthText(selector string, n int) Lookup {
	return func(ctx context.Context, doc scraper.Document) (Result, error) {
		texts, err := doc.Texts(ctx, selector)
		if err != nil {
			return Result{}, err
		}
		if len(texts) <= n {
			return Result{}, nil
		}
		return found(strings.TrimSpace(texts[n])), nil
	}
}

// ContainingText reads the first tag element whose own text contains substr.
func ContainingText(tag, substr string) Lookup {
	return func(ctx context.Context, doc scraper.Document) (Result, error) {
		texts, err := doc.TextsContaining(ctx, tag, substr)
		if err != nil {
			return Result{}, err
		}
		if len(texts) == 0 {
			return Result{}, nil
		}
		return found(strings.TrimSpace(texts[0])), nil
	}
}

// LabeledText is ContainingText with the label itself removed from the value.
func LabeledText(tag, label string) Lookup {
	inner := ContainingText(tag, label)
	return func(ctx context.Context, doc scraper.Document) (Result, error) {
		res, err := inner(ctx, doc)
		if err != nil || !res.Found {
			return res, err
		}
		return found(strings.TrimSpace(strings.Replace(res.Value, label, "", 1))), nil
	}
}

// DefinitionFor reads the <dd> following the first <dt> whose text contains label.
// A matching label without a value resolves to not found; later labels are not tried.
func DefinitionFor(label string) Lookup {
	want := normalizeLabel(label)
	return func(ctx context.Context, doc scraper.Document) (Result, error) {
		defs, err := doc.Definitions(ctx)
		if err != nil {
			return Result{}, err
		}
		for _, d := range defs {
			if !strings.Contains(normalizeLabel(d.Label), want) {
				continue
			}
			if !d.HasValue {
				return Result{}, nil
			}
			return found(strings.TrimSpace(d.Value)), nil
		}
		return Result{}, nil
	}
}

// Truncated cuts values longer than limit runes and appends a marker.
func Truncated(l Lookup, limit int) Lookup {
	return func(ctx context.Context, doc scraper.Document) (Result, error) {
		res, err := l(ctx, doc)
		if err != nil || !res.Found {
			return res, err
		}
		res.Value = truncate(res.Value, limit)
		return res, nil
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + truncationMarker
}

// normalizeLabel folds compatibility characters (NBSP and friends) so
// labels rendered with odd whitespace still match.
func normalizeLabel(s string) string {
	return norm.NFKC.String(s)
}

// Extractor turns an open detail panel into a JobRecord.
type Extractor struct {
	detail     string
	strategies []FieldStrategy
	log        *slog.Logger
}

func NewExtractor(detailSelector string, log *slog.Logger) *Extractor {
	return &Extractor{
		detail:     detailSelector,
		strategies: DefaultStrategies(detailSelector),
		log:        log,
	}
}

// WithStrategies replaces the field strategies.
func (e *Extractor) WithStrategies(s []FieldStrategy) *Extractor {
	e.strategies = s
	return e
}

// Extract fills one record. Every field lookup is independent; a failing
// lookup leaves its field at NotAvailable. Only an unreadable detail
// container or a cancelled context fails the whole record.
func (e *Extractor) Extract(ctx context.Context, doc scraper.Document) (scraper.JobRecord, error) {
	containers, err := doc.Texts(ctx, e.detail)
	if err != nil {
		return scraper.JobRecord{}, fmt.Errorf("%w: %v", ErrDetailUnreadable, err)
	}
	if len(containers) == 0 {
		return scraper.JobRecord{}, fmt.Errorf("%w: %s not found", ErrDetailUnreadable, e.detail)
	}

	rec := scraper.NewJobRecord()
	for _, s := range e.strategies {
		res, err := s.Lookup(ctx, doc)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return scraper.JobRecord{}, ctxErr
		}
		if err != nil {
			e.log.Debug("field lookup failed", slog.String("field", s.Field), slog.Any("error", err))
			continue
		}
		if !res.Found {
			e.log.Debug("field not present", slog.String("field", s.Field))
			continue
		}
		s.Set(&rec, res.Value)
	}
	return rec, nil
}
