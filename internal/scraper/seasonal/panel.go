package seasonal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go-seasonal-jobs/internal/scraper"
)

// Outcome is what a detail panel round trip produced. Clean is false when
// the panel could not be closed afterwards and the page state is suspect.
type Outcome struct {
	Record scraper.JobRecord
	Clean  bool
}

// Panel opens one listing entry's detail view, extracts it and closes it again.
type Panel struct {
	page      scraper.Page
	extractor *Extractor
	detail    string
	close     string
	timeout   time.Duration
	log       *slog.Logger
}

func NewPanel(page scraper.Page, extractor *Extractor, sel Selectors, timeout time.Duration, log *slog.Logger) *Panel {
	return &Panel{
		page:      page,
		extractor: extractor,
		detail:    sel.Detail,
		close:     sel.Close,
		timeout:   timeout,
		log:       log,
	}
}

// ActivateAndExtract runs scroll, activate, wait, extract and teardown for
// entry. Teardown is attempted whenever activation was attempted; its
// failure never replaces the extraction result, it only marks the outcome dirty.
func (p *Panel) ActivateAndExtract(ctx context.Context, entry scraper.Element) (Outcome, error) {
	// Off-screen entries ignore or misroute the activation click.
	if err := entry.ScrollIntoView(ctx); err != nil {
		if ctx.Err() != nil {
			return Outcome{Clean: true}, ctx.Err()
		}
		p.log.Debug("scroll into view failed", slog.Any("error", err))
	}

	if err := entry.Activate(ctx); err != nil {
		clean := p.teardown(ctx)
		return Outcome{Clean: clean}, fmt.Errorf("activate entry: %w", err)
	}

	rec, err := p.extract(ctx)
	clean := p.teardown(ctx)
	if err != nil {
		return Outcome{Clean: clean}, err
	}
	return Outcome{Record: rec, Clean: clean}, nil
}

func (p *Panel) extract(ctx context.Context) (scraper.JobRecord, error) {
	if err := p.page.WaitVisible(ctx, p.detail, p.timeout); err != nil {
		if ctx.Err() != nil {
			return scraper.JobRecord{}, ctx.Err()
		}
		return scraper.JobRecord{}, fmt.Errorf("%w: %v", ErrDetailTimeout, err)
	}
	return p.extractor.Extract(ctx, p.page)
}

// teardown closes the detail view. An absent close control means nothing
// is open. It reports whether the page is back to a clean state.
func (p *Panel) teardown(ctx context.Context) bool {
	// Closing still has to happen after cancellation, otherwise the page is
	// left with an open panel for whoever resumes it.
	ctx = context.WithoutCancel(ctx)

	btn, ok, err := p.page.Query(ctx, p.close)
	if err != nil {
		p.log.Warn("close control lookup failed", slog.Any("error", err))
		return false
	}
	if !ok {
		return true
	}
	if err := btn.Activate(ctx); err != nil {
		p.log.Warn("closing detail panel failed", slog.Any("error", err))
		return false
	}
	return true
}
