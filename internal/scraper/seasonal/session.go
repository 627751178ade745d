package seasonal

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"go-seasonal-jobs/internal/scraper"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Selectors locate the listing's moving parts.
type Selectors struct {
	Entry    string
	Detail   string
	LoadMore string
	Close    string
}

// DefaultSelectors matches the seasonaljobs.dol.gov listing markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Entry:    "article[tabindex='0']",
		Detail:   "#job-detail",
		LoadMore: "xpath=//button[contains(text(), 'Load More')]",
		Close:    "button[aria-label='Close']",
	}
}

// Options configures a Session.
type Options struct {
	ListingURL string
	Selectors  Selectors
	Paginator  PaginatorOptions
	// Wait bounds page load and detail panel waits.
	Wait time.Duration
	// EntryPause is the minimum spacing between two entries.
	EntryPause time.Duration
	// Jitter adds up to this much random delay to each pause.
	Jitter time.Duration
}

// Result is the outcome of one run. Records is the extraction batch in
// processing order; Failed holds the skipped indices.
type Result struct {
	RunID     string
	Records   []scraper.JobRecord
	Failed    []int
	Available int
	Reloads   int
}

// FailureHook is called with the page after an entry or navigation failure,
// e.g. to capture debug artefacts.
type FailureHook func(ctx context.Context, name string)

// Session owns the page for one extraction run and drives pagination and
// per-entry detail extraction. Entries are processed strictly one at a
// time: the next panel can only open after the previous one was closed.
type Session struct {
	page      scraper.Page
	opts      Options
	paginator *Paginator
	panel     *Panel
	limiter   *rate.Limiter
	onFailure FailureHook
	log       *slog.Logger
}

func NewSession(page scraper.Page, opts Options, log *slog.Logger) *Session {
	extractor := NewExtractor(opts.Selectors.Detail, log)
	limit := rate.Inf
	if opts.EntryPause > 0 {
		limit = rate.Every(opts.EntryPause)
	}
	return &Session{
		page:      page,
		opts:      opts,
		paginator: NewPaginator(page, opts.Selectors, opts.Paginator, log),
		panel:     NewPanel(page, extractor, opts.Selectors, opts.Wait, log),
		limiter:   rate.NewLimiter(limit, 1),
		log:       log,
	}
}

// OnFailure registers a hook run after failed entries and navigation.
func (s *Session) OnFailure(h FailureHook) {
	s.onFailure = h
}

func (s *Session) Name() string {
	return "SeasonalJobs"
}

// Scrape implements scraper.Scraper.
func (s *Session) Scrape(ctx context.Context, start, end int) ([]scraper.JobRecord, error) {
	res, err := s.Run(ctx, start, end)
	if res == nil {
		return nil, err
	}
	return res.Records, err
}

// Run extracts entries start..end (inclusive). Individual entry failures
// are logged and skipped. Only failing to reach the listing, a cancelled
// context or an invalid range returns an error; on cancellation the
// records gathered so far are still returned.
func (s *Session) Run(ctx context.Context, start, end int) (*Result, error) {
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: %d..%d", ErrInvalidRange, start, end)
	}
	res := &Result{RunID: uuid.New().String(), Records: []scraper.JobRecord{}}
	log := s.log.With(slog.String("run_id", res.RunID))

	log.Info("🌐 opening listing", slog.String("url", s.opts.ListingURL))
	entries, err := s.load(ctx, wanted(end), s.page.Navigate, s.opts.ListingURL)
	if err != nil {
		s.failed(ctx, "navigation")
		return nil, err
	}
	res.Available = len(entries)

	if start >= len(entries) {
		log.Warn("start index beyond available entries",
			slog.Int("start", start), slog.Int("available", len(entries)))
		return res, nil
	}
	if end > len(entries)-1 {
		end = len(entries) - 1
	}
	log.Info("📋 processing entries",
		slog.Int("from", start), slog.Int("to", end), slog.Int("available", len(entries)))

	// Spend the initial token so the first pause is a full one.
	s.limiter.Allow()

	for i := start; i <= end; i++ {
		if i > start {
			if err := s.pause(ctx); err != nil {
				return res, err
			}
		}
		if i >= len(entries) {
			log.Warn("listing shrank after reload, stopping", slog.Int("index", i), slog.Int("available", len(entries)))
			break
		}

		out, err := s.panel.ActivateAndExtract(ctx, entries[i])
		switch {
		case err == nil:
			res.Records = append(res.Records, out.Record.WithIndex(i))
			log.Info("✅ entry extracted", slog.Int("index", i), slog.String("title", out.Record.JobTitle))
		case ctx.Err() != nil:
			return res, ctx.Err()
		default:
			res.Failed = append(res.Failed, i)
			log.Warn("❌ entry skipped", slog.Int("index", i), slog.Any("error", err))
			s.failed(ctx, fmt.Sprintf("entry-%d", i))
		}

		if !out.Clean && i < end {
			log.Warn("detail panel left open, reloading listing", slog.Int("index", i))
			entries, err = s.load(ctx, wanted(end), reload(s.page), "")
			if err != nil {
				return res, err
			}
			res.Reloads++
		}
	}

	log.Info("🏁 extraction finished",
		slog.Int("extracted", len(res.Records)), slog.Int("failed", len(res.Failed)), slog.Int("reloads", res.Reloads))
	return res, nil
}

// load brings the listing to a fresh state, paginates up to want entries
// and enumerates them. Any failure here is a navigation failure.
func (s *Session) load(ctx context.Context, want int, open func(context.Context, string) error, url string) ([]scraper.Element, error) {
	if err := open(ctx, url); err != nil {
		return nil, navErr(ctx, "open listing", err)
	}
	if err := s.page.WaitVisible(ctx, s.opts.Selectors.Entry, s.opts.Wait); err != nil {
		return nil, navErr(ctx, "wait for entries", err)
	}
	if _, err := s.paginator.EnsureAtLeast(ctx, want); err != nil {
		return nil, navErr(ctx, "paginate", err)
	}
	entries, err := s.page.Elements(ctx, s.opts.Selectors.Entry)
	if err != nil {
		return nil, navErr(ctx, "enumerate entries", err)
	}
	return entries, nil
}

// wanted is the entry count needed to reach index end.
func wanted(end int) int {
	if end == math.MaxInt {
		return end
	}
	return end + 1
}

func reload(page scraper.Page) func(context.Context, string) error {
	return func(ctx context.Context, _ string) error {
		return page.Reload(ctx)
	}
}

func navErr(ctx context.Context, step string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %s: %v", ErrNavigation, step, err)
}

func (s *Session) pause(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	if s.opts.Jitter <= 0 {
		return nil
	}
	t := time.NewTimer(time.Duration(rand.Int63n(int64(s.opts.Jitter))))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Session) failed(ctx context.Context, name string) {
	if s.onFailure != nil {
		s.onFailure(ctx, name)
	}
}
