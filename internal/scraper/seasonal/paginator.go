package seasonal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go-seasonal-jobs/internal/scraper"
)

// DefaultMaxStagnant is how many consecutive load-more triggers may add
// nothing before pagination gives up.
const DefaultMaxStagnant = 5

// PaginatorOptions tunes the load-more loop.
type PaginatorOptions struct {
	Timeout      time.Duration // wait for the load-more control
	Settle       time.Duration // wait for new entries after a trigger
	PollInterval time.Duration
	MaxStagnant  int
}

// Paginator grows the listing by triggering its load-more control.
type Paginator struct {
	page     scraper.Page
	entry    string
	loadMore string
	opts     PaginatorOptions
	log      *slog.Logger
}

func NewPaginator(page scraper.Page, sel Selectors, opts PaginatorOptions, log *slog.Logger) *Paginator {
	if opts.MaxStagnant <= 0 {
		opts.MaxStagnant = DefaultMaxStagnant
	}
	return &Paginator{
		page:     page,
		entry:    sel.Entry,
		loadMore: sel.LoadMore,
		opts:     opts,
		log:      log,
	}
}

// EnsureAtLeast loads more entries until desired are present or
// MaxStagnant consecutive attempts add nothing. It returns the best count
// reached; falling short is not an error. Errors are only returned for a
// cancelled context or when the initial count cannot be read.
func (p *Paginator) EnsureAtLeast(ctx context.Context, desired int) (int, error) {
	count, err := p.page.Count(ctx, p.entry)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}

	stagnant := 0
	for attempt := 0; count < desired && stagnant < p.opts.MaxStagnant; attempt++ {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		grown, err := p.trigger(ctx, count)
		if err != nil {
			if ctx.Err() != nil {
				return count, ctx.Err()
			}
			stagnant++
			if attempt == 0 {
				p.log.Info("load more control unavailable, keeping current entries",
					slog.Int("count", count), slog.Any("error", err))
				break
			}
			p.log.Info("load more failed", slog.Int("attempt", stagnant), slog.Any("error", err))
			continue
		}

		if grown > count {
			p.log.Info("📥 loaded more entries", slog.Int("added", grown-count), slog.Int("total", grown))
			count = grown
			stagnant = 0
			continue
		}
		stagnant++
		p.log.Info("load more added nothing", slog.Int("attempt", stagnant), slog.Int("total", count))
	}
	return count, nil
}

// trigger clicks load-more once and waits for the count to move past prev.
func (p *Paginator) trigger(ctx context.Context, prev int) (int, error) {
	btn, err := p.page.WaitInteractable(ctx, p.loadMore, p.opts.Timeout)
	if err != nil {
		return prev, fmt.Errorf("locate load more: %w", err)
	}
	if err := btn.ScrollIntoView(ctx); err != nil {
		return prev, fmt.Errorf("scroll to load more: %w", err)
	}
	if err := btn.Activate(ctx); err != nil {
		return prev, fmt.Errorf("click load more: %w", err)
	}

	count := prev
	err = scraper.Poll(ctx, p.opts.Settle, p.opts.PollInterval, func() (bool, error) {
		n, err := p.page.Count(ctx, p.entry)
		if err != nil {
			return false, err
		}
		count = n
		return n > prev, nil
	})
	switch {
	case err == nil, errors.Is(err, scraper.ErrWaitTimeout):
		return count, nil
	case ctx.Err() != nil:
		return count, ctx.Err()
	default:
		// A failed recount after a successful click is still a no-progress attempt.
		p.log.Debug("recount failed", slog.Any("error", err))
		return prev, nil
	}
}
