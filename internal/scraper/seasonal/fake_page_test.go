package seasonal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-seasonal-jobs/internal/scraper"
	"go-seasonal-jobs/internal/scraper/htmldoc"
)

type entryBehavior int

const (
	behaveOK entryBehavior = iota
	behaveNeverOpens
	behaveCloseFails
	behaveHalfOpens      // close control rendered, detail never visible
	behaveHalfOpensStuck // as behaveHalfOpens, and closing fails
)

// fakePage simulates the listing: a growing list of entries, a detail
// panel that opens on activation and a close button.
type fakePage struct {
	initial   int
	perLoad   int
	max       int
	noLoadAt  map[int]bool // load-more attempt numbers (0-based) that fail to locate
	behaviors map[int]entryBehavior
	navErr    error

	count      int
	generation int
	open       int
	loads      int
	reloads    int
	activated  []int
	closeClick int
}

func newFakePage(initial, perLoad, max int) *fakePage {
	return &fakePage{
		initial:   initial,
		perLoad:   perLoad,
		max:       max,
		noLoadAt:  map[int]bool{},
		behaviors: map[int]entryBehavior{},
		open:      -1,
	}
}

func (p *fakePage) doc() scraper.Document {
	html := "<html><body></body></html>"
	if p.open >= 0 {
		html = fmt.Sprintf(`<div id="job-detail"><button aria-label="Close">x</button><h2>Job %d</h2>`+
			`<dl><dt>ETA Case Number:</dt><dd>C-%d</dd></dl></div>`, p.open, p.open)
	}
	doc, _ := htmldoc.ParseString(html)
	return doc
}

func (p *fakePage) Texts(ctx context.Context, selector string) ([]string, error) {
	return p.doc().Texts(ctx, selector)
}

func (p *fakePage) TextsContaining(ctx context.Context, tag, substr string) ([]string, error) {
	return p.doc().TextsContaining(ctx, tag, substr)
}

func (p *fakePage) Definitions(ctx context.Context) ([]scraper.Definition, error) {
	return p.doc().Definitions(ctx)
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	if p.navErr != nil {
		return p.navErr
	}
	p.reset()
	return nil
}

func (p *fakePage) Reload(ctx context.Context) error {
	p.reloads++
	p.reset()
	return nil
}

func (p *fakePage) reset() {
	p.count = p.initial
	p.generation++
	p.open = -1
}

func (p *fakePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch selector {
	case DefaultSelectors().Entry:
		if p.count == 0 {
			return errors.New("no entries")
		}
		return nil
	case DefaultSelectors().Detail:
		if p.open < 0 || p.halfOpen() {
			return errors.New("timeout waiting for detail")
		}
		return nil
	}
	return fmt.Errorf("unexpected selector %q", selector)
}

func (p *fakePage) halfOpen() bool {
	b := p.behaviors[p.open]
	return b == behaveHalfOpens || b == behaveHalfOpensStuck
}

func (p *fakePage) WaitInteractable(ctx context.Context, selector string, timeout time.Duration) (scraper.Element, error) {
	attempt := p.loads
	p.loads++
	if p.noLoadAt[attempt] {
		return nil, errors.New("load more not interactable")
	}
	return &fakeLoadMore{page: p}, nil
}

func (p *fakePage) Count(ctx context.Context, selector string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return p.count, nil
}

func (p *fakePage) Elements(ctx context.Context, selector string) ([]scraper.Element, error) {
	out := make([]scraper.Element, p.count)
	for i := range out {
		out[i] = &fakeEntry{page: p, index: i, generation: p.generation}
	}
	return out, nil
}

func (p *fakePage) Query(ctx context.Context, selector string) (scraper.Element, bool, error) {
	if p.open < 0 {
		return nil, false, nil
	}
	return &fakeClose{page: p}, true, nil
}

type fakeEntry struct {
	page       *fakePage
	index      int
	generation int
}

func (e *fakeEntry) ScrollIntoView(ctx context.Context) error { return ctx.Err() }

func (e *fakeEntry) Activate(ctx context.Context) error {
	if e.generation != e.page.generation {
		return errors.New("stale element reference")
	}
	e.page.activated = append(e.page.activated, e.index)
	if e.page.behaviors[e.index] == behaveNeverOpens {
		return nil
	}
	e.page.open = e.index
	return nil
}

type fakeLoadMore struct{ page *fakePage }

func (b *fakeLoadMore) ScrollIntoView(ctx context.Context) error { return nil }

func (b *fakeLoadMore) Activate(ctx context.Context) error {
	b.page.count += b.page.perLoad
	if b.page.count > b.page.max {
		b.page.count = b.page.max
	}
	return nil
}

type fakeClose struct{ page *fakePage }

func (c *fakeClose) ScrollIntoView(ctx context.Context) error { return nil }

func (c *fakeClose) Activate(ctx context.Context) error {
	c.page.closeClick++
	if b := c.page.behaviors[c.page.open]; b == behaveCloseFails || b == behaveHalfOpensStuck {
		return errors.New("element click intercepted")
	}
	c.page.open = -1
	return nil
}

func testOptions() Options {
	return Options{
		ListingURL: "https://seasonaljobs.example/jobs?search=Landscape",
		Selectors:  DefaultSelectors(),
		Paginator: PaginatorOptions{
			Timeout:      10 * time.Millisecond,
			Settle:       10 * time.Millisecond,
			PollInterval: time.Millisecond,
		},
		Wait: 10 * time.Millisecond,
	}
}
