package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-seasonal-jobs/internal/scraper"

	"github.com/playwright-community/playwright-go"
)

// definitionsJS pairs every <dt> with its first following <dd> sibling.
const definitionsJS = `() => Array.from(document.querySelectorAll('dt')).map(dt => {
	let dd = dt.nextElementSibling;
	while (dd && dd.tagName !== 'DD') dd = dd.nextElementSibling;
	return { label: dt.innerText, value: dd ? dd.innerText : null };
})`

// clickJS clicks the element from inside the page so overlays cannot
// intercept the pointer event.
const clickJS = `el => el.click()`

// Page adapts a playwright page to scraper.Page.
type Page struct {
	page    playwright.Page
	timeout time.Duration
	warmup  bool
}

var _ scraper.Page = (*Page)(nil)

// NewPage wraps page. timeout bounds single actions such as a scroll or a
// click; waits take their own timeout.
func NewPage(page playwright.Page, timeout time.Duration) *Page {
	page.SetDefaultTimeout(ms(timeout))
	return &Page{page: page, timeout: timeout}
}

// WithWarmup makes Navigate scroll the page like a reader would, which
// also nudges lazily rendered content.
func (p *Page) WithWarmup() *Page {
	p.warmup = true
	return p
}

// Raw exposes the underlying playwright page.
func (p *Page) Raw() playwright.Page {
	return p.page
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	timeout, err := scraper.Bound(ctx, p.timeout)
	if err != nil {
		return err
	}
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(ms(timeout)),
	}); err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	if p.warmup {
		return HumanScroll(ctx, p.page)
	}
	return nil
}

func (p *Page) Reload(ctx context.Context) error {
	timeout, err := scraper.Bound(ctx, p.timeout)
	if err != nil {
		return err
	}
	if _, err := p.page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(ms(timeout)),
	}); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return nil
}

func (p *Page) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	timeout, err := scraper.Bound(ctx, timeout)
	if err != nil {
		return err
	}
	return p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(ms(timeout)),
	})
}

func (p *Page) WaitInteractable(ctx context.Context, selector string, timeout time.Duration) (scraper.Element, error) {
	deadline := time.Now().Add(timeout)
	if err := p.WaitVisible(ctx, selector, timeout); err != nil {
		return nil, err
	}
	loc := p.page.Locator(selector).First()
	err := scraper.Poll(ctx, time.Until(deadline), 100*time.Millisecond, func() (bool, error) {
		return loc.IsEnabled()
	})
	if err != nil {
		return nil, fmt.Errorf("%s not enabled: %w", selector, err)
	}
	return &element{loc: loc, timeout: p.timeout}, nil
}

func (p *Page) Count(ctx context.Context, selector string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return p.page.Locator(selector).Count()
}

func (p *Page) Elements(ctx context.Context, selector string) ([]scraper.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	locs, err := p.page.Locator(selector).All()
	if err != nil {
		return nil, err
	}
	out := make([]scraper.Element, len(locs))
	for i, loc := range locs {
		out[i] = &element{loc: loc, timeout: p.timeout}
	}
	return out, nil
}

func (p *Page) Query(ctx context.Context, selector string) (scraper.Element, bool, error) {
	n, err := p.Count(ctx, selector)
	if err != nil || n == 0 {
		return nil, false, err
	}
	return &element{loc: p.page.Locator(selector).First(), timeout: p.timeout}, true, nil
}

func (p *Page) Texts(ctx context.Context, selector string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	texts, err := p.page.Locator(selector).AllInnerTexts()
	if err != nil {
		return nil, err
	}
	for i := range texts {
		texts[i] = strings.TrimSpace(texts[i])
	}
	return texts, nil
}

func (p *Page) TextsContaining(ctx context.Context, tag, substr string) ([]string, error) {
	return p.Texts(ctx, fmt.Sprintf("xpath=//%s[text()[contains(., %s)]]", tag, xpathLiteral(substr)))
}

func (p *Page) Definitions(ctx context.Context) ([]scraper.Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := p.page.Evaluate(definitionsJS)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("read definitions: unexpected result %T", raw)
	}
	out := make([]scraper.Definition, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		label, _ := m["label"].(string)
		def := scraper.Definition{Label: strings.TrimSpace(label)}
		if v, ok := m["value"].(string); ok {
			def.Value = strings.TrimSpace(v)
			def.HasValue = true
		}
		out = append(out, def)
	}
	return out, nil
}

type element struct {
	loc     playwright.Locator
	timeout time.Duration
}

func (e *element) ScrollIntoView(ctx context.Context) error {
	timeout, err := scraper.Bound(ctx, e.timeout)
	if err != nil {
		return err
	}
	return e.loc.ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{
		Timeout: playwright.Float(ms(timeout)),
	})
}

func (e *element) Activate(ctx context.Context) error {
	timeout, err := scraper.Bound(ctx, e.timeout)
	if err != nil {
		return err
	}
	_, err = e.loc.Evaluate(clickJS, nil, playwright.LocatorEvaluateOptions{
		Timeout: playwright.Float(ms(timeout)),
	})
	return err
}

// ms converts d for playwright, where 0 would mean no timeout at all.
func ms(d time.Duration) float64 {
	if d < time.Millisecond {
		return 1
	}
	return float64(d.Milliseconds())
}

// xpathLiteral quotes s for use inside an XPath expression.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	return "concat('" + strings.Join(parts, `', "'", '`) + "')"
}
