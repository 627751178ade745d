package browser

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-seasonal-jobs/internal/logger"
	"go-seasonal-jobs/internal/scraper/seasonal"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//helper start a headless browser serving the fixture listing for every request
func setupListing(t *testing.T) *Page {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	html, err := os.ReadFile(filepath.Join("testdata", "listing.html"))
	require.NoError(t, err)

	pm, err := NewPlaywright(context.Background(), Options{
		Headless: true,
		LockPath: filepath.Join(t.TempDir(), "browser.lock"),
	})
	if err != nil {
		t.Skipf("playwright not available: %v", err)
	}
	t.Cleanup(func() { pm.Close() })

	bctx, err := pm.NewContext(nil)
	require.NoError(t, err)
	raw, err := bctx.NewPage()
	require.NoError(t, err)

	require.NoError(t, raw.Route("**/*", func(route playwright.Route) {
		route.Fulfill(playwright.RouteFulfillOptions{
			Status:      playwright.Int(200),
			ContentType: playwright.String("text/html; charset=utf-8"),
			Body:        string(html),
		})
	}))
	return NewPage(raw, 5*time.Second)
}

func TestPage_SessionAgainstListing(t *testing.T) {
	page := setupListing(t)

	s := seasonal.NewSession(page, seasonal.Options{
		ListingURL: "https://seasonaljobs.test/jobs?search=Landscape",
		Selectors:  seasonal.DefaultSelectors(),
		Paginator: seasonal.PaginatorOptions{
			Timeout:      300 * time.Millisecond,
			Settle:       2 * time.Second,
			PollInterval: 20 * time.Millisecond,
		},
		Wait: 5 * time.Second,
	}, logger.Discard())

	res, err := s.Run(context.Background(), 2, 100)
	require.NoError(t, err)
	assert.Equal(t, 7, res.Available)
	require.Len(t, res.Records, 5)

	first := res.Records[0]
	assert.Equal(t, "Job 2", first.JobTitle)
	assert.Equal(t, "Company 2", first.Company)
	assert.Equal(t, "City 2", first.Location)
	assert.Equal(t, "$15.00 per hour", first.Salary)
	assert.Equal(t, "07/03/2025", first.BeginDate)
	assert.Equal(t, "H-2", first.CaseNumber)
	assert.Equal(t, "No", first.ExperienceRequired)
	assert.Equal(t, "N/A", first.RecApplyEmail)
	assert.Equal(t, "H-6", res.Records[4].CaseNumber)
	assert.Zero(t, res.Reloads)
}

func TestPage_Queries(t *testing.T) {
	page := setupListing(t)
	ctx := context.Background()

	require.NoError(t, page.Navigate(ctx, "https://seasonaljobs.test/jobs"))
	require.NoError(t, page.WaitVisible(ctx, "article[tabindex='0']", 5*time.Second))

	n, err := page.Count(ctx, "article[tabindex='0']")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, ok, err := page.Query(ctx, "#job-detail")
	require.NoError(t, err)
	assert.False(t, ok)

	texts, err := page.TextsContaining(ctx, "article", "Job 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Job 1"}, texts)

	defs, err := page.Definitions(ctx)
	require.NoError(t, err)
	assert.Empty(t, defs)

	err = page.WaitVisible(ctx, "#job-detail", 100*time.Millisecond)
	assert.Error(t, err)
}

func TestPage_CancelledContext(t *testing.T) {
	page := setupListing(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, page.Navigate(ctx, "https://seasonaljobs.test/jobs"), context.Canceled)
	_, err := page.Count(ctx, "article")
	assert.ErrorIs(t, err, context.Canceled)
}
