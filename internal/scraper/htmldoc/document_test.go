package htmldoc

import (
	"context"
	"testing"

	"go-seasonal-jobs/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<div id="job-detail">
  <h2>  Orchard Worker </h2>
  <p class="text-gray-500">First</p>
  <p class="text-gray-500">Second</p>
  <div><span>$15.00 per hour</span></div>
  <dl>
    <dt>ETA Case Number:</dt>
    <dd> H-1 </dd>
    <dt>Orphan:</dt>
    <dt>Job Duties:</dt>
    <span>ignored</span>
    <dd>Pick apples</dd>
  </dl>
</div>
</body></html>`

func parsePage(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(page)
	require.NoError(t, err)
	return doc
}

func TestTexts(t *testing.T) {
	doc := parsePage(t)

	texts, err := doc.Texts(context.Background(), "#job-detail p.text-gray-500")
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Second"}, texts)

	texts, err = doc.Texts(context.Background(), "#job-detail h2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Orchard Worker"}, texts)

	texts, err = doc.Texts(context.Background(), "table")
	require.NoError(t, err)
	assert.Empty(t, texts)

	_, err = doc.Texts(context.Background(), "xpath=//h2")
	assert.Error(t, err)
}

func TestTextsContaining_OwnTextOnly(t *testing.T) {
	doc := parsePage(t)

	texts, err := doc.TextsContaining(context.Background(), "*", "per hour")
	require.NoError(t, err)
	// the wrapping div and body only contain it through a descendant
	assert.Equal(t, []string{"$15.00 per hour"}, texts)

	texts, err = doc.TextsContaining(context.Background(), "p", "per hour")
	require.NoError(t, err)
	assert.Empty(t, texts)
}

func TestDefinitions(t *testing.T) {
	doc := parsePage(t)

	defs, err := doc.Definitions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []scraper.Definition{
		{Label: "ETA Case Number:", Value: "H-1", HasValue: true},
		{Label: "Orphan:", Value: "Pick apples", HasValue: true},
		{Label: "Job Duties:", Value: "Pick apples", HasValue: true},
	}, defs)
}

func TestDefinitions_TrailingLabel(t *testing.T) {
	doc, err := ParseString(`<dl><dt>Experience Required:</dt></dl>`)
	require.NoError(t, err)

	defs, err := doc.Definitions(context.Background())
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.False(t, defs[0].HasValue)
}

func TestCancelledContext(t *testing.T) {
	doc := parsePage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := doc.Texts(ctx, "h2")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = doc.TextsContaining(ctx, "*", "x")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = doc.Definitions(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
