package seasonal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPanel(page *fakePage) *Panel {
	opts := testOptions()
	return NewPanel(page, NewExtractor(opts.Selectors.Detail, discardLogger()), opts.Selectors, opts.Wait, discardLogger())
}

func TestPanel_ExtractsAndCloses(t *testing.T) {
	page := newFakePage(3, 0, 3)
	page.reset()
	entries, err := page.Elements(context.Background(), DefaultSelectors().Entry)
	require.NoError(t, err)

	out, err := newTestPanel(page).ActivateAndExtract(context.Background(), entries[1])
	require.NoError(t, err)
	assert.True(t, out.Clean)
	assert.Equal(t, "Job 1", out.Record.JobTitle)
	assert.Equal(t, "C-1", out.Record.CaseNumber)
	assert.Equal(t, -1, page.open, "panel closed after extraction")
	assert.Equal(t, 1, page.closeClick)
}

func TestPanel_DetailNeverOpens(t *testing.T) {
	page := newFakePage(3, 0, 3)
	page.reset()
	page.behaviors[0] = behaveNeverOpens
	entries, _ := page.Elements(context.Background(), DefaultSelectors().Entry)

	out, err := newTestPanel(page).ActivateAndExtract(context.Background(), entries[0])
	assert.ErrorIs(t, err, ErrDetailTimeout)
	assert.True(t, out.Clean, "nothing was left open")
}

func TestPanel_TimeoutStillTearsDown(t *testing.T) {
	tests := []struct {
		name      string
		behavior  entryBehavior
		wantClean bool
		wantOpen  int
	}{
		{name: "close succeeds", behavior: behaveHalfOpens, wantClean: true, wantOpen: -1},
		{name: "close fails", behavior: behaveHalfOpensStuck, wantClean: false, wantOpen: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := newFakePage(3, 0, 3)
			page.reset()
			page.behaviors[1] = tt.behavior
			entries, _ := page.Elements(context.Background(), DefaultSelectors().Entry)

			out, err := newTestPanel(page).ActivateAndExtract(context.Background(), entries[1])
			assert.ErrorIs(t, err, ErrDetailTimeout)
			assert.Equal(t, 1, page.closeClick, "teardown attempted after the timeout")
			assert.Equal(t, tt.wantClean, out.Clean)
			assert.Equal(t, tt.wantOpen, page.open)
		})
	}
}

func TestPanel_TeardownFailureKeepsRecord(t *testing.T) {
	page := newFakePage(3, 0, 3)
	page.reset()
	page.behaviors[2] = behaveCloseFails
	entries, _ := page.Elements(context.Background(), DefaultSelectors().Entry)

	out, err := newTestPanel(page).ActivateAndExtract(context.Background(), entries[2])
	require.NoError(t, err)
	assert.False(t, out.Clean)
	assert.Equal(t, "C-2", out.Record.CaseNumber)
}

func TestPanel_StaleEntry(t *testing.T) {
	page := newFakePage(3, 0, 3)
	page.reset()
	entries, _ := page.Elements(context.Background(), DefaultSelectors().Entry)
	require.NoError(t, page.Reload(context.Background()))

	_, err := newTestPanel(page).ActivateAndExtract(context.Background(), entries[0])
	assert.Error(t, err)
}
