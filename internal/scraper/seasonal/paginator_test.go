package seasonal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginator_EnsureAtLeast(t *testing.T) {
	tests := []struct {
		name     string
		initial  int
		perLoad  int
		max      int
		desired  int
		noLoadAt []int
		want     int
	}{
		{name: "already enough", initial: 25, perLoad: 25, max: 500, desired: 10, want: 25},
		{name: "smallest multiple of page size", initial: 25, perLoad: 25, max: 500, desired: 51, want: 75},
		{name: "exact multiple", initial: 10, perLoad: 10, max: 500, desired: 40, want: 40},
		{name: "listing exhausted", initial: 10, perLoad: 10, max: 12, desired: 100, want: 12},
		{name: "control missing on first attempt aborts", initial: 10, perLoad: 10, max: 100, desired: 50, noLoadAt: []int{0}, want: 10},
		{name: "later control failure is retried", initial: 10, perLoad: 10, max: 100, desired: 40, noLoadAt: []int{1}, want: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := newFakePage(tt.initial, tt.perLoad, tt.max)
			page.reset()
			for _, n := range tt.noLoadAt {
				page.noLoadAt[n] = true
			}
			opts := testOptions()
			p := NewPaginator(page, opts.Selectors, opts.Paginator, discardLogger())

			got, err := p.EnsureAtLeast(context.Background(), tt.desired)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaginator_StopsAfterStagnantBound(t *testing.T) {
	page := newFakePage(12, 10, 12)
	page.reset()
	opts := testOptions()
	p := NewPaginator(page, opts.Selectors, opts.Paginator, discardLogger())

	got, err := p.EnsureAtLeast(context.Background(), 1001)
	require.NoError(t, err)
	assert.Equal(t, 12, got)
	assert.Equal(t, DefaultMaxStagnant, page.loads)
}

func TestPaginator_StagnationCounterResets(t *testing.T) {
	page := newFakePage(10, 10, 100)
	page.reset()
	// attempts 1..4 fail, attempt 5 succeeds, so five failures never line up
	for i := 1; i <= 4; i++ {
		page.noLoadAt[i] = true
	}
	opts := testOptions()
	p := NewPaginator(page, opts.Selectors, opts.Paginator, discardLogger())

	got, err := p.EnsureAtLeast(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, 40, got)
}

func TestPaginator_Cancelled(t *testing.T) {
	page := newFakePage(10, 10, 100)
	page.reset()
	opts := testOptions()
	p := NewPaginator(page, opts.Selectors, opts.Paginator, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.EnsureAtLeast(ctx, 50)
	assert.ErrorIs(t, err, context.Canceled)
}
