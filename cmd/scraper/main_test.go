package main

import (
	"path/filepath"
	"testing"
	"time"

	"go-seasonal-jobs/internal/dedup"
	"go-seasonal-jobs/internal/scraper"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotPaths(t *testing.T) {
	now := time.Date(2025, 6, 19, 8, 0, 0, 0, time.UTC)
	dated := filepath.Join("output", "seasonal_jobs_2025-06-19.json")

	tests := []struct {
		name string
		out  string
		want []string
	}{
		{
			name: "default output",
			out:  filepath.Join("output", "seasonal_jobs_scraped.json"),
			want: []string{filepath.Join("output", "seasonal_jobs_scraped.json"), dated},
		},
		{
			name: "custom output elsewhere keeps dated copy in output dir",
			out:  filepath.Join("tmp", "run", "batch.json"),
			want: []string{filepath.Join("tmp", "run", "batch.json"), dated},
		},
		{
			name: "output is the dated file",
			out:  dated,
			want: []string{dated},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, snapshotPaths("output", tt.out, now))
		})
	}
}

func TestSinceYesterday(t *testing.T) {
	records := []scraper.JobRecord{{CaseNumber: "A"}, {CaseNumber: "B"}}

	tests := []struct {
		name   string
		seen   dedup.Set
		want   []scraper.JobRecord
		wantOK bool
	}{
		{name: "no previous day", seen: nil},
		{name: "empty previous day", seen: dedup.Set{}},
		{
			name:   "previous day stored",
			seen:   dedup.Set{"A": {}},
			want:   []scraper.JobRecord{{CaseNumber: "B"}},
			wantOK: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fresh, ok := sinceYesterday(tt.seen, records)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, fresh)
		})
	}
}
