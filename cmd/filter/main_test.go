package main

import (
	"path/filepath"
	"testing"
	"time"

	"go-seasonal-jobs/internal/scraper"
	"go-seasonal-jobs/internal/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "seasonal_jobs_scraped.json")
	out := filepath.Join(dir, "no_experience.json")
	require.NoError(t, snapshot.Save(in, []scraper.JobRecord{
		{CaseNumber: "A", ExperienceRequired: "No", BeginDate: "07/02/2025"},
		{CaseNumber: "B", ExperienceRequired: "no ", BeginDate: "10/01/2025"},
		{CaseNumber: "C", ExperienceRequired: "Yes"},
		{CaseNumber: "D", ExperienceRequired: "N/A"},
	}))

	kept, err := run(in, out, predicates(-1, time.Now())...)
	require.NoError(t, err)
	assert.Len(t, kept, 2)

	written, err := snapshot.Load(out)
	require.NoError(t, err)
	assert.Equal(t, "A", written[0].CaseNumber)
	assert.Equal(t, "B", written[1].CaseNumber)

	now := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	kept, err = run(in, out, predicates(10, now)...)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, "A", kept[0].CaseNumber)
}

func TestRun_MissingInput(t *testing.T) {
	_, err := run(filepath.Join(t.TempDir(), "none.json"), filepath.Join(t.TempDir(), "out.json"))
	assert.ErrorIs(t, err, snapshot.ErrNotFound)
}
