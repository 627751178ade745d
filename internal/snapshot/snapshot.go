// Package snapshot persists extraction batches as JSON arrays.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go-seasonal-jobs/internal/scraper"
)

// ErrNotFound means the snapshot file does not exist.
var ErrNotFound = errors.New("snapshot not found")

const (
	datedPrefix = "seasonal_jobs_"
	dayLayout   = "2006-01-02"
)

// DatedName is the file name of the snapshot taken on t's day.
func DatedName(t time.Time) string {
	return datedPrefix + t.Format(dayLayout) + ".json"
}

// ParseDay parses a YYYY-MM-DD day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return t, nil
}

// Encode writes records as a 2-space indented array. Non-ASCII and HTML
// characters are written as is. A nil batch is written as [].
func Encode(w io.Writer, records []scraper.JobRecord) error {
	if records == nil {
		records = []scraper.JobRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func Decode(r io.Reader) ([]scraper.JobRecord, error) {
	var records []scraper.JobRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []scraper.JobRecord{}
	}
	return records, nil
}

func Load(path string) ([]scraper.JobRecord, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}

// Save writes records to path through a temp file in the same directory,
// so readers never see a half-written snapshot.
func Save(path string, records []scraper.JobRecord) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, records); err != nil {
		tmp.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("chmod snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
