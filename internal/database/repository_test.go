package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-seasonal-jobs/internal/scraper"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	sql  string
	args []any
}

type fakeDB struct {
	execs    []execCall
	execErr  error
	queryErr error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, f.queryErr
}

func record(caseNumber string) scraper.JobRecord {
	r := scraper.NewJobRecord()
	r.CaseNumber = caseNumber
	return r.WithIndex(3)
}

func TestSaveSnapshot(t *testing.T) {
	db := &fakeDB{}
	repo := NewRepository(db)
	day := time.Date(2025, 6, 30, 18, 45, 0, 0, time.Local)

	saved, err := repo.SaveSnapshot(context.Background(), day, []scraper.JobRecord{
		record("H-1"),
		record(scraper.NotAvailable),
		record("H-2"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, saved)
	require.Len(t, db.execs, 2)

	args := db.execs[0].args
	assert.Contains(t, db.execs[0].sql, "ON CONFLICT (case_number, snapshot_day)")
	assert.Equal(t, "H-1", args[0])
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), args[1])
	require.IsType(t, (*int)(nil), args[12])
	assert.Equal(t, 3, *args[12].(*int))
}

func TestSaveSnapshot_StopsOnError(t *testing.T) {
	db := &fakeDB{execErr: errors.New("connection reset")}
	repo := NewRepository(db)

	saved, err := repo.SaveSnapshot(context.Background(), time.Now(), []scraper.JobRecord{record("H-1"), record("H-2")})
	assert.ErrorContains(t, err, "H-1")
	assert.Equal(t, 0, saved)
	assert.Len(t, db.execs, 1)
}

func TestEnsureSchema(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, NewRepository(db).EnsureSchema(context.Background()))
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0].sql, "CREATE TABLE IF NOT EXISTS postings")
}

func TestCaseNumbersOn_QueryError(t *testing.T) {
	db := &fakeDB{queryErr: errors.New("relation does not exist")}
	_, err := NewRepository(db).CaseNumbersOn(context.Background(), time.Now())
	assert.ErrorContains(t, err, "relation does not exist")
}
