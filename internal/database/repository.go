package database

import (
	"context"
	"fmt"
	"time"

	"go-seasonal-jobs/internal/dedup"
	"go-seasonal-jobs/internal/models"
	"go-seasonal-jobs/internal/scraper"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Repository struct {
	db   DB
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS postings (
	case_number         TEXT NOT NULL,
	snapshot_day        DATE NOT NULL,
	job_title           TEXT NOT NULL,
	company             TEXT NOT NULL,
	location            TEXT NOT NULL,
	salary              TEXT NOT NULL,
	begin_date          TEXT NOT NULL,
	end_date            TEXT NOT NULL,
	experience_required TEXT NOT NULL,
	rec_apply_email     TEXT NOT NULL,
	phone               TEXT NOT NULL,
	job_duties          TEXT NOT NULL,
	job_index           INTEGER,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (case_number, snapshot_day)
)`

const upsertPosting = `
	INSERT INTO postings (case_number, snapshot_day, job_title, company, location, salary,
		begin_date, end_date, experience_required, rec_apply_email, phone, job_duties, job_index)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (case_number, snapshot_day)
	DO UPDATE SET job_title = EXCLUDED.job_title, company = EXCLUDED.company, location = EXCLUDED.location,
		salary = EXCLUDED.salary, begin_date = EXCLUDED.begin_date, end_date = EXCLUDED.end_date,
		experience_required = EXCLUDED.experience_required, rec_apply_email = EXCLUDED.rec_apply_email,
		phone = EXCLUDED.phone, job_duties = EXCLUDED.job_duties, job_index = EXCLUDED.job_index`

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// Transaction-mode poolers (PgBouncer) do not support prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool, pool: pool}, nil
}

// NewRepository wraps an existing connection.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create postings table: %w", err)
	}
	return nil
}

// SaveSnapshot upserts the records of one snapshot day and returns how
// many rows were written. Records without a case number are skipped.
func (r *Repository) SaveSnapshot(ctx context.Context, day time.Time, records []scraper.JobRecord) (int, error) {
	saved := 0
	for _, rec := range records {
		p := models.NewPosting(rec, day)
		if !p.Keyed() {
			continue
		}
		_, err := r.db.Exec(ctx, upsertPosting,
			p.CaseNumber, p.SnapshotDay, p.JobTitle, p.Company, p.Location, p.Salary,
			p.BeginDate, p.EndDate, p.ExperienceRequired, p.RecApplyEmail, p.Phone, p.JobDuties, p.JobIndex)
		if err != nil {
			return saved, fmt.Errorf("failed to save posting %s: %w", p.CaseNumber, err)
		}
		saved++
	}
	return saved, nil
}

// CaseNumbersOn returns the case numbers stored for day.
func (r *Repository) CaseNumbersOn(ctx context.Context, day time.Time) (dedup.Set, error) {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	rows, err := r.db.Query(ctx, `SELECT case_number FROM postings WHERE snapshot_day = $1`, d)
	if err != nil {
		return nil, fmt.Errorf("failed to query case numbers: %w", err)
	}
	numbers, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to read case numbers: %w", err)
	}

	set := make(dedup.Set, len(numbers))
	for _, n := range numbers {
		set[n] = struct{}{}
	}
	return set, nil
}
