package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/spigell/screening/internal/domain"
)

const jobColumns = `id, title, description, department, location, is_active, created_at`

// CreateJob inserts a posting, assigning id and creation time when unset.
func (s *Store) CreateJob(ctx context.Context, job *domain.JobPosting) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = s.now()
	}

	_, err := s.DB.ExecContext(ctx, s.rebind(`
		INSERT INTO job_postings (`+jobColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		job.ID,
		job.Title,
		job.Description,
		nullString(job.Department),
		nullString(job.Location),
		job.IsActive,
		job.CreatedAt.UTC(),
	)
	return err
}

func (s *Store) GetJob(ctx context.Context, id string) (*domain.JobPosting, error) {
	row := s.DB.QueryRowContext(ctx, s.rebind(`SELECT `+jobColumns+` FROM job_postings WHERE id = ?`), id)
	return scanJob(row)
}

// ListJobs returns postings newest first.
func (s *Store) ListJobs(ctx context.Context, activeOnly bool) ([]domain.JobPosting, error) {
	query := `SELECT ` + jobColumns + ` FROM job_postings`
	var args []any
	if activeOnly {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.DB.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []domain.JobPosting{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// FindActiveJobByTitle returns the newest active posting whose title contains
// fragment, compared case-insensitively. Matching runs in Go so non-ASCII
// titles fold the same way on every driver.
func (s *Store) FindActiveJobByTitle(ctx context.Context, fragment string) (*domain.JobPosting, error) {
	needle := strings.ToLower(strings.TrimSpace(fragment))
	if needle == "" {
		return nil, ErrNotFound
	}

	jobs, err := s.ListJobs(ctx, true)
	if err != nil {
		return nil, err
	}

	for i := range jobs {
		if strings.Contains(strings.ToLower(jobs[i].Title), needle) {
			return &jobs[i], nil
		}
	}
	return nil, ErrNotFound
}

// DeactivateJob soft-deletes a posting.
func (s *Store) DeactivateJob(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, s.rebind(`UPDATE job_postings SET is_active = ? WHERE id = ?`), false, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.JobPosting, error) {
	var (
		job                  domain.JobPosting
		department, location sql.NullString
	)
	err := row.Scan(&job.ID, &job.Title, &job.Description, &department, &location, &job.IsActive, &job.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	job.Department = department.String
	job.Location = location.String
	job.CreatedAt = job.CreatedAt.UTC()
	return &job, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
