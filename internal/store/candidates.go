package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/spigell/screening/internal/domain"
)

const candidateColumns = `id, first_name, last_name, email, created_at`

// CreateCandidate inserts a candidate. Emails are stored lower-cased; callers
// are expected to check FindCandidateByEmail first, the UNIQUE constraint is
// the last line.
func (s *Store) CreateCandidate(ctx context.Context, c *domain.Candidate) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	c.Email = normalizeEmail(c.Email)

	_, err := s.DB.ExecContext(ctx, s.rebind(`
		INSERT INTO candidates (`+candidateColumns+`)
		VALUES (?, ?, ?, ?, ?)`),
		c.ID, c.FirstName, c.LastName, c.Email, c.CreatedAt.UTC(),
	)
	return err
}

func (s *Store) GetCandidate(ctx context.Context, id string) (*domain.Candidate, error) {
	row := s.DB.QueryRowContext(ctx, s.rebind(`SELECT `+candidateColumns+` FROM candidates WHERE id = ?`), id)
	return scanCandidate(row)
}

func (s *Store) FindCandidateByEmail(ctx context.Context, email string) (*domain.Candidate, error) {
	row := s.DB.QueryRowContext(ctx, s.rebind(`SELECT `+candidateColumns+` FROM candidates WHERE email = ?`), normalizeEmail(email))
	return scanCandidate(row)
}

// ListCandidates returns candidates newest first.
func (s *Store) ListCandidates(ctx context.Context) ([]domain.Candidate, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []domain.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, *c)
	}
	return candidates, rows.Err()
}

func scanCandidate(row rowScanner) (*domain.Candidate, error) {
	var c domain.Candidate
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
