package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/screening/internal/domain"
)

const interviewColumns = `id, candidate_id, job_id, status, scheduled_at, started_at, completed_at,
	recording_url, duration_seconds, score, feedback, created_at`

// CreateInterview inserts an interview. Status defaults to PENDING.
func (s *Store) CreateInterview(ctx context.Context, iv *domain.Interview) error {
	if iv.ID == "" {
		iv.ID = uuid.NewString()
	}
	if iv.CreatedAt.IsZero() {
		iv.CreatedAt = s.now()
	}
	if iv.Status == "" {
		iv.Status = domain.StatusPending
	}

	var score sql.NullFloat64
	if iv.Score != nil {
		score = sql.NullFloat64{Float64: *iv.Score, Valid: true}
	}

	_, err := s.DB.ExecContext(ctx, s.rebind(`
		INSERT INTO interviews (`+interviewColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		iv.ID,
		iv.CandidateID,
		iv.JobID,
		string(iv.Status),
		nullTime(iv.ScheduledAt),
		nullTime(iv.StartedAt),
		nullTime(iv.CompletedAt),
		nullString(iv.RecordingURL),
		iv.DurationSeconds,
		score,
		nullString(iv.Feedback),
		iv.CreatedAt.UTC(),
	)
	return err
}

func (s *Store) GetInterview(ctx context.Context, id string) (*domain.Interview, error) {
	row := s.DB.QueryRowContext(ctx, s.rebind(`SELECT `+interviewColumns+` FROM interviews WHERE id = ?`), id)
	return scanInterview(row)
}

// FindPendingInterview returns the newest PENDING interview of a candidate for
// a job.
func (s *Store) FindPendingInterview(ctx context.Context, candidateID, jobID string) (*domain.Interview, error) {
	row := s.DB.QueryRowContext(ctx, s.rebind(`
		SELECT `+interviewColumns+` FROM interviews
		WHERE candidate_id = ? AND job_id = ? AND status = ?
		ORDER BY created_at DESC LIMIT 1`),
		candidateID, jobID, string(domain.StatusPending),
	)
	return scanInterview(row)
}

// ListInterviews returns interviews newest first, optionally filtered by
// status.
func (s *Store) ListInterviews(ctx context.Context, status domain.Status) ([]domain.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.DB.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interviews := []domain.Interview{}
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		interviews = append(interviews, *iv)
	}
	return interviews, rows.Err()
}

// ListInterviewQuestions returns the interview's questions in ordinal order.
func (s *Store) ListInterviewQuestions(ctx context.Context, interviewID string) ([]domain.InterviewQuestion, error) {
	return listQuestions(ctx, s.DB, s.rebind, interviewID)
}

// StartInterview persists the question batch and moves the interview from
// PENDING to IN_PROGRESS in one transaction. ErrStatusConflict is returned
// when the interview is not PENDING at write time; nothing is written then.
func (s *Store) StartInterview(ctx context.Context, interviewID string, questions []domain.InterviewQuestion, startedAt time.Time) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.transition(ctx, tx, interviewID, domain.StatusPending, domain.StatusInProgress,
			`started_at = ?`, startedAt.UTC()); err != nil {
			return err
		}

		for i := range questions {
			q := &questions[i]
			if q.ID == "" {
				q.ID = uuid.NewString()
			}
			q.InterviewID = interviewID

			_, err := tx.ExecContext(ctx, s.rebind(`
				INSERT INTO interview_questions (id, interview_id, ordinal, question, category, expected_minutes, answer)
				VALUES (?, ?, ?, ?, ?, ?, ?)`),
				q.ID, q.InterviewID, q.Ordinal, q.Question, nullString(q.Category), q.ExpectedMinutes, nullString(q.Answer),
			)
			if err != nil {
				return fmt.Errorf("insert question %d: %w", q.Ordinal, err)
			}
		}
		return nil
	})
}

// Completion is everything written when answers are submitted.
type Completion struct {
	InterviewID     string
	Answers         map[string]string // question id -> answer
	Score           float64
	Feedback        string
	RecordingURL    string
	DurationSeconds int
	CompletedAt     time.Time
}

// CompleteInterview stores the answers and moves the interview from
// IN_PROGRESS to COMPLETED in one transaction.
func (s *Store) CompleteInterview(ctx context.Context, c Completion) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.transition(ctx, tx, c.InterviewID, domain.StatusInProgress, domain.StatusCompleted,
			`completed_at = ?, score = ?, feedback = ?, recording_url = ?, duration_seconds = ?`,
			c.CompletedAt.UTC(), c.Score, c.Feedback, nullString(c.RecordingURL), c.DurationSeconds,
		); err != nil {
			return err
		}

		for questionID, answer := range c.Answers {
			res, err := tx.ExecContext(ctx, s.rebind(`
				UPDATE interview_questions SET answer = ? WHERE id = ? AND interview_id = ?`),
				answer, questionID, c.InterviewID,
			)
			if err != nil {
				return fmt.Errorf("update answer for question %s: %w", questionID, err)
			}
			if err := expectAffected(res); err != nil {
				return fmt.Errorf("update answer for question %s: %w", questionID, err)
			}
		}
		return nil
	})
}

// transition performs a status change guarded by the expected current status.
func (s *Store) transition(ctx context.Context, q queryer, id string, from, to domain.Status, set string, args ...any) error {
	query := `UPDATE interviews SET status = ?, ` + set + ` WHERE id = ? AND status = ?`

	params := make([]any, 0, len(args)+3)
	params = append(params, string(to))
	params = append(params, args...)
	params = append(params, id, string(from))

	res, err := q.ExecContext(ctx, s.rebind(query), params...)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	// Tell a missing interview apart from one in the wrong status.
	var exists int
	err = q.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM interviews WHERE id = ?`), id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrStatusConflict
}

// Report loads an interview together with its candidate, job and questions.
func (s *Store) Report(ctx context.Context, interviewID string) (*domain.InterviewReport, error) {
	iv, err := s.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	return s.report(ctx, *iv)
}

// Reports loads every interview in the given status (all when empty) with
// its relations.
func (s *Store) Reports(ctx context.Context, status domain.Status) ([]domain.InterviewReport, error) {
	interviews, err := s.ListInterviews(ctx, status)
	if err != nil {
		return nil, err
	}

	reports := make([]domain.InterviewReport, 0, len(interviews))
	for _, iv := range interviews {
		r, err := s.report(ctx, iv)
		if err != nil {
			return nil, fmt.Errorf("interview %s: %w", iv.ID, err)
		}
		reports = append(reports, *r)
	}
	return reports, nil
}

func (s *Store) report(ctx context.Context, iv domain.Interview) (*domain.InterviewReport, error) {
	candidate, err := s.GetCandidate(ctx, iv.CandidateID)
	if err != nil {
		return nil, fmt.Errorf("candidate: %w", err)
	}
	job, err := s.GetJob(ctx, iv.JobID)
	if err != nil {
		return nil, fmt.Errorf("job: %w", err)
	}
	questions, err := s.ListInterviewQuestions(ctx, iv.ID)
	if err != nil {
		return nil, fmt.Errorf("questions: %w", err)
	}

	return &domain.InterviewReport{
		Interview: iv,
		Candidate: *candidate,
		Job:       *job,
		Questions: questions,
	}, nil
}

func listQuestions(ctx context.Context, q queryer, rebind func(string) string, interviewID string) ([]domain.InterviewQuestion, error) {
	rows, err := q.QueryContext(ctx, rebind(`
		SELECT id, interview_id, ordinal, question, category, expected_minutes, answer
		FROM interview_questions WHERE interview_id = ? ORDER BY ordinal ASC`), interviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []domain.InterviewQuestion{}
	for rows.Next() {
		var (
			iq               domain.InterviewQuestion
			category, answer sql.NullString
			minutes          sql.NullInt64
		)
		if err := rows.Scan(&iq.ID, &iq.InterviewID, &iq.Ordinal, &iq.Question, &category, &minutes, &answer); err != nil {
			return nil, err
		}
		iq.Category = category.String
		iq.ExpectedMinutes = int(minutes.Int64)
		iq.Answer = answer.String
		questions = append(questions, iq)
	}
	return questions, rows.Err()
}

func scanInterview(row rowScanner) (*domain.Interview, error) {
	var (
		iv                               domain.Interview
		status                           string
		scheduledAt, startedAt, complAt  sql.NullTime
		recordingURL, feedback           sql.NullString
		duration                         sql.NullInt64
		score                            sql.NullFloat64
	)
	err := row.Scan(&iv.ID, &iv.CandidateID, &iv.JobID, &status, &scheduledAt, &startedAt, &complAt,
		&recordingURL, &duration, &score, &feedback, &iv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	iv.Status = domain.Status(status)
	iv.ScheduledAt = timePtr(scheduledAt)
	iv.StartedAt = timePtr(startedAt)
	iv.CompletedAt = timePtr(complAt)
	iv.RecordingURL = recordingURL.String
	iv.DurationSeconds = int(duration.Int64)
	iv.Feedback = feedback.String
	iv.CreatedAt = iv.CreatedAt.UTC()
	if score.Valid {
		v := score.Float64
		iv.Score = &v
	}
	return &iv, nil
}
