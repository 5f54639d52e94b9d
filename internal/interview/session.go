package interview

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spigell/screening/internal/ai"
	"github.com/spigell/screening/internal/domain"
	apperrors "github.com/spigell/screening/internal/errors"
	"github.com/spigell/screening/internal/events"
	"github.com/spigell/screening/internal/logger"
	"github.com/spigell/screening/internal/scoring"
	"github.com/spigell/screening/internal/store"
)

const nextStepSummary = "summary_generation"

// StartInterview generates questions with the named strategy (default when
// empty), persists them and moves the interview to IN_PROGRESS. The interview
// must be PENDING; generation failures leave it untouched.
func (s *Service) StartInterview(ctx context.Context, interviewID, strategy string) ([]domain.InterviewQuestion, error) {
	src, err := s.source(strategy)
	if err != nil {
		return nil, err
	}

	report, err := s.Report(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	iv := report.Interview
	log := logger.WithFields(s.logger, logger.InterviewFields(iv.ID, iv.CandidateID, iv.JobID)...)

	if iv.Status != domain.StatusPending {
		log.Warn("questions requested for interview that is not pending", zap.String("status", string(iv.Status)))
		return nil, apperrors.InvalidStateTransition(string(iv.Status), string(domain.StatusInProgress))
	}

	req := ai.Request{
		Job: ai.JobContext{
			Title:       report.Job.Title,
			Department:  report.Job.Department,
			Location:    report.Job.Location,
			Description: report.Job.Description,
		},
		Candidate: ai.CandidateContext{
			FirstName:   report.Candidate.FirstName,
			LastName:    report.Candidate.LastName,
			Email:       report.Candidate.Email,
			JobPosition: report.Job.Title,
		},
	}

	generated, err := s.generate(ctx, src, req)
	if err != nil {
		log.Warn("question generation failed", zap.String("strategy", src.Name()), zap.Error(err))
		return nil, err
	}

	batch := make([]domain.InterviewQuestion, len(generated))
	for i, q := range generated {
		batch[i] = domain.InterviewQuestion{
			Ordinal:         q.ID,
			Question:        q.Question,
			Category:        string(q.Type),
			ExpectedMinutes: q.ExpectedDuration,
		}
	}

	if err := s.repo.StartInterview(ctx, iv.ID, batch, s.now()); err != nil {
		return nil, s.transitionError(ctx, err, iv.ID, domain.StatusInProgress)
	}

	log.Info("interview started", zap.String("strategy", src.Name()), zap.Int("questions", len(batch)))
	return batch, nil
}

func (s *Service) generate(ctx context.Context, src ai.QuestionSource, req ai.Request) ([]ai.Question, error) {
	questions, err := src.Generate(ctx, req)
	if err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, apperrors.GenerationService("question generation failed", err)
	}
	if len(questions) == 0 {
		return nil, apperrors.GenerationFormat("question generator returned no questions", nil)
	}
	return questions, nil
}

// Questions returns the persisted questions of an interview in ordinal order.
func (s *Service) Questions(ctx context.Context, interviewID string) ([]domain.InterviewQuestion, error) {
	if _, err := s.repo.GetInterview(ctx, interviewID); err != nil {
		return nil, notFoundOr(err, "interview not found", "failed to load interview")
	}

	questions, err := s.repo.ListInterviewQuestions(ctx, interviewID)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch interview questions", err)
	}
	return questions, nil
}

// Submission carries a candidate's answers in question order.
type Submission struct {
	// Answers is nil when the caller sent none at all.
	Answers         []string `json:"answers"`
	RecordingURL    string   `json:"videoUrl"`
	DurationSeconds int      `json:"duration"`
}

type SubmitResult struct {
	Report           domain.InterviewReport `json:"interview"`
	PreliminaryScore float64                `json:"preliminaryScore"`
	Breakdown        scoring.Breakdown      `json:"breakdown"`
	Message          string                 `json:"message"`
	NextStep         string                 `json:"nextStep"`
}

// SubmitAnswers stores the answers, scores them and completes the interview.
// The interview must be IN_PROGRESS and the answer count must match the
// question count; otherwise nothing is written.
func (s *Service) SubmitAnswers(ctx context.Context, interviewID string, sub Submission) (*SubmitResult, error) {
	report, err := s.Report(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	iv := report.Interview
	log := logger.WithFields(s.logger, logger.InterviewFields(iv.ID, iv.CandidateID, iv.JobID)...)

	if iv.Status != domain.StatusInProgress {
		log.Warn("answers submitted for interview that is not in progress", zap.String("status", string(iv.Status)))
		return nil, apperrors.InvalidStateTransition(string(iv.Status), string(domain.StatusCompleted))
	}
	if sub.Answers == nil {
		return nil, apperrors.Validation("answers must be provided as an array")
	}
	if sub.DurationSeconds < 0 {
		return nil, apperrors.Validation("duration must not be negative")
	}
	if len(sub.Answers) != len(report.Questions) {
		log.Warn("answer count mismatch", zap.Int("answers", len(sub.Answers)), zap.Int("questions", len(report.Questions)))
		return nil, apperrors.AnswerCountMismatch(len(sub.Answers), len(report.Questions))
	}

	breakdown := scoring.Score(sub.Answers, report.Job.Title)
	feedback := scoring.Feedback(sub.Answers, report.Job.Title)

	answers := make(map[string]string, len(sub.Answers))
	for i, q := range report.Questions {
		answers[q.ID] = sub.Answers[i]
	}

	completion := store.Completion{
		InterviewID:     iv.ID,
		Answers:         answers,
		Score:           breakdown.Final,
		Feedback:        feedback,
		RecordingURL:    sub.RecordingURL,
		DurationSeconds: sub.DurationSeconds,
		CompletedAt:     s.now(),
	}
	if err := s.repo.CompleteInterview(ctx, completion); err != nil {
		return nil, s.transitionError(ctx, err, iv.ID, domain.StatusCompleted)
	}

	log.Info("interview completed",
		zap.Float64("score", breakdown.Final),
		zap.Int("answers_given", breakdown.AnswersGiven),
		zap.Int("keyword_hits", breakdown.KeywordHits))

	event := events.InterviewCompleted{
		InterviewID:     iv.ID,
		CandidateID:     iv.CandidateID,
		JobID:           iv.JobID,
		Score:           breakdown.Final,
		DurationSeconds: sub.DurationSeconds,
		CompletedAt:     completion.CompletedAt,
	}
	if err := s.publisher.PublishInterviewCompleted(ctx, event); err != nil {
		log.Warn("failed to publish interview completion", zap.Error(err))
	}

	updated, err := s.Report(ctx, iv.ID)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		Report:           *updated,
		PreliminaryScore: breakdown.Final,
		Breakdown:        breakdown,
		Message:          "Interview saved successfully",
		NextStep:         nextStepSummary,
	}, nil
}

// transitionError converts a failed guarded write into a domain error,
// reporting the status the interview was found in.
func (s *Service) transitionError(ctx context.Context, err error, interviewID string, to domain.Status) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperrors.NotFound("interview not found", err)
	case errors.Is(err, store.ErrStatusConflict):
		from := "unknown"
		if iv, getErr := s.repo.GetInterview(ctx, interviewID); getErr == nil {
			from = string(iv.Status)
		}
		return apperrors.InvalidStateTransition(from, string(to))
	}
	return apperrors.Internal("failed to update interview", err)
}
