// Package interview sequences candidate intake, question generation, answer
// scoring and the interview status transitions on top of the store.
package interview

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/screening/internal/ai"
	"github.com/spigell/screening/internal/domain"
	apperrors "github.com/spigell/screening/internal/errors"
	"github.com/spigell/screening/internal/events"
	"github.com/spigell/screening/internal/logger"
	"github.com/spigell/screening/internal/store"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Repository is the persistence the orchestrator needs. *store.Store
// satisfies it.
type Repository interface {
	CreateJob(ctx context.Context, job *domain.JobPosting) error
	GetJob(ctx context.Context, id string) (*domain.JobPosting, error)
	ListJobs(ctx context.Context, activeOnly bool) ([]domain.JobPosting, error)
	FindActiveJobByTitle(ctx context.Context, fragment string) (*domain.JobPosting, error)
	DeactivateJob(ctx context.Context, id string) error

	CreateCandidate(ctx context.Context, c *domain.Candidate) error
	GetCandidate(ctx context.Context, id string) (*domain.Candidate, error)
	FindCandidateByEmail(ctx context.Context, email string) (*domain.Candidate, error)
	ListCandidates(ctx context.Context) ([]domain.Candidate, error)

	CreateInterview(ctx context.Context, iv *domain.Interview) error
	GetInterview(ctx context.Context, id string) (*domain.Interview, error)
	FindPendingInterview(ctx context.Context, candidateID, jobID string) (*domain.Interview, error)
	ListInterviewQuestions(ctx context.Context, interviewID string) ([]domain.InterviewQuestion, error)
	StartInterview(ctx context.Context, interviewID string, questions []domain.InterviewQuestion, startedAt time.Time) error
	CompleteInterview(ctx context.Context, c store.Completion) error
	Report(ctx context.Context, interviewID string) (*domain.InterviewReport, error)
	Reports(ctx context.Context, status domain.Status) ([]domain.InterviewReport, error)
}

type Options struct {
	// Sources are registered under their Name().
	Sources []ai.QuestionSource
	// DefaultStrategy names the source used when a request names none.
	DefaultStrategy string
	Publisher       events.Publisher
	Logger          *zap.Logger
}

type Service struct {
	repo            Repository
	sources         map[string]ai.QuestionSource
	defaultStrategy string
	publisher       events.Publisher
	logger          *zap.Logger
	now             func() time.Time
}

func NewService(repo Repository, opts Options) (*Service, error) {
	if repo == nil {
		return nil, errors.New("repository is required")
	}

	sources := make(map[string]ai.QuestionSource, len(opts.Sources))
	for _, src := range opts.Sources {
		if src == nil {
			continue
		}
		sources[src.Name()] = src
	}
	if len(sources) == 0 {
		return nil, errors.New("at least one question source is required")
	}

	strategy := strings.ToLower(strings.TrimSpace(opts.DefaultStrategy))
	if _, ok := sources[strategy]; !ok {
		return nil, fmt.Errorf("default question strategy %q is not configured", strategy)
	}

	log := logger.WithFields(opts.Logger)
	publisher := opts.Publisher
	if publisher == nil {
		publisher = events.NewLogPublisher(log)
	}

	return &Service{
		repo:            repo,
		sources:         sources,
		defaultStrategy: strategy,
		publisher:       publisher,
		logger:          log,
		now:             func() time.Time { return time.Now().UTC() },
	}, nil
}

// Strategies lists the registered question sources.
func (s *Service) Strategies() []string {
	names := make([]string, 0, len(s.sources))
	for name := range s.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Service) source(strategy string) (ai.QuestionSource, error) {
	strategy = strings.ToLower(strings.TrimSpace(strategy))
	if strategy == "" {
		strategy = s.defaultStrategy
	}
	src, ok := s.sources[strategy]
	if !ok {
		return nil, apperrors.Validation(fmt.Sprintf("unknown question strategy %q (available: %s)",
			strategy, strings.Join(s.Strategies(), ", ")))
	}
	return src, nil
}

// ApplyInput is a candidate's application for a position.
type ApplyInput struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	JobPosition string `json:"jobPosition"`
}

type ApplyResult struct {
	Candidate domain.Candidate  `json:"candidate"`
	Job       domain.JobPosting `json:"job"`
	Interview domain.Interview  `json:"interview"`
	// Created is false when the email was already registered.
	Created bool   `json:"created"`
	Message string `json:"message"`
}

// Apply finds or registers the candidate, then resolves the job posting
// (creating one for an unknown position) and makes sure a PENDING interview
// exists.
func (s *Service) Apply(ctx context.Context, in ApplyInput) (*ApplyResult, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.JobPosition = strings.TrimSpace(in.JobPosition)

	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.JobPosition == "" {
		return nil, apperrors.Validation("firstName, lastName, email, and jobPosition are required")
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, apperrors.Validation("invalid email format")
	}

	// The candidate goes first so a failed registration never provisions a posting.
	candidate, created, err := s.findOrCreateCandidate(ctx, in)
	if err != nil {
		return nil, err
	}

	job, err := s.resolveJob(ctx, in.JobPosition)
	if err != nil {
		return nil, err
	}

	log := logger.WithFields(s.logger, logger.InterviewFields("", candidate.ID, job.ID)...)

	var interview *domain.Interview
	if !created {
		interview, err = s.repo.FindPendingInterview(ctx, candidate.ID, job.ID)
		switch {
		case err == nil:
			log.Info("reusing pending interview", zap.String(logger.FieldInterview, interview.ID))
		case errors.Is(err, store.ErrNotFound):
			interview = nil
		default:
			return nil, apperrors.Internal("failed to look up pending interview", err)
		}
	}

	if interview == nil {
		scheduled := s.now()
		interview = &domain.Interview{
			CandidateID: candidate.ID,
			JobID:       job.ID,
			Status:      domain.StatusPending,
			ScheduledAt: &scheduled,
		}
		if err := s.repo.CreateInterview(ctx, interview); err != nil {
			return nil, apperrors.Internal("failed to create interview", err)
		}
		log.Info("interview scheduled", zap.String(logger.FieldInterview, interview.ID))
	}

	message := "Candidate created successfully and interview session initiated"
	if !created {
		message = "Candidate already exists"
	}

	return &ApplyResult{
		Candidate: *candidate,
		Job:       *job,
		Interview: *interview,
		Created:   created,
		Message:   message,
	}, nil
}

func (s *Service) resolveJob(ctx context.Context, position string) (*domain.JobPosting, error) {
	job, err := s.repo.FindActiveJobByTitle(ctx, position)
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.Internal("failed to look up job posting", err)
	}

	job = &domain.JobPosting{
		Title:       position,
		Description: "Position for " + position,
		IsActive:    true,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, apperrors.Internal("failed to create job posting", err)
	}
	s.logger.Info("job posting provisioned", zap.String(logger.FieldJob, job.ID), zap.String("title", job.Title))
	return job, nil
}

func (s *Service) findOrCreateCandidate(ctx context.Context, in ApplyInput) (*domain.Candidate, bool, error) {
	existing, err := s.repo.FindCandidateByEmail(ctx, in.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, apperrors.Internal("failed to look up candidate", err)
	}

	candidate := &domain.Candidate{FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}
	if err := s.repo.CreateCandidate(ctx, candidate); err != nil {
		// A concurrent application may have won the unique email.
		if existing, findErr := s.repo.FindCandidateByEmail(ctx, in.Email); findErr == nil {
			return existing, false, nil
		}
		return nil, false, apperrors.Internal("failed to create candidate", err)
	}

	s.logger.Info("candidate registered", zap.String(logger.FieldCandidate, candidate.ID))
	return candidate, true, nil
}

// JobInput describes a posting created by an administrator.
type JobInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Department  string `json:"department"`
	Location    string `json:"location"`
	IsActive    *bool  `json:"isActive"`
}

func (s *Service) CreateJob(ctx context.Context, in JobInput) (*domain.JobPosting, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.Validation("title is required")
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	job := &domain.JobPosting{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Department:  strings.TrimSpace(in.Department),
		Location:    strings.TrimSpace(in.Location),
		IsActive:    active,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, apperrors.Internal("failed to create job posting", err)
	}

	s.logger.Info("job posting created", zap.String(logger.FieldJob, job.ID), zap.String("title", job.Title))
	return job, nil
}

func (s *Service) ListJobs(ctx context.Context, activeOnly bool) ([]domain.JobPosting, error) {
	jobs, err := s.repo.ListJobs(ctx, activeOnly)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch jobs", err)
	}
	return jobs, nil
}

// DeactivateJob hides a posting from active listings and title matching.
func (s *Service) DeactivateJob(ctx context.Context, id string) error {
	if err := s.repo.DeactivateJob(ctx, id); err != nil {
		return notFoundOr(err, "job posting not found", "failed to deactivate job posting")
	}
	s.logger.Info("job posting deactivated", zap.String(logger.FieldJob, id))
	return nil
}

func (s *Service) ListCandidates(ctx context.Context) ([]domain.Candidate, error) {
	candidates, err := s.repo.ListCandidates(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch candidates", err)
	}
	return candidates, nil
}

// Report returns the interview with its candidate, job and ordered questions.
func (s *Service) Report(ctx context.Context, interviewID string) (*domain.InterviewReport, error) {
	report, err := s.repo.Report(ctx, interviewID)
	if err != nil {
		return nil, notFoundOr(err, "interview not found", "failed to load interview")
	}
	return report, nil
}

// Reports returns every interview in status, or all of them when status is
// empty.
func (s *Service) Reports(ctx context.Context, status domain.Status) ([]domain.InterviewReport, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown interview status %q", status))
	}
	reports, err := s.repo.Reports(ctx, status)
	if err != nil {
		return nil, apperrors.Internal("failed to load interviews", err)
	}
	return reports, nil
}

func notFoundOr(err error, notFound, internal string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound(notFound, err)
	}
	return apperrors.Internal(internal, err)
}
