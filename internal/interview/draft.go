package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/screening/internal/ai"
	"github.com/spigell/screening/internal/domain"
	apperrors "github.com/spigell/screening/internal/errors"
	"github.com/spigell/screening/internal/store"
)

// DraftCandidate is client-held candidate data used to pre-fill a preview.
type DraftCandidate struct {
	FirstName   string `mapstructure:"firstName" json:"firstName"`
	LastName    string `mapstructure:"lastName" json:"lastName"`
	Email       string `mapstructure:"email" json:"email"`
	JobPosition string `mapstructure:"jobPosition" json:"jobPosition"`
}

// DraftJob is client-held job data; ID refers to a stored posting.
type DraftJob struct {
	ID          string `mapstructure:"id" json:"id,omitempty"`
	Title       string `mapstructure:"title" json:"title"`
	Department  string `mapstructure:"department" json:"department,omitempty"`
	Location    string `mapstructure:"location" json:"location,omitempty"`
	Description string `mapstructure:"description" json:"description"`
}

// Draft is a draft application. Referenced ids must exist and stored records
// take precedence over the snapshots.
type Draft struct {
	CandidateID string          `mapstructure:"candidateId"`
	JobID       string          `mapstructure:"jobId"`
	Strategy    string          `mapstructure:"strategy"`
	UserData    *DraftCandidate `mapstructure:"userData"`
	JobData     *DraftJob       `mapstructure:"jobData"`
}

// DecodeDraft accepts either the nested {userData, jobData} payload or the
// flattened one carrying candidate and job fields side by side.
func DecodeDraft(payload map[string]any) (Draft, error) {
	var draft Draft
	if err := decode(payload, &draft); err != nil {
		return Draft{}, apperrors.Validation(fmt.Sprintf("invalid draft payload: %v", err))
	}

	if draft.UserData == nil {
		var c DraftCandidate
		if err := decode(payload, &c); err != nil {
			return Draft{}, apperrors.Validation(fmt.Sprintf("invalid candidate data: %v", err))
		}
		draft.UserData = &c
	}

	if draft.JobData == nil {
		var j DraftJob
		if err := decode(payload, &j); err != nil {
			return Draft{}, apperrors.Validation(fmt.Sprintf("invalid job data: %v", err))
		}
		draft.JobData = &j
	}

	return draft, nil
}

func decode(input map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

type Preview struct {
	Questions []ai.Question  `json:"questions"`
	Strategy  string         `json:"strategy"`
	UserData  DraftCandidate `json:"userData"`
	JobData   DraftJob       `json:"jobData"`
}

// PreviewQuestions generates questions for a draft application without
// persisting anything.
func (s *Service) PreviewQuestions(ctx context.Context, draft Draft) (*Preview, error) {
	src, err := s.source(draft.Strategy)
	if err != nil {
		return nil, err
	}

	candidate, err := s.resolveDraftCandidate(ctx, draft)
	if err != nil {
		return nil, err
	}
	job, err := s.resolveDraftJob(ctx, draft)
	if err != nil {
		return nil, err
	}

	if candidate.FirstName == "" || candidate.LastName == "" || candidate.Email == "" {
		return nil, apperrors.Validation("user data (firstName, lastName, email) is required")
	}
	if job.Title == "" || job.Description == "" {
		return nil, apperrors.Validation("job data (title, description) is required")
	}
	if candidate.JobPosition == "" {
		candidate.JobPosition = job.Title
	}

	req := ai.Request{
		Job: ai.JobContext{
			Title:       job.Title,
			Department:  job.Department,
			Location:    job.Location,
			Description: job.Description,
		},
		Candidate: ai.CandidateContext{
			FirstName:   candidate.FirstName,
			LastName:    candidate.LastName,
			Email:       candidate.Email,
			JobPosition: candidate.JobPosition,
		},
	}

	questions, err := s.generate(ctx, src, req)
	if err != nil {
		s.logger.Warn("question preview failed", zap.String("strategy", src.Name()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("question preview generated", zap.String("strategy", src.Name()), zap.Int("questions", len(questions)))
	return &Preview{
		Questions: questions,
		Strategy:  src.Name(),
		UserData:  candidate,
		JobData:   job,
	}, nil
}

func (s *Service) resolveDraftCandidate(ctx context.Context, draft Draft) (DraftCandidate, error) {
	var snapshot DraftCandidate
	if draft.UserData != nil {
		snapshot = *draft.UserData
	}
	snapshot = DraftCandidate{
		FirstName:   strings.TrimSpace(snapshot.FirstName),
		LastName:    strings.TrimSpace(snapshot.LastName),
		Email:       strings.TrimSpace(snapshot.Email),
		JobPosition: strings.TrimSpace(snapshot.JobPosition),
	}

	var (
		stored *domain.Candidate
		err    error
	)
	switch {
	case strings.TrimSpace(draft.CandidateID) != "":
		stored, err = s.repo.GetCandidate(ctx, strings.TrimSpace(draft.CandidateID))
		if err != nil {
			return DraftCandidate{}, notFoundOr(err, "candidate not found", "failed to load candidate")
		}
	case snapshot.Email != "":
		stored, err = s.repo.FindCandidateByEmail(ctx, snapshot.Email)
		if errors.Is(err, store.ErrNotFound) {
			return snapshot, nil
		}
		if err != nil {
			return DraftCandidate{}, apperrors.Internal("failed to look up candidate", err)
		}
	default:
		return snapshot, nil
	}

	return DraftCandidate{
		FirstName:   stored.FirstName,
		LastName:    stored.LastName,
		Email:       stored.Email,
		JobPosition: snapshot.JobPosition,
	}, nil
}

func (s *Service) resolveDraftJob(ctx context.Context, draft Draft) (DraftJob, error) {
	var snapshot DraftJob
	if draft.JobData != nil {
		snapshot = *draft.JobData
	}
	snapshot = DraftJob{
		ID:          strings.TrimSpace(snapshot.ID),
		Title:       strings.TrimSpace(snapshot.Title),
		Department:  strings.TrimSpace(snapshot.Department),
		Location:    strings.TrimSpace(snapshot.Location),
		Description: strings.TrimSpace(snapshot.Description),
	}

	id := strings.TrimSpace(draft.JobID)
	if id == "" {
		id = snapshot.ID
	}
	if id == "" {
		return snapshot, nil
	}

	stored, err := s.repo.GetJob(ctx, id)
	if err != nil {
		return DraftJob{}, notFoundOr(err, "job posting not found", "failed to load job posting")
	}

	return DraftJob{
		ID:          stored.ID,
		Title:       stored.Title,
		Department:  stored.Department,
		Location:    stored.Location,
		Description: stored.Description,
	}, nil
}
