package ai

import (
	"context"
	"strings"
)

// QuestionType tags a generated question with what it probes.
type QuestionType string

const (
	TypeTechnical   QuestionType = "technical"
	TypeBehavioral  QuestionType = "behavioral"
	TypeSituational QuestionType = "situational"
	TypeMotivation  QuestionType = "motivation"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeTechnical, TypeBehavioral, TypeSituational, TypeMotivation:
		return true
	}
	return false
}

// Question is a generated interview question. It is transient until the
// orchestrator persists it at ordinal ID.
type Question struct {
	ID               int          `json:"id"`
	Question         string       `json:"question"`
	Type             QuestionType `json:"type"`
	ExpectedDuration int          `json:"expectedDuration"`
}

type JobContext struct {
	Title       string
	Department  string
	Location    string
	Description string
}

type CandidateContext struct {
	FirstName   string
	LastName    string
	Email       string
	JobPosition string
}

// Name returns the candidate's display name.
func (c CandidateContext) Name() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Request carries everything a QuestionSource may use.
type Request struct {
	Job       JobContext
	Candidate CandidateContext
}

// QuestionSource produces an ordered question set for one interview.
type QuestionSource interface {
	Name() string
	Generate(ctx context.Context, req Request) ([]Question, error)
}
