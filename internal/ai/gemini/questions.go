package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/screening/internal/ai"
	apperrors "github.com/spigell/screening/internal/errors"
	"github.com/spigell/screening/internal/logger"
)

// SourceName is the strategy name of the AI question source.
const SourceName = "ai"

// QuestionCount is the exact number of questions the model must return.
const QuestionCount = 5

const (
	defaultMaxLogLength = 200
	notSpecified        = "Not specified"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

// QuestionSource asks the text-generation service for five tailored
// questions and accepts the answer only if it matches the expected schema.
type QuestionSource struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewQuestionSource(generator contentGenerator, log *zap.Logger, maxLogLength int) *QuestionSource {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &QuestionSource{
		generator: generator,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}
}

func (s *QuestionSource) Name() string { return SourceName }

// Generate calls the service once. Service failures are GENERATION_SERVICE
// errors, unusable output is a GENERATION_FORMAT error.
func (s *QuestionSource) Generate(ctx context.Context, req ai.Request) ([]ai.Question, error) {
	prompt := buildPrompt(req)

	s.logger.Debug("question generation request",
		zap.String("job_title", req.Job.Title),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, apperrors.GenerationService("question generation service failed", err)
	}

	s.logger.Debug("question generation response",
		zap.String("job_title", req.Job.Title),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	questions, err := parseQuestions(raw)
	if err != nil {
		s.logger.Warn("question generation returned unusable output", zap.Error(err))
		return nil, apperrors.GenerationFormat("invalid response format from question generator", err)
	}

	return questions, nil
}

func buildPrompt(req ai.Request) string {
	position := req.Candidate.JobPosition
	if strings.TrimSpace(position) == "" {
		position = req.Job.Title
	}

	r := strings.NewReplacer(
		"{{JOB_TITLE}}", orDefault(req.Job.Title),
		"{{JOB_DEPARTMENT}}", orDefault(req.Job.Department),
		"{{JOB_LOCATION}}", orDefault(req.Job.Location),
		"{{JOB_DESCRIPTION}}", orDefault(req.Job.Description),
		"{{CANDIDATE_NAME}}", orDefault(req.Candidate.Name()),
		"{{CANDIDATE_EMAIL}}", orDefault(req.Candidate.Email),
		"{{CANDIDATE_POSITION}}", orDefault(position),
	)
	return r.Replace(promptTemplate)
}

func orDefault(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return notSpecified
	}
	return v
}

const maxExpectedMinutes = 24 * 60

// rawQuestion mirrors one array element; pointers tell missing from zero.
type rawQuestion struct {
	ID               *int     `json:"id"`
	Question         *string  `json:"question"`
	Type             *string  `json:"type"`
	ExpectedDuration *float64 `json:"expectedDuration"`
}

func parseQuestions(raw string) ([]ai.Question, error) {
	cleaned := extractJSON(raw)
	if !strings.HasPrefix(cleaned, "[") {
		return nil, errors.New("expected a JSON array")
	}

	var items []rawQuestion
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	if len(items) != QuestionCount {
		return nil, fmt.Errorf("expected %d questions, got %d", QuestionCount, len(items))
	}

	seen := make(map[int]bool, len(items))
	questions := make([]ai.Question, 0, len(items))
	for i, item := range items {
		if item.ID == nil || *item.ID < 1 || *item.ID > QuestionCount {
			return nil, fmt.Errorf("question %d: id must be between 1 and %d", i, QuestionCount)
		}
		if seen[*item.ID] {
			return nil, fmt.Errorf("question %d: duplicate id %d", i, *item.ID)
		}
		seen[*item.ID] = true

		if item.Question == nil || strings.TrimSpace(*item.Question) == "" {
			return nil, fmt.Errorf("question %d: text is required", i)
		}
		if item.Type == nil {
			return nil, fmt.Errorf("question %d: type is required", i)
		}
		qType := ai.QuestionType(strings.ToLower(strings.TrimSpace(*item.Type)))
		if !qType.Valid() {
			return nil, fmt.Errorf("question %d: unknown type %q", i, *item.Type)
		}
		minutes, err := wholeMinutes(item.ExpectedDuration)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}

		questions = append(questions, ai.Question{
			ID:               *item.ID,
			Question:         strings.TrimSpace(*item.Question),
			Type:             qType,
			ExpectedDuration: minutes,
		})
	}

	sort.Slice(questions, func(a, b int) bool { return questions[a].ID < questions[b].ID })
	return questions, nil
}

// wholeMinutes rounds a model estimate to the nearest minute, never below one.
func wholeMinutes(v *float64) (int, error) {
	if v == nil || *v <= 0 {
		return 0, errors.New("expectedDuration must be a positive number of minutes")
	}
	if *v > maxExpectedMinutes {
		return 0, fmt.Errorf("expectedDuration %g is out of range", *v)
	}
	return max(1, int(math.Round(*v))), nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
