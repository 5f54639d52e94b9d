package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/spigell/screening/internal/logger"
)

const (
	ProviderName = "gemini"

	defaultModel           = "gemini-2.5-flash"
	defaultTemperature     = 0.7
	defaultTopP            = 0.9
	defaultMaxOutputTokens = 2000
)

const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("gemini api returned empty response")

// models is the part of genai.Models the generator uses.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options configures the text-generation client.
type Options struct {
	APIKey  string
	Backend string
	// Project and Location are used by the Vertex AI backend only.
	Project  string
	Location string

	Model           string
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
	// RequestsPerMinute caps outgoing calls; zero disables the limiter.
	RequestsPerMinute int
}

// Generator wraps the Google GenAI client to provide simple prompt-based interactions.
type Generator struct {
	models  models
	model   string
	config  *genai.GenerateContentConfig
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewGenerator creates a Generator for the Gemini API or Vertex AI backend.
func NewGenerator(ctx context.Context, opts Options, log *zap.Logger) (*Generator, error) {
	cfg := &genai.ClientConfig{}

	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendGemini:
		apiKey := strings.TrimSpace(opts.APIKey)
		if apiKey == "" {
			return nil, errors.New("gemini api key is required")
		}
		cfg.APIKey = apiKey
		cfg.Backend = genai.BackendGeminiAPI
	case BackendVertex:
		if strings.TrimSpace(opts.Project) == "" || strings.TrimSpace(opts.Location) == "" {
			return nil, errors.New("vertex backend requires project and location")
		}
		cfg.Project = strings.TrimSpace(opts.Project)
		cfg.Location = strings.TrimSpace(opts.Location)
		cfg.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("unknown gemini backend %q", opts.Backend)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, opts, log), nil
}

func newGenerator(m models, opts Options, log *zap.Logger) *Generator {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	topP := opts.TopP
	if topP <= 0 {
		topP = defaultTopP
	}
	maxTokens := opts.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	return &Generator{
		models: m,
		model:  model,
		config: &genai.GenerateContentConfig{
			Temperature:      genai.Ptr(temperature),
			TopP:             genai.Ptr(topP),
			MaxOutputTokens:  maxTokens,
			ResponseMIMEType: "application/json",
		},
		limiter: limiter,
		logger:  logger.WithFields(log, logger.CommonFields(ProviderName, model)...),
	}
}

// GenerateContent sends the prompt once and returns the concatenated text of
// the response.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	started := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		g.logger.Warn("gemini generate content failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate == nil || candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part == nil {
					continue
				}
				text := strings.TrimSpace(part.Text)
				if text == "" {
					continue
				}
				if builder.Len() > 0 {
					builder.WriteString("\n")
				}
				builder.WriteString(text)
			}
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", ErrEmptyResponse
	}

	g.logger.Debug("gemini generate content done", zap.Duration("elapsed", time.Since(started)))
	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}
