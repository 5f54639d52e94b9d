package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type modelCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type fakeModels struct {
	mu    sync.Mutex
	calls []modelCall
	resp  *genai.GenerateContentResponse
	err   error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, modelCall{model: model, contents: contents, config: config})
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGeneratorSendsPromptWithSamplingConfig(t *testing.T) {
	models := &fakeModels{resp: textResponse(" [1, ", "2] ")}
	g := newGenerator(models, Options{Model: "gemini-test"}, zap.NewNop())

	output, err := g.GenerateContent(context.Background(), "  prompt text  ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output != "[1,\n2]" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(models.calls))
	}

	call := models.calls[0]
	if call.model != "gemini-test" {
		t.Fatalf("unexpected model: %q", call.model)
	}
	if got := call.contents[0].Parts[0].Text; got != "prompt text" {
		t.Fatalf("unexpected prompt: %q", got)
	}
	if call.config == nil || call.config.Temperature == nil || *call.config.Temperature != float32(0.7) {
		t.Fatalf("expected default temperature 0.7, got %+v", call.config)
	}
	if call.config.TopP == nil || *call.config.TopP != float32(0.9) {
		t.Fatalf("expected default top-p 0.9")
	}
	if call.config.MaxOutputTokens != 2000 {
		t.Fatalf("expected 2000 output tokens, got %d", call.config.MaxOutputTokens)
	}
	if call.config.ResponseMIMEType != "application/json" {
		t.Fatalf("unexpected mime type %q", call.config.ResponseMIMEType)
	}
}

func TestGeneratorDefaultsModel(t *testing.T) {
	g := newGenerator(&fakeModels{}, Options{}, nil)
	if g.Model() != defaultModel {
		t.Fatalf("expected default model, got %q", g.Model())
	}

	var nilGen *Generator
	if nilGen.Model() != "" {
		t.Fatalf("nil generator must report empty model")
	}
}

func TestGeneratorDoesNotRetry(t *testing.T) {
	models := &fakeModels{err: genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}}
	g := newGenerator(models, Options{Model: "gemini-test"}, zap.NewNop())

	_, err := g.GenerateContent(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected wrapped api error, got %v", err)
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
}

func TestGeneratorEmptyResponse(t *testing.T) {
	for name, resp := range map[string]*genai.GenerateContentResponse{
		"nil response":  nil,
		"no candidates": {},
		"blank text":    textResponse("  ", ""),
		"nil content":   {Candidates: []*genai.Candidate{{}}},
	} {
		t.Run(name, func(t *testing.T) {
			g := newGenerator(&fakeModels{resp: resp}, Options{}, zap.NewNop())
			if _, err := g.GenerateContent(context.Background(), "prompt"); !errors.Is(err, ErrEmptyResponse) {
				t.Fatalf("expected ErrEmptyResponse, got %v", err)
			}
		})
	}
}

func TestGeneratorRejectsEmptyPrompt(t *testing.T) {
	models := &fakeModels{resp: textResponse("x")}
	g := newGenerator(models, Options{}, zap.NewNop())

	if _, err := g.GenerateContent(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if len(models.calls) != 0 {
		t.Fatalf("expected no calls, got %d", len(models.calls))
	}
}

func TestGeneratorRateLimiterHonoursContext(t *testing.T) {
	models := &fakeModels{resp: textResponse("ok")}
	g := newGenerator(models, Options{RequestsPerMinute: 1}, zap.NewNop())

	if _, err := g.GenerateContent(context.Background(), "first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.GenerateContent(ctx, "second"); err == nil {
		t.Fatal("expected limiter wait to fail on cancelled context")
	}
	if len(models.calls) != 1 {
		t.Fatalf("expected second call to be held back, got %d calls", len(models.calls))
	}
}

func TestNewGeneratorValidatesBackend(t *testing.T) {
	ctx := context.Background()

	if _, err := NewGenerator(ctx, Options{Backend: BackendGemini}, nil); err == nil {
		t.Fatal("expected error without api key")
	}
	if _, err := NewGenerator(ctx, Options{Backend: BackendVertex, Project: "p"}, nil); err == nil {
		t.Fatal("expected error without vertex location")
	}
	if _, err := NewGenerator(ctx, Options{Backend: "bedrock", APIKey: "k"}, nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
