package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/screening/internal/ai"
	"github.com/spigell/screening/internal/ai/gemini"
	"github.com/spigell/screening/internal/events"
	"github.com/spigell/screening/internal/interview"
	"github.com/spigell/screening/internal/questionbank"
	"github.com/spigell/screening/internal/secrets"
	"github.com/spigell/screening/internal/store"
)

// openStore connects to the configured database and applies the schema.
func openStore(ctx context.Context, cfg *DatabaseConfig, logger *zap.Logger) (*store.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration is required")
	}

	driver, err := store.ParseDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn, err := secrets.Load(secrets.Source{
		Name:  "database dsn",
		Value: cfg.DSN,
		File:  cfg.DSNFile,
		Env:   "DATABASE_URL",
	})
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, driver, dsn, logger)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("database ready", zap.String("driver", string(driver)))
	return st, nil
}

// newSources returns the question strategies. The bank is always registered;
// the AI strategy only when enabled.
func newSources(ctx context.Context, cfg *AIConfig, logger *zap.Logger) ([]ai.QuestionSource, error) {
	sources := []ai.QuestionSource{questionbank.NewSource()}

	if cfg == nil || !cfg.Enabled {
		logger.Info("ai question strategy disabled")
		return sources, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.ProviderName {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	opts := gemini.Options{
		Backend:           cfg.Gemini.Backend,
		Project:           cfg.Gemini.Project,
		Location:          cfg.Gemini.Location,
		Model:             cfg.Gemini.Model,
		Temperature:       cfg.Gemini.Temperature,
		TopP:              cfg.Gemini.TopP,
		MaxOutputTokens:   cfg.Gemini.MaxOutputTokens,
		RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
	}

	// Vertex authenticates with application default credentials.
	if !strings.EqualFold(opts.Backend, gemini.BackendVertex) {
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}
		opts.APIKey = apiKey
	}

	generator, err := gemini.NewGenerator(ctx, opts, logger)
	if err != nil {
		return nil, fmt.Errorf("building gemini generator: %w", err)
	}

	sources = append(sources, gemini.NewQuestionSource(generator, logger, cfg.Gemini.MaxLogLength))
	logger.Info("ai question strategy enabled", zap.String("model", generator.Model()))
	return sources, nil
}

func newPublisher(cfg *EventsConfig, logger *zap.Logger) (events.Publisher, error) {
	if cfg == nil || strings.TrimSpace(cfg.NATSURL) == "" {
		return events.NewLogPublisher(logger), nil
	}

	publisher, err := events.NewNATSPublisher(cfg.NATSURL, cfg.Subject, cfg.ConnectTimeout, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("publishing completion events to NATS", zap.String("subject", cfg.Subject))
	return publisher, nil
}

// newService assembles the orchestrator with every configured strategy and
// the completion publisher. The caller closes the returned publisher.
func newService(ctx context.Context, config *Config, st *store.Store, logger *zap.Logger) (*interview.Service, events.Publisher, error) {
	sources, err := newSources(ctx, config.AI, logger)
	if err != nil {
		return nil, nil, err
	}

	publisher, err := newPublisher(config.Events, logger)
	if err != nil {
		return nil, nil, err
	}

	strategy := questionbank.SourceName
	if config.Questions != nil && config.Questions.Strategy != "" {
		strategy = config.Questions.Strategy
	}

	svc, err := interview.NewService(st, interview.Options{
		Sources:         sources,
		DefaultStrategy: strategy,
		Publisher:       publisher,
		Logger:          logger,
	})
	if err != nil {
		publisher.Close()
		return nil, nil, err
	}

	return svc, publisher, nil
}

// newCatalogueService is the orchestrator for commands that never generate
// questions or complete interviews.
func newCatalogueService(st *store.Store, logger *zap.Logger) (*interview.Service, error) {
	return interview.NewService(st, interview.Options{
		Sources:         []ai.QuestionSource{questionbank.NewSource()},
		DefaultStrategy: questionbank.SourceName,
		Logger:          logger,
	})
}
