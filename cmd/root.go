package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/screening/internal/logger"
)

const (
	app       = "screening"
	envPrefix = "SCREENING"
)

type Config struct {
	HTTP      *HTTPConfig      `mapstructure:"http"`
	Database  *DatabaseConfig  `mapstructure:"database"`
	Questions *QuestionsConfig `mapstructure:"questions"`
	AI        *AIConfig        `mapstructure:"ai"`
	Events    *EventsConfig    `mapstructure:"events"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

type DatabaseConfig struct {
	Driver  string `mapstructure:"driver"`
	DSN     string `mapstructure:"dsn"`
	DSNFile string `mapstructure:"dsn-file"`
}

type QuestionsConfig struct {
	Strategy string `mapstructure:"strategy"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey            string  `mapstructure:"api-key"`
	APIKeyFile        string  `mapstructure:"api-key-file"`
	Backend           string  `mapstructure:"backend"`
	Project           string  `mapstructure:"project"`
	Location          string  `mapstructure:"location"`
	Model             string  `mapstructure:"model"`
	Temperature       float32 `mapstructure:"temperature"`
	TopP              float32 `mapstructure:"top-p"`
	MaxOutputTokens   int32   `mapstructure:"max-output-tokens"`
	RequestsPerMinute int     `mapstructure:"requests-per-minute"`
	MaxLogLength      int     `mapstructure:"max-log-length"`
}

type EventsConfig struct {
	NATSURL        string        `mapstructure:"nats-url"`
	Subject        string        `mapstructure:"subject"`
	ConnectTimeout time.Duration `mapstructure:"connect-timeout"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "screening runs AI-assisted first-round candidate interviews",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is screening.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

// setDefaults registers every key so that environment overrides reach
// Unmarshal even when the config file omits them.
func setDefaults() {
	defaults := map[string]any{
		"http.addr":             ":8080",
		"http.read-timeout":     15 * time.Second,
		"http.write-timeout":    60 * time.Second,
		"http.shutdown-timeout": 10 * time.Second,

		"database.driver":   "sqlite",
		"database.dsn":      "screening.sqlite",
		"database.dsn-file": "",

		"questions.strategy": "bank",

		"ai.enabled":                    false,
		"ai.provider":                   "gemini",
		"ai.gemini.api-key":             "",
		"ai.gemini.api-key-file":        "",
		"ai.gemini.backend":             "gemini",
		"ai.gemini.project":             "",
		"ai.gemini.location":            "",
		"ai.gemini.model":               "gemini-2.5-flash",
		"ai.gemini.temperature":         0.7,
		"ai.gemini.top-p":               0.9,
		"ai.gemini.max-output-tokens":   2000,
		"ai.gemini.requests-per-minute": 30,
		"ai.gemini.max-log-length":      200,

		"events.nats-url":        "",
		"events.subject":         "interviews.completed",
		"events.connect-timeout": 10 * time.Second,
	}
	for key, value := range defaults {
		viper.SetDefault(key, value)
	}
}

func initConfig() {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit --config must exist and parse; the default one is optional.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

// bootstrap builds the logger and reads the config shared by every command.
func bootstrap() (*zap.Logger, *Config) {
	l, err := logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		l.Fatal("config is required")
	}

	return l, config
}
