package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LLM provider identifiers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderBedrock   = "bedrock"
	ProviderOllama    = "ollama"
)

// Config holds all configuration values.
type Config struct {
	// LLM providers. The evaluator must run on a different provider
	// than the generator so scores are not self-reinforcing.
	GeneratorProvider string
	GeneratorModel    string
	EvaluatorProvider string
	EvaluatorModel    string
	AnthropicAPIKey   string
	OpenAIAPIKey      string
	OllamaHost        string

	// Budget
	BudgetUSD   float64
	PricingFile string

	// Loop detection
	LoopThreshold  float64
	LoopWindowSize int

	// SurrealDB audit trail (optional — empty URL disables persistence)
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		GeneratorProvider: getEnv("IDEAFORGE_GENERATOR_PROVIDER", ProviderAnthropic),
		GeneratorModel:    getEnv("IDEAFORGE_GENERATOR_MODEL", "claude-sonnet-4-20250514"),
		EvaluatorProvider: getEnv("IDEAFORGE_EVALUATOR_PROVIDER", ProviderOpenAI),
		EvaluatorModel:    getEnv("IDEAFORGE_EVALUATOR_MODEL", "gpt-4o-mini"),
		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OllamaHost:        getEnv("OLLAMA_HOST", "http://localhost:11434"),

		BudgetUSD:   getEnvFloat("IDEAFORGE_BUDGET_USD", 15.0),
		PricingFile: getEnv("IDEAFORGE_PRICING_FILE", ""),

		LoopThreshold:  getEnvFloat("IDEAFORGE_LOOP_THRESHOLD", 0.85),
		LoopWindowSize: getEnvInt("IDEAFORGE_LOOP_WINDOW", 3),

		SurrealDBURL:       getEnv("SURREALDB_URL", ""),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "ideaforge"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "audit"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LogFile:  getEnv("IDEAFORGE_LOG_FILE", "/tmp/ideaforge.log"),
		LogLevel: parseLogLevel(getEnv("IDEAFORGE_LOG_LEVEL", "INFO")),
	}
}

// Pricing overrides the built-in model pricing table. Prices are
// USD per million tokens.
type Pricing struct {
	BudgetUSD float64                `yaml:"budget_usd"`
	Models    map[string]PricingPair `yaml:"models"`
	Default   *PricingPair           `yaml:"default"`
}

// PricingPair is an (input, output) price pair for one model.
type PricingPair struct {
	Input  float64 `yaml:"input"`
	Output float64 `yaml:"output"`
}

// LoadPricing parses a YAML pricing file.
func LoadPricing(path string) (*Pricing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pricing file: %w", err)
	}
	var p Pricing
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse pricing file: %w", err)
	}
	return &p, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
