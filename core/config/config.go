package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"neoito.app/leadgen/internal/extract"
)

// Temperature is the sampling temperature used for every completion.
const Temperature = 0.7

type Config struct {
	OTel     OTelConfig
	LLM      LLMConfig
	Prompt   PromptConfig
	Response ResponseConfig
	Env      string
	Port     string
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type LLMConfig struct {
	APIKey      string
	BaseURL     string // Optional: for custom endpoints
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// PromptConfig holds the six conversation templates in the order they are sent.
type PromptConfig struct {
	SystemMessageOne        string
	AIMessageOne            string
	HumanMessageOne         string
	AIMessageTwo            string
	HumanMessageTwo         string
	AIMessagePromptTemplate string
}

type ResponseConfig struct {
	Envelope string // "raw" or "enveloped"
	Section  extract.Section
}

const (
	EnvelopeRaw       = "raw"
	EnvelopeEnveloped = "enveloped"
)

// ConfigurationError reports every required variable that is missing or invalid.
type ConfigurationError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigurationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required environment variables: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid environment variables: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

// Load reads configuration from environment variables once at startup.
// In development it first loads a .env file if one is present.
func Load() (Config, error) {
	if getEnv("LEADGEN_ENV", "development") == "development" {
		_ = godotenv.Load(".env")
	}

	cfg := Config{
		Env:  getEnv("LEADGEN_ENV", "development"),
		Port: getEnv("PORT", "3000"),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "leadgen"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		LLM: LLMConfig{
			APIKey:      getEnv("openAiApiKey", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Model:       getEnv("modelName", ""),
			Temperature: Temperature,
		},
		Prompt: PromptConfig{
			SystemMessageOne:        getEnv("systemMessageOne", ""),
			AIMessageOne:            getEnv("aIMessageOne", ""),
			HumanMessageOne:         getEnv("humanMessageOne", ""),
			AIMessageTwo:            getEnv("aIMessageTwo", ""),
			HumanMessageTwo:         getEnv("humanMessageTwo", ""),
			AIMessagePromptTemplate: getEnv("aIMessagePromptTemplate", ""),
		},
		Response: ResponseConfig{
			Envelope: strings.ToLower(strings.TrimSpace(getEnv("RESPONSE_ENVELOPE", EnvelopeRaw))),
		},
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	cfgErr := &ConfigurationError{}

	timeout, err := getEnvDuration("LLM_TIMEOUT", 60*time.Second)
	if err != nil || timeout <= 0 {
		cfgErr.Invalid = append(cfgErr.Invalid, "LLM_TIMEOUT")
	}
	cfg.LLM.Timeout = timeout

	required := []struct {
		key   string
		value string
	}{
		{"openAiApiKey", cfg.LLM.APIKey},
		{"modelName", cfg.LLM.Model},
		{"systemMessageOne", cfg.Prompt.SystemMessageOne},
		{"aIMessageOne", cfg.Prompt.AIMessageOne},
		{"humanMessageOne", cfg.Prompt.HumanMessageOne},
		{"aIMessageTwo", cfg.Prompt.AIMessageTwo},
		{"humanMessageTwo", cfg.Prompt.HumanMessageTwo},
		{"aIMessagePromptTemplate", cfg.Prompt.AIMessagePromptTemplate},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			cfgErr.Missing = append(cfgErr.Missing, r.key)
		}
	}

	if cfg.Response.Envelope != EnvelopeRaw && cfg.Response.Envelope != EnvelopeEnveloped {
		cfgErr.Invalid = append(cfgErr.Invalid, "RESPONSE_ENVELOPE")
	}
	section, err := extract.ParseSection(getEnv("EXTRACT_SECTION", string(extract.SectionAfter)))
	if err != nil {
		cfgErr.Invalid = append(cfgErr.Invalid, "EXTRACT_SECTION")
	}
	cfg.Response.Section = section

	if len(cfgErr.Missing) > 0 || len(cfgErr.Invalid) > 0 {
		return Config{}, cfgErr
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

// Templates returns the prompt templates in conversation order.
func (c PromptConfig) Templates() [6]string {
	return [6]string{
		c.SystemMessageOne,
		c.AIMessageOne,
		c.HumanMessageOne,
		c.AIMessageTwo,
		c.HumanMessageTwo,
		c.AIMessagePromptTemplate,
	}
}

func (c ResponseConfig) Enveloped() bool {
	return c.Envelope == EnvelopeEnveloped
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
