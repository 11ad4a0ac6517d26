package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default values applied when the environment leaves a knob unset.
const (
	DefaultListenAddr    = ":8080"
	DefaultMetricsAddr   = ":9090"
	DefaultGraphBaseURL  = "https://graph.microsoft.com/v1.0"
	DefaultHRRecipient   = "hr@company.com"
	DefaultLLMTimeout    = 30 * time.Second
	DefaultGraphTimeout  = 15 * time.Second
	DefaultTurnTimeout   = 60 * time.Second
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultLLMDeployment = "gpt-4"
)

// Config holds the full runtime configuration, populated from the
// environment with optional .env support.
type Config struct {
	// Azure OpenAI oracle.
	LLMEndpoint   string
	LLMAPIKey     string
	LLMDeployment string
	LLMTimeout    time.Duration

	// Microsoft Graph app credentials (client-credentials flow).
	TenantID     string
	ClientID     string
	ClientSecret string

	// Graph gateway.
	GraphBaseURL string
	GraphTimeout time.Duration
	HRRecipient  string

	// Identity attributed to turns originating from the API surface.
	Requester string

	// HTTP surfaces.
	ListenAddr  string
	MetricsAddr string
	TurnTimeout time.Duration

	// Logging.
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		LLMEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		LLMAPIKey:     os.Getenv("AZURE_OPENAI_KEY"),
		LLMDeployment: getEnvString("AZURE_OPENAI_DEPLOYMENT", DefaultLLMDeployment),
		LLMTimeout:    getEnvDuration("LLM_TIMEOUT", DefaultLLMTimeout),

		TenantID:     os.Getenv("AZURE_TENANT_ID"),
		ClientID:     os.Getenv("MICROSOFT_APP_ID"),
		ClientSecret: os.Getenv("MICROSOFT_APP_PASSWORD"),

		GraphBaseURL: getEnvString("GRAPH_BASE_URL", DefaultGraphBaseURL),
		GraphTimeout: getEnvDuration("GRAPH_TIMEOUT", DefaultGraphTimeout),
		HRRecipient:  getEnvString("HR_RECIPIENT", DefaultHRRecipient),

		Requester: os.Getenv("REQUESTER_EMAIL"),

		ListenAddr:  getEnvString("LISTEN_ADDR", DefaultListenAddr),
		MetricsAddr: getEnvString("METRICS_ADDR", DefaultMetricsAddr),
		TurnTimeout: getEnvDuration("TURN_TIMEOUT", DefaultTurnTimeout),

		LogLevel:  getEnvString("LOG_LEVEL", DefaultLogLevel),
		LogFormat: getEnvString("LOG_FORMAT", DefaultLogFormat),
	}
}

// Validate checks that the credentials required to reach both providers are
// present. Addresses and timeouts always have defaults and are not checked.
func (c Config) Validate() error {
	if c.LLMEndpoint == "" {
		return fmt.Errorf("AZURE_OPENAI_ENDPOINT is required")
	}
	if c.LLMAPIKey == "" {
		return fmt.Errorf("AZURE_OPENAI_KEY is required")
	}
	if c.TenantID == "" {
		return fmt.Errorf("AZURE_TENANT_ID is required")
	}
	if c.ClientID == "" {
		return fmt.Errorf("MICROSOFT_APP_ID is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("MICROSOFT_APP_PASSWORD is required")
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// getEnvDuration parses a duration from the environment. Bare integers are
// treated as seconds for compatibility with existing deployments.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
