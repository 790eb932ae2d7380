// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and LUMEN_* environment variables on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":6005".
	Addr string `koanf:"addr"`

	// MongoURI enables the MongoDB stores; empty keeps everything in memory.
	MongoURI      string `koanf:"mongo_uri"`
	MongoDatabase string `koanf:"mongo_database"`

	// JWTSecret signs login tokens. Empty means a random per-process secret.
	JWTSecret       string `koanf:"jwt_secret"`
	TokenTTLMinutes int    `koanf:"token_ttl_minutes"`

	// RequireAuth guards /generate and /translate with a bearer token.
	RequireAuth bool `koanf:"require_auth"`

	GeminiAPIKey string `koanf:"gemini_api_key"`
	GeminiModel  string `koanf:"gemini_model"`

	SarvamAPIKey   string `koanf:"sarvam_api_key"`
	SarvamBaseURL  string `koanf:"sarvam_base_url"`
	TTSSpeaker     string `koanf:"tts_speaker"`
	TTSModel       string `koanf:"tts_model"`
	TranslateModel string `koanf:"translate_model"`

	// DefaultLanguage is the language generated text is assumed to be in.
	DefaultLanguage string `koanf:"default_language"`

	// VendorTimeoutMS bounds each outbound vendor call.
	VendorTimeoutMS int `koanf:"vendor_timeout_ms"`

	// MaxLoanAmount is the eligible amount at a perfect score.
	MaxLoanAmount int `koanf:"max_loan_amount"`

	// ArchiveQueueSize bounds the in-memory transcript archive queue.
	ArchiveQueueSize int `koanf:"archive_queue_size"`

	// ArchiveWorkerCount sets the number of archive workers.
	ArchiveWorkerCount int `koanf:"archive_worker_count"`

	// MetricsEnabled switches Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":6005",
		MongoDatabase:      "lumen",
		TokenTTLMinutes:    60,
		GeminiModel:        "gemini-1.5-flash",
		SarvamBaseURL:      "https://api.sarvam.ai",
		TTSSpeaker:         "arvind",
		TTSModel:           "bulbul:v1",
		TranslateModel:     "mayura:v1",
		DefaultLanguage:    "en-IN",
		VendorTimeoutMS:    15_000,
		MaxLoanAmount:      50_000,
		ArchiveQueueSize:   1_000,
		ArchiveWorkerCount: 2,
		MetricsEnabled:     true,
	}
}

// VendorTimeout returns VendorTimeoutMS as a duration.
func (c *Config) VendorTimeout() time.Duration {
	return time.Duration(c.VendorTimeoutMS) * time.Millisecond
}

// TokenTTL returns TokenTTLMinutes as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}
