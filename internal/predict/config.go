package predict

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/abhisek/lungchat/internal/backoff"
)

// Backends accepted in Config.Backend.
const (
	BackendHTTP = "http"
	BackendLLM  = "llm"
)

// DefaultEndpoint is the hosted prediction service.
const DefaultEndpoint = "https://lung-disease-prediction-api.onrender.com/predict"

// Config selects and tunes the prediction backend.
type Config struct {
	Backend  string
	Endpoint string

	// Timeout bounds a single HTTP attempt. Zero waits indefinitely.
	Timeout time.Duration

	// Retry applies to the HTTP backend. One attempt means no retries.
	Retry backoff.Policy

	// NormalizeGender encodes Male as the string "1" instead of the
	// integer 1 the service historically received.
	NormalizeGender bool

	// CacheURL, when set, points at a Redis server that remembers labels
	// for identical answer records for CacheTTL.
	CacheURL string
	CacheTTL time.Duration
}

// DefaultConfig returns a single untimed attempt against DefaultEndpoint.
func DefaultConfig() Config {
	return Config{
		Backend:  BackendHTTP,
		Endpoint: DefaultEndpoint,
		Retry: backoff.Policy{
			MaxAttempts: 1,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		CacheTTL: 24 * time.Hour,
	}
}

// ConfigFromEnv overlays LUNGCHAT_PREDICTOR, LUNGCHAT_ENDPOINT,
// LUNGCHAT_TIMEOUT, LUNGCHAT_RETRY_ATTEMPTS, LUNGCHAT_NORMALIZE_GENDER,
// LUNGCHAT_CACHE_URL and LUNGCHAT_CACHE_TTL on the defaults.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("LUNGCHAT_PREDICTOR"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("LUNGCHAT_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("LUNGCHAT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("LUNGCHAT_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("LUNGCHAT_RETRY_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("LUNGCHAT_RETRY_ATTEMPTS: %w", err)
		}
		cfg.Retry.MaxAttempts = n
	}
	if v := os.Getenv("LUNGCHAT_NORMALIZE_GENDER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("LUNGCHAT_NORMALIZE_GENDER: %w", err)
		}
		cfg.NormalizeGender = b
	}
	if v := os.Getenv("LUNGCHAT_CACHE_URL"); v != "" {
		cfg.CacheURL = v
	}
	if v := os.Getenv("LUNGCHAT_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("LUNGCHAT_CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = d
	}

	return cfg, nil
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendHTTP:
		u, err := url.Parse(c.Endpoint)
		if err != nil {
			return fmt.Errorf("endpoint: %w", err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("endpoint %q must be an absolute http(s) URL", c.Endpoint)
		}
	case BackendLLM:
	default:
		return fmt.Errorf("unknown predictor backend %q (want %s or %s)", c.Backend, BackendHTTP, BackendLLM)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache TTL must not be negative")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1")
	}
	return nil
}
