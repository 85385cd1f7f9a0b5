// Package logging builds the zap logger used for diagnostics.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls the diagnostic logger.
type Config struct {
	Level      string // debug, info, warn, error
	Encoding   string // json or console
	OutputPath string // file path, "stdout" or "stderr"
}

// DefaultConfig logs info and above as console text to stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Encoding: "console", OutputPath: "stderr"}
}

// ConfigFromEnv overlays LUNGCHAT_LOG_LEVEL, LUNGCHAT_LOG_ENCODING and
// LUNGCHAT_LOG_FILE on the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("LUNGCHAT_LOG_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("LUNGCHAT_LOG_ENCODING"); v != "" {
		cfg.Encoding = v
	}
	if v := os.Getenv("LUNGCHAT_LOG_FILE"); v != "" {
		cfg.OutputPath = v
	}
	return cfg
}

// Validate rejects unknown levels and encodings.
func (c Config) Validate() error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(c.Level))); err != nil {
		return fmt.Errorf("log level %q: %w", c.Level, err)
	}
	switch strings.ToLower(c.Encoding) {
	case "json", "console":
	default:
		return fmt.Errorf("log encoding %q: want json or console", c.Encoding)
	}
	return nil
}

// New builds a logger from cfg. File output paths get their parent
// directory created.
func New(cfg Config) (*zap.Logger, error) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "console"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		return nil, err
	}

	out := cfg.OutputPath
	switch out {
	case "":
		out = "stderr"
	case "stdout", "stderr":
	default:
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder

	zc := zap.Config{
		Level:             level,
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          strings.ToLower(cfg.Encoding),
		EncoderConfig:     enc,
		OutputPaths:       []string{out},
		ErrorOutputPaths:  []string{"stderr"},
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// DefaultFilePath is where the full-screen UI logs, since it owns the
// terminal: $XDG_STATE_HOME/lungchat/lungchat.log or
// ~/.local/state/lungchat/lungchat.log.
func DefaultFilePath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "lungchat", "lungchat.log"), nil
}
