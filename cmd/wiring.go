package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/lungchat/internal/interview"
	"github.com/abhisek/lungchat/internal/llm"
	"github.com/abhisek/lungchat/internal/logging"
	"github.com/abhisek/lungchat/internal/metrics"
	"github.com/abhisek/lungchat/internal/predict"
	"github.com/abhisek/lungchat/internal/screens/chat"
	"github.com/abhisek/lungchat/internal/store"
)

// session holds everything a command that runs interviews needs.
type session struct {
	store   *store.Store
	logger  *zap.Logger
	metrics *metrics.Metrics
	deps    chat.Deps
	stop    context.CancelFunc
	closers []func() error
}

// Close stops the metrics server, flushes the logger and closes the store.
func (s *session) Close() {
	s.stop()
	for _, c := range s.closers {
		_ = c()
	}
	_ = s.logger.Sync()
	_ = s.store.Close()
}

// newSession wires the logger, questionnaire, store, predictor and
// metrics from env and flags. The TUI owns the terminal, so its logs go to
// a file unless LUNGCHAT_LOG_FILE says otherwise.
func newSession(cmd *cobra.Command, logToFile bool) (*session, error) {
	logger, err := newLogger(cmd, logToFile)
	if err != nil {
		return nil, err
	}

	questions := interview.DefaultQuestions()
	if p, _ := cmd.Flags().GetString("questions"); p != "" {
		questions, err = interview.LoadQuestions(p)
		if err != nil {
			return nil, err
		}
	}

	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := predict.ConfigFromEnv()
	if err != nil {
		st.Close()
		return nil, err
	}
	if ep, _ := cmd.Flags().GetString("endpoint"); ep != "" {
		cfg.Endpoint = ep
	}

	ctx, stop := context.WithCancel(context.Background())

	var provider llm.Provider
	name := predict.BackendHTTP
	if cfg.Backend == predict.BackendLLM {
		provider, err = llm.NewProvider(ctx, llm.ConfigFromEnv(), st.LLMRequests(), logger)
		if err != nil {
			stop()
			st.Close()
			return nil, fmt.Errorf("llm provider: %w", err)
		}
		name = predict.BackendLLM + "/" + provider.ModelID()
	}
	p, err := predict.New(cfg, provider, logger)
	if err != nil {
		stop()
		st.Close()
		return nil, err
	}

	var closers []func() error
	if cfg.CacheURL != "" {
		cache, err := predict.OpenRedisCache(cfg.CacheURL, "lungchat:prediction:"+name+":", cfg.CacheTTL)
		if err != nil {
			stop()
			st.Close()
			return nil, err
		}
		closers = append(closers, cache.Close)
		p = predict.WithCache(p, cache, logger)
	}

	m := metrics.New()
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		go func() {
			if err := m.Serve(ctx, addr, logger); err != nil {
				logger.Error("metrics server", zap.Error(err))
			}
		}()
	}

	logger.Debug("session wired",
		zap.String("predictor", name),
		zap.String("endpoint", cfg.Endpoint),
		zap.Bool("cache", cfg.CacheURL != ""),
		zap.Int("questions", len(questions)),
	)

	return &session{
		store:   st,
		logger:  logger,
		metrics: m,
		stop:    stop,
		closers: closers,
		deps: chat.Deps{
			Questions:     questions,
			Predictor:     m.InstrumentPredictor(p),
			PredictorName: name,
			Rules:         predict.Rules(cfg),
			Assessments:   st.Assessments(),
			Metrics:       m,
			Logger:        logger,
		},
	}, nil
}

func newLogger(cmd *cobra.Command, toFile bool) (*zap.Logger, error) {
	cfg := logging.ConfigFromEnv()
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Level = lvl
	}
	if toFile && os.Getenv("LUNGCHAT_LOG_FILE") == "" {
		p, err := logging.DefaultFilePath()
		if err != nil {
			return nil, err
		}
		cfg.OutputPath = p
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return logger, nil
}
