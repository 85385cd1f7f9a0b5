package predict

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/abhisek/lungchat/internal/backoff"
	"github.com/abhisek/lungchat/internal/interview"
)

type retryPredictor struct {
	inner  interview.Predictor
	policy backoff.Policy
	logger *zap.Logger
}

// WithRetry retries transient failures of p: transport errors, 429 and
// 5xx. With a single attempt configured, p is returned unchanged.
func WithRetry(p interview.Predictor, policy backoff.Policy, logger *zap.Logger) interview.Predictor {
	if policy.Attempts() <= 1 {
		return p
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &retryPredictor{inner: p, policy: policy, logger: logger}
}

func (r *retryPredictor) Predict(ctx context.Context, sub interview.Submission) (string, error) {
	attempts := r.policy.Attempts()
	var lastErr error
	for attempt := range attempts {
		label, err := r.inner.Predict(ctx, sub)
		if err == nil {
			return label, nil
		}
		lastErr = err

		if !Retryable(err) || attempt == attempts-1 {
			return "", err
		}

		wait := r.policy.Delay(attempt)
		r.logger.Warn("retrying prediction",
			zap.String("session_id", sub.SessionID),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		if err := backoff.Sleep(ctx, wait); err != nil {
			return "", err
		}
	}
	return "", lastErr
}

// Retryable reports whether err is transient. Cancellation never is; an
// expired caller deadline is caught by the backoff sleep instead.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var status *ErrStatus
	if errors.As(err, &status) {
		return status.Temporary()
	}
	var unavailable *ErrUnavailable
	return errors.As(err, &unavailable)
}
