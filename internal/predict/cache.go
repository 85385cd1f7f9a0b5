package predict

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/abhisek/lungchat/internal/interview"
)

// Cache remembers labels for answer records already classified.
type Cache interface {
	Get(ctx context.Context, key string) (label string, ok bool, err error)
	Set(ctx context.Context, key, label string) error
}

// RedisCache stores labels as plain strings under prefix+key.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache wraps client. A zero ttl keeps entries forever.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

// OpenRedisCache connects to a redis:// or rediss:// URL.
func OpenRedisCache(rawURL, prefix string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("cache URL: %w", err)
	}
	return NewRedisCache(redis.NewClient(opts), prefix, ttl), nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	label, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return label, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, label string) error {
	return c.client.Set(ctx, c.prefix+key, label, c.ttl).Err()
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

type cachedPredictor struct {
	inner  interview.Predictor
	cache  Cache
	logger *zap.Logger
}

// WithCache answers repeated answer records from cache. Cache failures
// are logged and fall through to p; only successful labels are stored.
func WithCache(p interview.Predictor, cache Cache, logger *zap.Logger) interview.Predictor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedPredictor{inner: p, cache: cache, logger: logger}
}

func (c *cachedPredictor) Predict(ctx context.Context, sub interview.Submission) (string, error) {
	key, err := RecordKey(sub.Record)
	if err != nil {
		return c.inner.Predict(ctx, sub)
	}

	label, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn("prediction cache read", zap.String("session_id", sub.SessionID), zap.Error(err))
	case ok:
		c.logger.Debug("prediction cache hit", zap.String("session_id", sub.SessionID))
		return label, nil
	}

	label, err = c.inner.Predict(ctx, sub)
	if err != nil {
		return "", err
	}
	if err := c.cache.Set(ctx, key, label); err != nil {
		c.logger.Warn("prediction cache write", zap.String("session_id", sub.SessionID), zap.Error(err))
	}
	return label, nil
}

// RecordKey hashes the encoded payload, so records differing only in
// value types (1 versus "1") get different keys.
func RecordKey(rec *interview.AnswerRecord) (string, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
