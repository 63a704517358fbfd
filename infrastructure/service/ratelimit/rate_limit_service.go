package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/campusdesk/students/application/port/inbound"
)

const keyPrefix = "students:ratelimit:"

// RateLimitConfig configures the fixed-window limiter
type RateLimitConfig struct {
	Enabled  bool
	RedisURL string
}

// redisRateLimitService counts hits per key in Redis. Each window is a key
// that expires when the window ends.
type redisRateLimitService struct {
	redisClient *redis.Client
	logger      *logrus.Logger
}

// NewRateLimitService connects to Redis, or returns an allow-all limiter when
// rate limiting is disabled.
func NewRateLimitService(config RateLimitConfig, logger *logrus.Logger) (inbound.RateLimitService, error) {
	if !config.Enabled {
		logger.Info("Rate limiting disabled")
		return NewNoopRateLimitService(), nil
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisClient := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.WithField("redis_addr", opt.Addr).Info("Rate limiting service initialized")

	return NewRedisRateLimitService(redisClient, logger), nil
}

func NewRedisRateLimitService(client *redis.Client, logger *logrus.Logger) inbound.RateLimitService {
	return &redisRateLimitService{
		redisClient: client,
		logger:      logger,
	}
}

// Allow increments the counter for key and compares it with limit. The
// window starts on the first hit.
func (s *redisRateLimitService) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	redisKey := keyPrefix + key

	pipeline := s.redisClient.TxPipeline()
	incrCmd := pipeline.Incr(ctx, redisKey)
	ttlCmd := pipeline.PTTL(ctx, redisKey)

	if _, err := pipeline.Exec(ctx); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to increment rate limit counter")
		return true, 0, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	count := incrCmd.Val()
	remaining := ttlCmd.Val()

	// a negative TTL means the key was just created or lost its expiry
	if remaining < 0 {
		if err := s.redisClient.PExpire(ctx, redisKey, window).Err(); err != nil {
			s.logger.WithContext(ctx).WithError(err).Error("Failed to set rate limit window")
			return true, 0, fmt.Errorf("failed to set rate limit window: %w", err)
		}
		remaining = window
	}

	allowed := count <= int64(limit)

	s.logger.WithContext(ctx).WithFields(logrus.Fields{
		"key":     key,
		"count":   count,
		"limit":   limit,
		"allowed": allowed,
	}).Debug("Rate limit check")

	if allowed {
		return true, 0, nil
	}
	return false, remaining, nil
}

type noopRateLimitService struct{}

// NewNoopRateLimitService returns a limiter that allows every request
func NewNoopRateLimitService() inbound.RateLimitService {
	return noopRateLimitService{}
}

func (noopRateLimitService) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	return true, 0, nil
}
