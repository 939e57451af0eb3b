package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sitecms/sitecms-backend/pkg/config"
	"github.com/sitecms/sitecms-backend/pkg/logger"
)

const recordKeyPrefix = "sitecms:idempotency"

var errNotInitialized = errors.New("redis client not initialized")

// IdempotencyStore keeps replayable create responses keyed by request scope
// and client supplied key.
type IdempotencyStore interface {
	Lookup(ctx context.Context, scope, key string) ([]byte, bool, error)
	Remember(ctx context.Context, scope, key string, record []byte, ttl time.Duration) (bool, error)
}

// Client is the redis backed IdempotencyStore. It also answers readiness pings.
type Client struct {
	rdb *redis.Client
}

// New builds a pooled client from cfg and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, logger.Fields{"addr": opts.Addr, "db": opts.DB}), "redis.connected")
	}
	return &Client{rdb: rdb}, nil
}

// Lookup returns the record stored for scope and key. A missing record is
// reported with found=false and a nil error.
func (c *Client) Lookup(ctx context.Context, scope, key string) ([]byte, bool, error) {
	if c == nil || c.rdb == nil {
		return nil, false, errNotInitialized
	}
	raw, err := c.rdb.Get(ctx, recordKey(scope, key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("lookup idempotency record: %w", err)
	}
	return raw, true, nil
}

// Remember stores record unless another request already claimed the key.
// stored is false when an earlier record wins.
func (c *Client) Remember(ctx context.Context, scope, key string, record []byte, ttl time.Duration) (bool, error) {
	if c == nil || c.rdb == nil {
		return false, errNotInitialized
	}
	stored, err := c.rdb.SetNX(ctx, recordKey(scope, key), record, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("store idempotency record: %w", err)
	}
	return stored, nil
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return errNotInitialized
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// recordKey renders sitecms:idempotency:<scope>:<key>, skipping blank parts.
func recordKey(scope, key string) string {
	var b strings.Builder
	b.WriteString(recordKeyPrefix)
	for _, part := range [...]string{scope, key} {
		if part = strings.TrimSpace(part); part != "" {
			b.WriteByte(':')
			b.WriteString(part)
		}
	}
	return b.String()
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if !cfg.Enabled() {
		return nil, errors.New("redis url or address is required")
	}

	opts := &redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB}
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		if parsed.DB == 0 {
			parsed.DB = cfg.DB
		}
		opts = parsed
	}

	opts.PoolSize = firstPositive(opts.PoolSize, cfg.PoolSize)
	opts.MinIdleConns = firstPositive(opts.MinIdleConns, cfg.MinIdleConns)
	opts.DialTimeout = firstPositive(opts.DialTimeout, cfg.DialTimeout)
	opts.ReadTimeout = firstPositive(opts.ReadTimeout, cfg.ReadTimeout)
	opts.WriteTimeout = firstPositive(opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func firstPositive[T int | time.Duration](values ...T) T {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	var zero T
	return zero
}
