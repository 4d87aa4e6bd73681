package cache

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	gerrors "github.com/matzehuels/groot/pkg/errors"
)

// RedisConfig configures a [RedisCache].
type RedisConfig struct {
	// Addr is host:port, or a redis:// URL carrying credentials and DB.
	Addr     string
	Password string
	DB       int

	// Prefix is prepended to every stored key and bounds [RedisCache.Clear].
	// Defaults to "groot:".
	Prefix string

	// DialTimeout bounds connection setup. Defaults to 5s.
	DialTimeout time.Duration
}

// RedisCache implements Cache on a Redis server, for sharing rendered
// artifacts between server replicas. Transient network failures are retried
// with [RetryWithBackoff].
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to Redis and verifies the connection with PING.
// Connection failures yield NETWORK_ERROR.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "groot:"
	}

	c := &RedisCache{client: redis.NewClient(opts), prefix: prefix}
	err = RetryWithBackoff(ctx, func() error {
		return classify(c.client.Ping(ctx).Err())
	})
	if err != nil {
		c.client.Close()
		return nil, gerrors.Wrap(gerrors.ErrCodeNetwork, err, "connect to redis at %s", opts.Addr)
	}
	return c, nil
}

func redisOptions(cfg RedisConfig) (*redis.Options, error) {
	if cfg.Addr == "" {
		return nil, gerrors.New(gerrors.ErrCodeInvalidInput, "redis address is required")
	}

	var opts *redis.Options
	if u, err := redis.ParseURL(cfg.Addr); err == nil {
		opts = u
	} else {
		opts = &redis.Options{Addr: cfg.Addr}
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	opts.DialTimeout = cfg.DialTimeout
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	return opts, nil
}

// classify marks connection-level failures as retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ne net.Error
	if errors.As(err, &ne) || errors.Is(err, io.EOF) || errors.Is(err, redis.ErrClosed) {
		return Retryable(err)
	}
	return err
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, c.prefix+key).Bytes()
		return classify(err)
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, gerrors.Wrap(gerrors.ErrCodeNetwork, err, "redis get")
	}
	return data, true, nil
}

// Set stores a value in Redis. A zero ttl stores without expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := RetryWithBackoff(ctx, func() error {
		return classify(c.client.Set(ctx, c.prefix+key, data, ttl).Err())
	})
	if err != nil {
		return gerrors.Wrap(gerrors.ErrCodeNetwork, err, "redis set")
	}
	return nil
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	err := RetryWithBackoff(ctx, func() error {
		return classify(c.client.Del(ctx, c.prefix+key).Err())
	})
	if err != nil {
		return gerrors.Wrap(gerrors.ErrCodeNetwork, err, "redis delete")
	}
	return nil
}

// Clear deletes every key under the configured prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, globEscape(c.prefix)+"*", 500).Iterator()
	var batch []string
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := c.client.Del(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 500 {
			if err := flush(); err != nil {
				return gerrors.Wrap(gerrors.ErrCodeNetwork, err, "redis clear")
			}
		}
	}
	if err := iter.Err(); err != nil {
		return gerrors.Wrap(gerrors.ErrCodeNetwork, err, "redis clear")
	}
	if err := flush(); err != nil {
		return gerrors.Wrap(gerrors.ErrCodeNetwork, err, "redis clear")
	}
	return nil
}

// globEscape quotes the glob metacharacters of a SCAN MATCH pattern so s
// matches only itself.
func globEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Close closes the Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var (
	_ Cache   = (*RedisCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
