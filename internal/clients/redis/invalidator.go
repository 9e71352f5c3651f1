package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pagecraft/doctree-backend/internal/doctree"
	"github.com/pagecraft/doctree-backend/internal/logger"
)

// CacheInvalidator signals the rendering collaborator that a document's
// generated CSS is stale. Fire-and-observe: callers get a boolean, never
// an error to unwind.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, documentID int) bool
	Close() error
}

type cacheInvalidator struct {
	log     *logger.Logger
	rdb     *goredis.Client
	prefix  string
	channel string
}

func NewCacheInvalidator(log *logger.Logger, mode doctree.BuilderMode) (CacheInvalidator, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	prefix := mode.KeyPrefix()
	return &cacheInvalidator{
		log:     log.With("service", "RedisCacheInvalidator"),
		rdb:     rdb,
		prefix:  prefix,
		channel: prefix + ".invalidate",
	}, nil
}

func (c *cacheInvalidator) Invalidate(ctx context.Context, documentID int) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	key := fmt.Sprintf("%s:css:%d", c.prefix, documentID)
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.log.Warn("Cache key delete failed", "key", key, "error", err)
		return false
	}
	if err := c.rdb.Publish(ctx, c.channel, documentID).Err(); err != nil {
		c.log.Warn("Invalidation publish failed", "channel", c.channel, "document_id", documentID, "error", err)
		return false
	}
	return true
}

func (c *cacheInvalidator) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
