package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/payalnyahorobets-create/ppynlnya/internal/config"
	"github.com/payalnyahorobets-create/ppynlnya/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	abcReportKeyPrefix = "reports:abc"
	reportScanBatch    = 100
)

// ReportCache caches the classification report keyed by state version, so a
// re-read between imports never recomputes. Any import bumps the version and
// the stale entry simply ages out.
type ReportCache interface {
	GetAbc(ctx context.Context, version uint64) (domain.AbcReport, bool, error)
	SetAbc(ctx context.Context, version uint64, report domain.AbcReport) error
	InvalidateAll(ctx context.Context) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

// NewReportCache builds a Redis-backed cache, or a no-op one when caching is
// disabled in config.
func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReportCache{client: client, ttl: ttl}, nil
}

// NewNoopReportCache returns a cache that never hits.
func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func (c *redisReportCache) GetAbc(ctx context.Context, version uint64) (domain.AbcReport, bool, error) {
	key := abcReportKey(version)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return domain.AbcReport{}, false, nil
	}
	if err != nil {
		return domain.AbcReport{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	var report domain.AbcReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return domain.AbcReport{}, false, fmt.Errorf("decode abc report cache: %w", err)
	}
	return report, true, nil
}

func (c *redisReportCache) SetAbc(ctx context.Context, version uint64, report domain.AbcReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode abc report cache: %w", err)
	}
	if err := c.client.Set(ctx, abcReportKey(version), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, abcReportKeyPrefix, reportScanBatch)
}

func abcReportKey(version uint64) string {
	return fmt.Sprintf("%s:%d", abcReportKeyPrefix, version)
}

func (noopReportCache) GetAbc(ctx context.Context, version uint64) (domain.AbcReport, bool, error) {
	return domain.AbcReport{}, false, nil
}

func (noopReportCache) SetAbc(ctx context.Context, version uint64, report domain.AbcReport) error {
	return nil
}

func (noopReportCache) InvalidateAll(ctx context.Context) error {
	return nil
}
