// Package cache memoizes run reports in Redis. Correctness never depends
// on it: the pipeline is deterministic, so a cache entry is only a way to
// skip recomputation when the same snapshot bytes arrive with the same
// configuration. Keys therefore cover the input content hash and every
// option that can change the output.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/vendor-otif/backend-go/internal/config"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/domain"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/otif"
)

const (
	resultKeyPrefix  = "otif:result"
	scanBatchSize    = 100
	defaultResultTTL = 5 * time.Minute
)

type ResultCache interface {
	GetReport(ctx context.Context, key string) (*domain.RunReport, bool, error)
	SetReport(ctx context.Context, key string, report *domain.RunReport) error
	InvalidateAll(ctx context.Context) error
}

type redisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopResultCache struct{}

func NewResultCache(cfg config.CacheConfig) (ResultCache, error) {
	if !cfg.Enabled {
		return &noopResultCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.ResultTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultResultTTL
	}

	return &redisResultCache{client: client, ttl: ttl}, nil
}

func NewNoopResultCache() ResultCache {
	return &noopResultCache{}
}

func (c *redisResultCache) GetReport(ctx context.Context, key string) (*domain.RunReport, bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var report domain.RunReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, false, fmt.Errorf("decode run report cache: %w", err)
	}

	return &report, true, nil
}

func (c *redisResultCache) SetReport(ctx context.Context, key string, report *domain.RunReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode run report cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisResultCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, resultKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return nil
}

func (n *noopResultCache) GetReport(ctx context.Context, key string) (*domain.RunReport, bool, error) {
	return nil, false, nil
}

func (n *noopResultCache) SetReport(ctx context.Context, key string, report *domain.RunReport) error {
	return nil
}

func (n *noopResultCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}

	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// BuildResultKey derives the cache key from the snapshot content and every
// option affecting the output, including the effective rule set and the
// contents of the category reference data. Map and slice options are
// canonicalized by sorting so equal configurations always hash identically.
func BuildResultKey(content []byte, opts otif.Options) string {
	contentHash := sha1.Sum(content)

	rules := otif.DefaultRuleSet()
	if opts.Rules != nil {
		rules = *opts.Rules
	}
	refFingerprint := ""
	if opts.CategoryLookup != nil {
		refFingerprint = opts.CategoryLookup.Fingerprint()
	}

	parts := []string{
		"content=" + hex.EncodeToString(contentHash[:]),
		fmt.Sprintf("year=%d", opts.Year),
		fmt.Sprintf("unknown_lt=%d", opts.UnknownLeadTime),
		fmt.Sprintf("top=%d", opts.TopVendors),
		"rules=" + rules.Fingerprint(),
		"refdata=" + refFingerprint,
	}

	overrides := make([]string, 0, len(opts.LeadTimeOverrides))
	for matType, days := range opts.LeadTimeOverrides {
		overrides = append(overrides, fmt.Sprintf("%s=%d", strings.ToUpper(matType), days))
	}
	sort.Strings(overrides)
	parts = append(parts, "overrides="+strings.Join(overrides, ";"))

	included := make([]string, 0, len(opts.IncludedMatTypes))
	for _, matType := range opts.IncludedMatTypes {
		included = append(included, strings.ToUpper(matType))
	}
	sort.Strings(included)
	parts = append(parts, "mat_types="+strings.Join(included, ";"))

	hash := sha1.Sum([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s:%s", resultKeyPrefix, hex.EncodeToString(hash[:]))
}
