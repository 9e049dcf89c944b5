package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taxcore/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// RuleTableCache implements ports.RuleTableCache using Redis. Published
// tables are immutable, so cached entries never go stale; the TTL only
// bounds memory.
type RuleTableCache struct {
	client *goredis.Client
	prefix string
}

// NewRuleTableCache creates a new Redis-backed rule table cache.
func NewRuleTableCache(client *goredis.Client) *RuleTableCache {
	return &RuleTableCache{
		client: client,
		prefix: "ruletable:",
	}
}

// Get retrieves a cached table by tax type and version.
// Returns nil, nil if the key does not exist.
func (c *RuleTableCache) Get(ctx context.Context, taxType domain.TaxType, version int) (*domain.RuleTable, error) {
	val, err := c.client.Get(ctx, c.key(taxType, version)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis rule table get: %w", err)
	}

	table := &domain.RuleTable{}
	if err := json.Unmarshal(val, table); err != nil {
		return nil, fmt.Errorf("unmarshal cached rule table: %w", err)
	}
	return table, nil
}

// Set stores a table in the cache with TTL.
func (c *RuleTableCache) Set(ctx context.Context, table *domain.RuleTable, ttl time.Duration) error {
	val, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshal rule table: %w", err)
	}
	if err := c.client.Set(ctx, c.key(table.TaxType, table.Version), val, ttl).Err(); err != nil {
		return fmt.Errorf("redis rule table set: %w", err)
	}
	return nil
}

func (c *RuleTableCache) key(taxType domain.TaxType, version int) string {
	return fmt.Sprintf("%s%s:v%d", c.prefix, taxType, version)
}
