package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/helpdesk-admin/internal/domain"
)

const policyKeyPrefix = "policy:profile:"

// PolicyCache keeps stored token-lifetime policies in Redis so the
// issuance hot path does not hit Postgres on every login. A nil cache is
// valid and disables caching.
type PolicyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPolicyCache builds a cache over the shared Redis client.
func NewPolicyCache(client *redis.Client, ttl time.Duration) *PolicyCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PolicyCache{client: client, ttl: ttl}
}

// Get returns the cached policy for the profile, or nil on miss or any
// Redis failure. Cache failures never fail the read path.
func (c *PolicyCache) Get(ctx context.Context, profile domain.Profile) *domain.TokenLifetimePolicy {
	if c == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, policyKey(profile)).Bytes()
	if err != nil {
		return nil
	}
	var policy domain.TokenLifetimePolicy
	if err := json.Unmarshal(raw, &policy); err != nil {
		return nil
	}
	return &policy
}

// Set stores the policy under its profile key.
func (c *PolicyCache) Set(ctx context.Context, policy *domain.TokenLifetimePolicy) {
	if c == nil || policy == nil {
		return
	}
	raw, err := json.Marshal(policy)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, policyKey(policy.Profile), raw, c.ttl).Err()
}

// Invalidate drops the cached policy for the profile after a write.
func (c *PolicyCache) Invalidate(ctx context.Context, profile domain.Profile) {
	if c == nil {
		return
	}
	_ = c.client.Del(ctx, policyKey(profile)).Err()
}

func policyKey(profile domain.Profile) string {
	return fmt.Sprintf("%s%d", policyKeyPrefix, profile.Code())
}
