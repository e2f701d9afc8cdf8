// Package cache memoizes dose verdicts. Tier 1 is an in-process LRU, tier 2
// an optional shared store (Redis) guarded by a circuit breaker. A failing
// shared tier degrades to a miss and never fails an evaluation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

// Tier names reported to hit observers
const (
	TierMemory = "memory"
	TierShared = "redis"
)

// ErrCacheUnavailable is returned when the shared tier cannot be reached or
// its breaker is open.
var ErrCacheUnavailable = errors.New("shared cache unavailable")

// SharedStore is the second cache tier. Get reports a miss with found=false
// and a nil error.
type SharedStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

type memoryEntry struct {
	result    *domain.AnalysisResult
	expiresAt time.Time
}

// sharedEntry is the JSON form kept in the shared tier. Signals and
// conflict categories are not part of the result's wire format, so they
// travel alongside it.
type sharedEntry struct {
	Result     *domain.AnalysisResult `json:"result"`
	Signals    domain.Signals         `json:"signals"`
	Categories []domain.Category      `json:"categories"`
	CachedAt   time.Time              `json:"cached_at"`
	ExpiresAt  time.Time              `json:"expires_at"`
}

// VerdictCache implements domain.VerdictCache over the two tiers.
type VerdictCache struct {
	memory  *lru.Cache[string, memoryEntry]
	ttl     time.Duration
	shared  SharedStore
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	onHit   func(tier string)
	now     func() time.Time
	logger  *logrus.Logger
}

var _ domain.VerdictCache = (*VerdictCache)(nil)

// Option configures a VerdictCache
type Option func(*VerdictCache)

// WithSharedStore enables the shared tier.
func WithSharedStore(store SharedStore) Option {
	return func(c *VerdictCache) {
		c.shared = store
	}
}

// WithHitObserver is called with the tier name on every hit.
func WithHitObserver(fn func(tier string)) Option {
	return func(c *VerdictCache) {
		c.onHit = fn
	}
}

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(c *VerdictCache) {
		c.now = now
	}
}

// New creates a verdict cache from the cache configuration
func New(config domain.CacheConfig, logger *logrus.Logger, opts ...Option) (*VerdictCache, error) {
	if config.MaxItems <= 0 {
		return nil, fmt.Errorf("cache max_items must be positive, got %d", config.MaxItems)
	}
	if logger == nil {
		logger = logrus.New()
	}

	memory, err := lru.New[string, memoryEntry](config.MaxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}

	timeout := config.RedisTimeout
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}

	c := &VerdictCache{
		memory:  memory,
		ttl:     config.TTL,
		timeout: timeout,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "verdict-cache",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return c, nil
}

// Get returns a copy of the cached verdict for key.
func (c *VerdictCache) Get(ctx context.Context, key string) (*domain.AnalysisResult, bool) {
	if entry, ok := c.memory.Get(key); ok {
		if c.expired(entry.expiresAt) {
			c.memory.Remove(key)
		} else {
			c.hit(TierMemory)
			return entry.result.Clone(), true
		}
	}

	if c.shared == nil {
		return nil, false
	}

	result, err := c.getShared(ctx, key)
	if err != nil {
		c.logger.WithError(err).Debug("Shared verdict cache lookup failed")
		return nil, false
	}
	if result == nil {
		return nil, false
	}

	c.memory.Add(key, memoryEntry{result: result.Clone(), expiresAt: c.expiry()})
	c.hit(TierShared)
	return result, true
}

// Set stores a copy of result in every tier.
func (c *VerdictCache) Set(ctx context.Context, key string, result *domain.AnalysisResult) {
	if result == nil {
		return
	}
	c.memory.Add(key, memoryEntry{result: result.Clone(), expiresAt: c.expiry()})

	if c.shared == nil {
		return
	}
	if err := c.setShared(ctx, key, result); err != nil {
		c.logger.WithError(err).Warn("Failed to write verdict to shared cache")
	}
}

// Len returns the number of verdicts held in memory.
func (c *VerdictCache) Len() int {
	return c.memory.Len()
}

// Purge drops every in-memory verdict.
func (c *VerdictCache) Purge() {
	c.memory.Purge()
}

// Status summarizes the tiers for readiness reporting.
func (c *VerdictCache) Status(ctx context.Context) map[string]interface{} {
	status := map[string]interface{}{
		"memory_items": c.memory.Len(),
		"shared":       "disabled",
	}
	if c.shared == nil {
		return status
	}

	status["breaker"] = c.breaker.State().String()
	pingCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.shared.Ping(pingCtx); err != nil {
		status["shared"] = "unavailable"
	} else {
		status["shared"] = "ok"
	}
	return status
}

// Close releases the shared tier.
func (c *VerdictCache) Close() error {
	if c.shared == nil {
		return nil
	}
	return c.shared.Close()
}

func (c *VerdictCache) getShared(ctx context.Context, key string) (*domain.AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.breaker.Execute(func() (interface{}, error) {
		data, found, err := c.shared.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !found {
			return []byte(nil), nil
		}
		return data, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	data, _ := raw.([]byte)
	if len(data) == 0 {
		return nil, nil
	}

	var entry sharedEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Result == nil {
		// Corrupted entries are treated as a miss
		return nil, nil
	}
	if c.expired(entry.ExpiresAt) {
		return nil, nil
	}
	entry.Result.Signals = entry.Signals
	if len(entry.Categories) == len(entry.Result.Conflicts) {
		for i := range entry.Result.Conflicts {
			entry.Result.Conflicts[i].Category = entry.Categories[i]
		}
	}
	return entry.Result, nil
}

func (c *VerdictCache) setShared(ctx context.Context, key string, result *domain.AnalysisResult) error {
	payload, err := json.Marshal(sharedEntry{
		Result:     result,
		Signals:    result.Signals,
		Categories: categories(result.Conflicts),
		CachedAt:   c.now(),
		ExpiresAt:  c.expiry(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.shared.Set(ctx, key, payload, c.ttl)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

// expiry returns the zero time when no TTL is configured, which never
// expires.
func (c *VerdictCache) expiry() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(c.ttl)
}

func (c *VerdictCache) expired(at time.Time) bool {
	return !at.IsZero() && c.now().After(at)
}

func categories(conflicts []domain.Conflict) []domain.Category {
	out := make([]domain.Category, len(conflicts))
	for i, conflict := range conflicts {
		out[i] = conflict.Category
	}
	return out
}

func (c *VerdictCache) hit(tier string) {
	if c.onHit != nil {
		c.onHit(tier)
	}
}
