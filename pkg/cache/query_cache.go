package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
)

// DefaultTTL is the staleness window for cached list queries
const DefaultTTL = 30 * time.Second

// QueryCache caches list query results keyed by logical resource.
// Keys have the form <resource>:list:<filterKey>.
type QueryCache struct {
	cache   Cache
	ttl     time.Duration
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewQueryCache creates a QueryCache; a zero ttl selects DefaultTTL
func NewQueryCache(c Cache, ttl time.Duration, logger *logging.Logger, m *metrics.Metrics) *QueryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &QueryCache{cache: c, ttl: ttl, logger: logger, metrics: m}
}

// ListKey builds the cache key for a filtered list of resource
func ListKey(resource, filterKey string) string {
	return fmt.Sprintf("%s:list:%s", resource, filterKey)
}

// GetList loads a cached list into dest and reports whether it was a hit
func (q *QueryCache) GetList(ctx context.Context, resource, filterKey string, dest interface{}) bool {
	if q == nil {
		return false
	}
	err := GetJSON(ctx, q.cache, ListKey(resource, filterKey), dest)
	hit := err == nil
	if q.metrics != nil {
		q.metrics.RecordCacheLookup(resource, hit)
	}
	return hit
}

// SetList stores a list result; failures are logged and otherwise ignored
func (q *QueryCache) SetList(ctx context.Context, resource, filterKey string, value interface{}) {
	if q == nil {
		return
	}
	if err := SetJSON(ctx, q.cache, ListKey(resource, filterKey), value, q.ttl); err != nil {
		q.logger.Warn("Failed to cache list", "resource", resource, "error", err)
	}
}

// Invalidate drops every cached entry for resource
func (q *QueryCache) Invalidate(ctx context.Context, resources ...string) {
	if q == nil {
		return
	}
	for _, resource := range resources {
		if err := q.cache.DeleteByPattern(ctx, resource+":*"); err != nil {
			q.logger.Warn("Failed to invalidate cache", "resource", resource, "error", err)
			continue
		}
		if q.metrics != nil {
			q.metrics.RecordCacheInvalidation(resource)
		}
	}
}
