package prefs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marketfeed/notifykit/pkg/logger"
)

// CachedStore is a redis read-through cache over another Store. Cache
// failures degrade to the underlying store rather than failing the
// lookup: preference resolution must outlive a cache outage.
type CachedStore struct {
	next   Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// CachedStoreOption configures a CachedStore.
type CachedStoreOption func(*CachedStore)

// WithTTL sets how long cached lookups stay valid. Short TTLs keep the
// outlet-membership snapshot reasonably fresh.
func WithTTL(ttl time.Duration) CachedStoreOption {
	return func(c *CachedStore) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheLogger sets the logger used for cache degradation warnings.
func WithCacheLogger(log *slog.Logger) CachedStoreOption {
	return func(c *CachedStore) {
		if log != nil {
			c.logger = log
		}
	}
}

// NewCachedStore wraps next with a redis read-through cache.
func NewCachedStore(next Store, client *redis.Client, opts ...CachedStoreOption) (*CachedStore, error) {
	if next == nil {
		return nil, errors.New("prefs: underlying store cannot be nil")
	}
	if client == nil {
		return nil, errors.New("prefs: redis client cannot be nil")
	}

	c := &CachedStore{
		next:   next,
		client: client,
		ttl:    30 * time.Second,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *CachedStore) FetchActiveUsersWithSettings(ctx context.Context, userIDs, outletIDs []string, notifType string) ([]UserWithSetting, error) {
	key := cacheKey(userIDs, outletIDs, notifType)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached []UserWithSetting
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "preference cache read failed, falling through",
			logger.EventType(notifType),
			logger.Error(err),
		)
	}

	result, err := c.next.FetchActiveUsersWithSettings(ctx, userIDs, outletIDs, notifType)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(result); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "preference cache write failed",
				logger.EventType(notifType),
				logger.Error(err),
			)
		}
	}

	return result, nil
}

// cacheKey derives a stable key from the recipient sets and type. Ids
// are sorted so argument order does not fragment the cache.
func cacheKey(userIDs, outletIDs []string, notifType string) string {
	users := slices.Clone(userIDs)
	outlets := slices.Clone(outletIDs)
	slices.Sort(users)
	slices.Sort(outlets)

	sum := sha256.Sum256([]byte(strings.Join(users, ",") + "|" + strings.Join(outlets, ",") + "|" + notifType))
	return "prefs:resolve:" + hex.EncodeToString(sum[:16])
}
