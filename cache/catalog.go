// Package cache decorates catalog reads with an optional Redis cache.
package cache

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"food-delivery-backend/models"
	"food-delivery-backend/services"
)

// DefaultTTL is used when no positive TTL is configured.
const DefaultTTL = 5 * time.Minute

// Catalog is the catalog service being decorated.
type Catalog interface {
	ListRestaurants(ctx context.Context, q services.RestaurantQuery) ([]models.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
	Menu(ctx context.Context, restaurantID string) ([]models.MenuItem, error)
	CreateRestaurant(ctx context.Context, r models.Restaurant) (*models.Restaurant, error)
	AddMenuItem(ctx context.Context, m models.MenuItem) (*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id string, p models.MenuItemPatch) error
	Seed(ctx context.Context) (services.SeedResult, error)
}

// CachingCatalog caches restaurant listings, restaurant details and menus.
// Every catalog write drops the whole namespace. With a nil client all calls
// go straight to the inner catalog.
type CachingCatalog struct {
	inner     Catalog
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	log       *zap.Logger
}

// NewCachingCatalog wraps inner. A non-positive ttl selects DefaultTTL and an
// empty namespace selects "catalog".
func NewCachingCatalog(rdb *redis.Client, ttl time.Duration, inner Catalog, namespace string, log *zap.Logger) *CachingCatalog {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "catalog"
	}
	return &CachingCatalog{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		log:       log,
	}
}

// ── Reads ──

func (c *CachingCatalog) ListRestaurants(ctx context.Context, q services.RestaurantQuery) ([]models.Restaurant, error) {
	key := c.key("restaurants", q.Q, q.Cuisine, strconv.FormatFloat(q.MinRating, 'g', -1, 64))
	return cached(ctx, c, key, func() ([]models.Restaurant, error) {
		return c.inner.ListRestaurants(ctx, q)
	})
}

func (c *CachingCatalog) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	return cached(ctx, c, c.key("restaurant", id), func() (*models.Restaurant, error) {
		return c.inner.GetRestaurant(ctx, id)
	})
}

func (c *CachingCatalog) Menu(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	return cached(ctx, c, c.key("menu", restaurantID), func() ([]models.MenuItem, error) {
		return c.inner.Menu(ctx, restaurantID)
	})
}

// ── Writes ──

func (c *CachingCatalog) CreateRestaurant(ctx context.Context, r models.Restaurant) (*models.Restaurant, error) {
	out, err := c.inner.CreateRestaurant(ctx, r)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return out, nil
}

func (c *CachingCatalog) AddMenuItem(ctx context.Context, m models.MenuItem) (*models.MenuItem, error) {
	out, err := c.inner.AddMenuItem(ctx, m)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return out, nil
}

func (c *CachingCatalog) UpdateMenuItem(ctx context.Context, id string, p models.MenuItemPatch) error {
	if err := c.inner.UpdateMenuItem(ctx, id, p); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Seed invalidates even on failure, since a partial seed may have written.
func (c *CachingCatalog) Seed(ctx context.Context) (services.SeedResult, error) {
	res, err := c.inner.Seed(ctx)
	c.invalidate(ctx)
	return res, err
}

// cached returns the value stored under key, or loads and stores it. Redis
// failures are logged and never surface to the caller.
func cached[T any](ctx context.Context, c *CachingCatalog, key string, load func() (T, error)) (T, error) {
	if c.rdb == nil {
		return load()
	}

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Corrupted entry.
		_ = c.rdb.Del(ctx, key).Err()
	} else if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}

	out, err := load()
	if err != nil {
		return out, err
	}

	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			c.log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return out, nil
}

// key escapes parts so that distinct inputs never share a key or form a
// SCAN pattern.
func (c *CachingCatalog) key(kind string, parts ...string) string {
	b := strings.Builder{}
	b.WriteString(c.namespace)
	b.WriteByte(':')
	b.WriteString(kind)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(url.QueryEscape(p))
	}
	return b.String()
}

func (c *CachingCatalog) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.deleteByPattern(ctx, c.namespace+":*"); err != nil {
		c.log.Warn("Cache invalidation failed", zap.String("namespace", c.namespace), zap.Error(err))
	}
}

// deleteByPattern deletes all keys matching pattern using SCAN.
func (c *CachingCatalog) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			return nil
		}
	}
}
