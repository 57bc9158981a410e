package app

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/rs/zerolog/log"

	"github.com/mohamine831/cupid-nuitee/internal/adapters/observability"
	"github.com/mohamine831/cupid-nuitee/internal/domain"
)

// Cache namespaces. A write clears all of them: a single property update can
// reorder paginated listings through rating/review-count changes, so we trade
// precision for correctness.
const (
	NSProperties   = "properties"
	NSHotels       = "hotels"
	NSReviews      = "reviews"
	NSTranslations = "translations"
)

var AllNamespaces = []string{NSProperties, NSHotels, NSReviews, NSTranslations}

/********** key builders (shared by every read path) **********/

func KeyHotel(id int64) string              { return fmt.Sprintf("hotel_%d", id) }
func KeyPage(page, size int) string         { return fmt.Sprintf("page_%d_%d", page, size) }
func KeySearch(name, city string) string    { return fmt.Sprintf("search_%s_%s", name, city) }
func KeySearchName(name string) string      { return "search_name_" + name }
func KeyHotelTop(id int64, n int) string    { return fmt.Sprintf("hotel_%d_top_%d", id, n) }
func KeyHotelRecent(id int64, n int) string { return fmt.Sprintf("hotel_%d_recent_%d", id, n) }
func KeyHotelPage(id int64, page, size int) string {
	return fmt.Sprintf("hotel_%d_page_%d_%d", id, page, size)
}
func KeyHotelLang(id int64, lang string) string { return fmt.Sprintf("hotel_%d_lang_%s", id, lang) }
func KeyHotelRecentTr(id int64) string          { return fmt.Sprintf("hotel_%d_recent", id) }

/********** cache layer **********/

// Cache is the namespaced read-through layer in front of the repository.
// Values are JSON-encoded into the backing store; store errors degrade to
// misses rather than failing reads.
type Cache struct {
	store domain.CacheStore
}

func NewCache(store domain.CacheStore) *Cache { return &Cache{store: store} }

func (c *Cache) Get(ctx context.Context, ns, key string, dst any) bool {
	b, ok, err := c.store.Get(ctx, ns, key)
	if err != nil {
		log.Warn().Err(err).Str("namespace", ns).Str("key", key).Msg("cache get failed")
		observability.ObserveCache(ns, "miss")
		return false
	}
	if !ok {
		observability.ObserveCache(ns, "miss")
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		log.Warn().Err(err).Str("namespace", ns).Str("key", key).Msg("cache decode failed")
		observability.ObserveCache(ns, "miss")
		return false
	}
	observability.ObserveCache(ns, "hit")
	return true
}

func (c *Cache) Put(ctx context.Context, ns, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("namespace", ns).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := c.store.Set(ctx, ns, key, b); err != nil {
		log.Warn().Err(err).Str("namespace", ns).Str("key", key).Msg("cache set failed")
		return
	}
	observability.ObserveCache(ns, "set")
}

func (c *Cache) Evict(ctx context.Context, ns, key string) {
	if err := c.store.Del(ctx, ns, key); err != nil {
		log.Warn().Err(err).Str("namespace", ns).Str("key", key).Msg("cache evict failed")
		return
	}
	observability.ObserveCache(ns, "del")
}

func (c *Cache) Clear(ctx context.Context, ns string) {
	if err := c.store.Clear(ctx, ns); err != nil {
		log.Warn().Err(err).Str("namespace", ns).Msg("cache clear failed")
		return
	}
	observability.ObserveCache(ns, "clear")
}

func (c *Cache) ClearAll(ctx context.Context, namespaces ...string) {
	for _, ns := range namespaces {
		c.Clear(ctx, ns)
	}
}

// Status reports per-namespace entry counts, for the cache admin surface.
func (c *Cache) Status(ctx context.Context) map[string]int {
	out := make(map[string]int, len(AllNamespaces))
	for _, ns := range AllNamespaces {
		keys, err := c.store.Keys(ctx, ns)
		if err != nil {
			log.Warn().Err(err).Str("namespace", ns).Msg("cache keys failed")
			continue
		}
		out[ns] = len(keys)
	}
	return out
}

// GetOrLoad looks the key up and on a miss invokes the loader, caching a
// non-nil result. A loader failure or nil result surfaces as a miss; it is
// never cached and never propagated.
func GetOrLoad[T any](ctx context.Context, c *Cache, ns, key string, loader func(context.Context) (T, error)) (T, bool) {
	var v T
	if c.Get(ctx, ns, key, &v) {
		return v, true
	}
	v, err := loader(ctx)
	if err != nil {
		log.Warn().Err(err).Str("namespace", ns).Str("key", key).Msg("cache loader failed")
		var zero T
		return zero, false
	}
	if isNil(v) {
		var zero T
		return zero, false
	}
	c.Put(ctx, ns, key, v)
	return v, true
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
