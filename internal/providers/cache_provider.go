package providers

import (
	"strconv"
	"time"

	"github.com/coocood/freecache"

	"dmrmonitor/internal/structures"
)

type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// VersionKey names a response rendered from one state version. A new
// version never reads an older entry.
func VersionKey(name string, version uint64) string {
	return name + "@" + strconv.FormatUint(version, 10)
}

// ResponseCache keeps encoded API responses in freecache. Entries outlive
// their version by at most two refresh periods.
type ResponseCache struct {
	store *freecache.Cache
	ttl   int
}

func responseTTL(frequency time.Duration) int {
	return max(int((2 * frequency).Seconds()), 1)
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Response cache disabled")
		return disabledCache{}
	}

	ttl := responseTTL(conf.Global.Frequency)
	logger.Infof(TypeApp, "Response cache: %dMB, entries live %ds", conf.Cache.Size, ttl)
	return &ResponseCache{
		store: freecache.NewCache(conf.Cache.Size << 20),
		ttl:   ttl,
	}
}

func (c *ResponseCache) Get(key string) ([]byte, bool) {
	val, err := c.store.Get([]byte(key))
	return val, err == nil
}

func (c *ResponseCache) Set(key string, value []byte) {
	_ = c.store.Set([]byte(key), value, c.ttl)
}

type disabledCache struct{}

func (disabledCache) Get(string) ([]byte, bool) { return nil, false }
func (disabledCache) Set(string, []byte)        {}
