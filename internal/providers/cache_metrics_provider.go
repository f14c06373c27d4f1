package providers

import "dmrmonitor/internal/structures"

type countingCache struct {
	CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c countingCache) Get(key string) ([]byte, bool) {
	val, ok := c.CacheProviderInterface.Get(key)
	if ok {
		c.metrics.IncCacheHits()
	} else {
		c.metrics.IncCacheMisses()
	}
	return val, ok
}

// NewInstrumentedCacheProvider reports hit and miss counts. A disabled cache
// is returned bare, otherwise every API request would count as a miss.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	cache := NewCacheProvider(conf, logger)
	if _, off := cache.(disabledCache); off {
		return cache
	}
	return countingCache{CacheProviderInterface: cache, metrics: metrics}
}
