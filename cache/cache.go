// Package cache provides translation caching backends. The default
// MemoryCache lives and dies with the process; the RedisCache is an
// opt-in backend for deployments that want to share one cache between
// runs or workers.
package cache

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns empty string and false
	// if not found or expired.
	Get(key string) (string, bool)

	// Set stores a translation in the cache.
	Set(key string, value string) error
}
