package config

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

var (
	// Cache instances for different data types
	SearchCache     *cache.Cache
	GeocodeCache    *cache.Cache
	SuggestionCache *cache.Cache
)

const (
	// Cache durations
	searchCacheDuration     = 5 * time.Minute
	geocodeCacheDuration    = 24 * time.Hour
	suggestionCacheDuration = 1 * time.Hour

	// Cleanup intervals
	searchCleanupInterval     = 10 * time.Minute
	geocodeCleanupInterval    = 48 * time.Hour
	suggestionCleanupInterval = 2 * time.Hour
)

func InitCache() {
	// Initialize separate caches for different data types
	SearchCache = cache.New(searchCacheDuration, searchCleanupInterval)
	GeocodeCache = cache.New(geocodeCacheDuration, geocodeCleanupInterval)
	SuggestionCache = cache.New(suggestionCacheDuration, suggestionCleanupInterval)
}

func ClearAllCaches() {
	SearchCache.Flush()
	GeocodeCache.Flush()
	SuggestionCache.Flush()
}

func GetCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += ":" + fmt.Sprintf("%v", param)
	}
	return key
}
