package constants

import "github.com/google/uuid"

// Redis key layout, one namespace per module.
// Pattern: bookmyseat:{module}:{operation}:{identifier}

const CachePrefix = "bookmyseat"

// Catalog cache keys. Writes invalidate CacheKeyCatalogAll.
const (
	CacheKeyMoviesAll     = CachePrefix + ":catalog:movies:all"
	CacheKeyGenres        = CachePrefix + ":catalog:genres"
	CacheKeyLanguages     = CachePrefix + ":catalog:languages"
	CacheKeyCatalogAll    = CachePrefix + ":catalog:*"
	cacheKeySeatMapPrefix = CachePrefix + ":seats:map:"
)

// BuildSeatMapKey returns the cached seat map key for one showing.
func BuildSeatMapKey(theaterID uuid.UUID) string {
	return cacheKeySeatMapPrefix + theaterID.String()
}
