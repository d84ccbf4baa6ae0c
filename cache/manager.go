package cache

import (
	"github.com/speakeasy-api/lintperf/customrules"
)

// ClearAllCaches clears all global caches in the system.
// This currently covers the custom rule transpile cache.
//
// This function is thread-safe and can be called from multiple goroutines.
func ClearAllCaches() {
	ClearTranspileCache()
}

// ClearTranspileCache clears the global transpile cache.
// This cache stores esbuild output and source maps of custom rule files, keyed by path and
// content hash, so unchanged rule files are transpiled once per process.
func ClearTranspileCache() {
	customrules.ClearGlobalTranspileCache()
}

// CacheStats holds statistics about all global caches
type CacheStats struct {
	TranspileCacheSize int64
}

// GetAllCacheStats returns statistics about all global caches in the system
func GetAllCacheStats() CacheStats {
	return CacheStats{
		TranspileCacheSize: customrules.GetTranspileCacheStats().Size,
	}
}
