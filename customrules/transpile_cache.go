package customrules

import (
	"sync"

	"github.com/go-sourcemap/sourcemap"
	"github.com/speakeasy-api/lintperf/hashing"
)

// TranspiledRule holds transpiled JavaScript code and its source map.
type TranspiledRule struct {
	SourceFile string
	Code       string
	SourceMap  *sourcemap.Consumer
}

// TranspileCache caches transpiled rule files by path and content hash, so unchanged files are
// transpiled once per process.
type TranspileCache struct {
	cache sync.Map // map[string]*TranspiledRule
}

// Global transpile cache instance
var globalTranspileCache = &TranspileCache{}

func transpileCacheKey(path string, content []byte) string {
	return path + "@" + hashing.Hash(content)
}

// Get returns the cached result for path with content, if any.
func (c *TranspileCache) Get(path string, content []byte) (*TranspiledRule, bool) {
	cached, ok := c.cache.Load(transpileCacheKey(path, content))
	if !ok {
		return nil, false
	}
	return cached.(*TranspiledRule), true
}

// Put stores a transpiled result for path with content.
func (c *TranspileCache) Put(path string, content []byte, tr *TranspiledRule) {
	c.cache.Store(transpileCacheKey(path, content), tr)
}

// Clear removes every cached result.
func (c *TranspileCache) Clear() {
	c.cache.Range(func(key, _ any) bool {
		c.cache.Delete(key)
		return true
	})
}

// Len returns the number of cached results.
func (c *TranspileCache) Len() int64 {
	var size int64
	c.cache.Range(func(_, _ any) bool {
		size++
		return true
	})
	return size
}

// TranspileCacheStats holds statistics about the global transpile cache.
type TranspileCacheStats struct {
	Size int64
}

// GetTranspileCacheStats returns statistics about the global transpile cache
func GetTranspileCacheStats() TranspileCacheStats {
	return TranspileCacheStats{Size: globalTranspileCache.Len()}
}

// ClearGlobalTranspileCache clears the global transpile cache
func ClearGlobalTranspileCache() {
	globalTranspileCache.Clear()
}
