package lang

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedAnalyzer memoizes successful analyses in a bounded LRU cache.
// Errors are never cached. The cache is internally synchronized.
type CachedAnalyzer struct {
	base  Analyzer
	cache *lru.Cache[string, []Parse]
}

// NewCachedAnalyzer wraps base with an LRU cache holding up to size words.
func NewCachedAnalyzer(base Analyzer, size int) (*CachedAnalyzer, error) {
	cache, err := lru.New[string, []Parse](size)
	if err != nil {
		return nil, fmt.Errorf("create analyzer cache: %w", err)
	}
	return &CachedAnalyzer{base: base, cache: cache}, nil
}

func (c *CachedAnalyzer) Parse(word string) ([]Parse, error) {
	if parses, ok := c.cache.Get(word); ok {
		return parses, nil
	}
	parses, err := c.base.Parse(word)
	if err != nil {
		return nil, err
	}
	c.cache.Add(word, parses)
	return parses, nil
}
