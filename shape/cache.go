package shape

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedClassifier memoizes Classify for the most recently seen tokens.
// Results are identical to Classify.
type CachedClassifier struct {
	cache *lru.Cache[string, Tag]
}

var _ Classifier = (*CachedClassifier)(nil)

// NewCachedClassifier returns a classifier that keeps up to size tokens.
func NewCachedClassifier(size int) (*CachedClassifier, error) {
	cache, err := lru.New[string, Tag](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create shape cache of size %d: %w", size, err)
	}
	return &CachedClassifier{cache: cache}, nil
}

func (c *CachedClassifier) Classify(token string) Tag {
	if tag, ok := c.cache.Get(token); ok {
		return tag
	}
	tag := Classify(token)
	c.cache.Add(token, tag)
	return tag
}

// Len returns the number of cached tokens.
func (c *CachedClassifier) Len() int {
	return c.cache.Len()
}
