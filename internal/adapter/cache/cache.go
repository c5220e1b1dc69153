// Package cache stores raw dictionary API responses so that repeated lookups
// of the same word do not hit the upstream API.
package cache

import (
	"context"
	"strings"
)

// Cache is a byte-oriented response cache. A miss is reported with ok=false
// and a nil error; errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// Key builds the cache key for a word looked up in a dictionary, e.g.
// "collegiate:mercury".
func Key(dictionary, word string) string {
	return strings.ToLower(dictionary) + ":" + strings.ToLower(strings.TrimSpace(word))
}
