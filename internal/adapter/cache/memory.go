package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/heartmarshall/myvocab-backend/internal/metrics"
)

// Memory is an in-process LRU cache with a per-entry TTL.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemory creates a Memory cache holding at most size entries for ttl each.
// A zero ttl keeps entries until they are evicted.
func NewMemory(size int, ttl time.Duration) *Memory {
	return &Memory{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.lru.Get(key)
	metrics.RecordCacheLookup("memory", ok)
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.lru.Add(key, value)
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int { return m.lru.Len() }
