package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
)

type (
	memStore struct {
		cache *bigcache.BigCache
	}
)

// entries stay until cleared
const memLifeWindow = 100 * 365 * 24 * time.Hour

// Memory returns a process local store, mostly useful for tests.
func Memory() (Store, error) {
	cfg := bigcache.DefaultConfig(memLifeWindow)
	cfg.CleanWindow = 0
	cfg.Shards = 16
	cfg.MaxEntriesInWindow = 64
	cfg.Verbose = false
	cache, err := bigcache.NewBigCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("session: unable to create memory store, cause %w", err)
	}
	return &memStore{
		cache: cache,
	}, nil
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	buf, err := m.cache.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return buf, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	return m.cache.Set(key, value)
}

func (m *memStore) Clear(_ context.Context, key string) error {
	err := m.cache.Delete(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil
	}
	return err
}

func (m *memStore) Close() error {
	return m.cache.Close()
}
