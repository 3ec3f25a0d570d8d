package cms

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
)

// Cache holds successful response bodies for the revalidation window. It
// stores bytes only; every reader decodes its own copy.
type Cache struct {
	store datastore.Datastore
	now   func() time.Time
}

type cacheEntry struct {
	FetchedAt time.Time `json:"fetched_at"`
	Body      []byte    `json:"body"`
}

// NewCache wraps store, or an in-memory map datastore when store is nil.
func NewCache(store datastore.Datastore) *Cache {
	if store == nil {
		store = dssync.MutexWrap(datastore.NewMapDatastore())
	}
	return &Cache{store: store, now: time.Now}
}

// Get returns the body cached for rawURL if it is younger than maxAge.
func (c *Cache) Get(ctx context.Context, rawURL string, maxAge time.Duration) ([]byte, bool) {
	if c == nil || maxAge <= 0 {
		return nil, false
	}

	data, err := c.store.Get(ctx, cacheKey(rawURL))
	if err != nil {
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	if c.now().Sub(entry.FetchedAt) >= maxAge {
		_ = c.store.Delete(ctx, cacheKey(rawURL))
		return nil, false
	}

	return entry.Body, true
}

// Put records body as the latest successful response for rawURL.
func (c *Cache) Put(ctx context.Context, rawURL string, body []byte) {
	if c == nil {
		return
	}

	data, err := json.Marshal(cacheEntry{FetchedAt: c.now(), Body: body})
	if err != nil {
		return
	}
	_ = c.store.Put(ctx, cacheKey(rawURL), data)
}

func cacheKey(rawURL string) datastore.Key {
	sum := sha256.Sum256([]byte(rawURL))
	return datastore.KeyWithNamespaces([]string{"cms", hex.EncodeToString(sum[:])})
}
