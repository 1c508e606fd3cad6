package storage

import (
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/firecast/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Cache keeps recently fetched rasters in memory and collapses concurrent fetches of one address.
type Cache struct {
	next  ports.RasterStore
	items *lru.Cache[string, []byte]
	group singleflight.Group
}

var _ ports.RasterStore = (*Cache)(nil)

// NewCache wraps next with an LRU of size entries.
func NewCache(next ports.RasterStore, size int) (*Cache, error) {
	if size <= 0 {
		size = domain.DefaultCacheSize
	}
	items, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create raster cache"), "size", size)
	}
	return &Cache{next: next, items: items}, nil
}

// Exists answers from the cache when possible. Absence is never cached.
func (c *Cache) Exists(ctx context.Context, address string) bool {
	if c.items.Contains(address) {
		return true
	}
	return c.next.Exists(ctx, address)
}

// Fetch returns cached bytes or fetches them once for all concurrent callers.
// The shared fetch outlives a cancelled caller; each caller waits on its own ctx.
func (c *Cache) Fetch(ctx context.Context, address string) ([]byte, error) {
	if data, ok := c.items.Get(address); ok {
		return data, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(address, func() (any, error) {
		data, err := c.next.Fetch(shared, address)
		if err != nil {
			return nil, err
		}
		c.items.Add(address, data)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, zerr.With(errors.Join(domain.ErrRasterFetch, ctx.Err()), "address", address)
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}
