package database

import (
	"context"
	"fmt"

	"FitCoach/internal/models"
	lru "github.com/hashicorp/golang-lru/v2"
)

var _ ImageCache = (*LRUImageCache)(nil)

// LRUImageCache is a bounded in-process read-through front for a remote image
// cache. Stored images never change, so entries are never invalidated.
type LRUImageCache struct {
	next  ImageCache
	local *lru.Cache[string, models.GeneratedImage]
}

func NewLRUImageCache(next ImageCache, size int) (*LRUImageCache, error) {
	local, err := lru.New[string, models.GeneratedImage](size)
	if err != nil {
		return nil, fmt.Errorf("database/NewLRUImageCache: %w", err)
	}
	return &LRUImageCache{next: next, local: local}, nil
}

func (c *LRUImageCache) GetByName(ctx context.Context, name string) (models.GeneratedImage, error) {
	if img, ok := c.local.Get(name); ok {
		return img, nil
	}

	img, err := c.next.GetByName(ctx, name)
	if err != nil {
		return models.GeneratedImage{}, err
	}

	c.local.Add(name, img)
	return img, nil
}

func (c *LRUImageCache) Put(ctx context.Context, name string, itemType models.ItemType, url string) (models.GeneratedImage, error) {
	img, err := c.next.Put(ctx, name, itemType, url)
	if err != nil {
		return models.GeneratedImage{}, err
	}

	c.local.Add(name, img)
	return img, nil
}

// Len reports the number of locally held entries.
func (c *LRUImageCache) Len() int { return c.local.Len() }
