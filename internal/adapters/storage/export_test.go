package storage

// Len reports the number of cached rasters; test-only accessor.
func (c *Cache) Len() int { return c.items.Len() }
