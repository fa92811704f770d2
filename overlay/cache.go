// Copyright © 2026 Texemoji contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: overlay/cache.go
// Summary: Render cache deduplicating emoji image loads across hosts.

package overlay

import (
	"sync"

	"github.com/framegrace/texemoji/emoji"
)

// Cache maps emoji source identities to shared image handles. One
// Cache is meant to be constructed at application start and passed to
// every host widget, so two widgets showing the same remote emoji
// share a single load. Entries are never evicted on their own; Clear
// exists for long-running sessions that want to drop the working set.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Handle
}

// NewCache creates an empty render cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Handle)}
}

// LookupOrReserve returns the shared handle for src. The boolean is
// true when the entry did not exist and has just been reserved: the
// caller now owns kicking off the load that will populate the handle.
// The reserve is atomic, so concurrent scans cannot double-fetch.
func (c *Cache) LookupOrReserve(src emoji.Source) (*Handle, bool) {
	key := src.Key()
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.entries[key]; ok {
		return h, false
	}
	h := NewHandle(key)
	c.entries[key] = h
	return h, true
}

// Len reports the number of cached (loading or loaded) entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry. Views already bound to a handle keep their
// reference; only future lookups re-reserve.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Handle)
}
