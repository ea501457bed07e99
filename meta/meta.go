/*
NAME
  meta.go

DESCRIPTION
  Package meta provides a short lived store of decoded telemetry metadata,
  keyed by stream identifier and polled by downstream consumers.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package meta provides a short lived store of decoded telemetry metadata,
// keyed by stream identifier and polled by downstream consumers.
package meta

import (
	"sort"
	"sync"
	"time"

	"github.com/ausocean/telemetry/klv"
)

// Expiry is how long an entry remains visible after its last write. An
// entry not refreshed within Expiry is treated as absent by all reads.
const Expiry = 2 * time.Second

// StreamIDKey is the property key under which an entry's stream identifier
// is always present.
const StreamIDKey = "streamId"

// Entry is the metadata currently held for one stream: its identifier, a
// string-keyed property mapping (always including StreamIDKey), and the
// decoded metadata context from the most recent write.
type Entry struct {
	StreamID   string
	Properties map[string]string
	Context    klv.Context
}

// entry pairs an Entry with its write time for expiry checks.
type entry struct {
	Entry
	written time.Time
}

// Cache maps stream identifiers to their most recent metadata Entry.
// Writes replace an entry wholesale, so readers never observe a partially
// updated entry. Expired entries are evicted lazily on the next write; no
// background goroutine runs and no operation blocks. All methods are safe
// for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time // Swappable for testing expiry.
}

// NewCache returns a pointer to a new Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]entry), now: time.Now}
}

// Post inserts or wholly replaces the entry for streamID. The props map is
// copied, with the StreamIDKey property set to streamID, so the caller may
// reuse its map. A nil props map is allowed.
func (c *Cache) Post(streamID string, props map[string]string, ctx klv.Context) {
	cp := make(map[string]string, len(props)+1)
	for k, v := range props {
		cp[k] = v
	}
	cp[StreamIDKey] = streamID

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for id, e := range c.entries {
		if now.Sub(e.written) > Expiry {
			delete(c.entries, id)
		}
	}
	c.entries[streamID] = entry{
		Entry:   Entry{StreamID: streamID, Properties: cp, Context: ctx},
		written: now,
	}
}

// GetByStreamID returns the live entry for streamID, reporting false if no
// entry exists or the entry has expired.
func (c *Cache) GetByStreamID(streamID string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[streamID]
	if !ok || c.now().Sub(e.written) > Expiry {
		return Entry{}, false
	}
	return e.Entry, true
}

// All returns all live entries, ordered by stream ID.
func (c *Cache) All() []Entry {
	return c.filter(func(Entry) bool { return true })
}

// WithProperty returns the live entries whose properties contain key.
func (c *Cache) WithProperty(key string) []Entry {
	return c.filter(func(e Entry) bool {
		_, ok := e.Properties[key]
		return ok
	})
}

// WithPropertyEqual returns the live entries whose properties map key to val.
func (c *Cache) WithPropertyEqual(key, val string) []Entry {
	return c.filter(func(e Entry) bool {
		v, ok := e.Properties[key]
		return ok && v == val
	})
}

// filter returns the live entries satisfying keep, ordered by stream ID.
func (c *Cache) filter(keep func(Entry) bool) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	now := c.now()
	var res []Entry
	for _, e := range c.entries {
		if now.Sub(e.written) > Expiry || !keep(e.Entry) {
			continue
		}
		res = append(res, e.Entry)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].StreamID < res[j].StreamID })
	return res
}
