package textatlas

import "github.com/gogpu/textatlas/packer"

// atlasEntry is a recency cache entry. Entries form a doubly-linked list
// ordered by access recency: head is most recently used, tail least.
type atlasEntry struct {
	key Key

	// placement is nil for cached zero-area glyphs, which hold no
	// allocator region.
	placement *Placement

	// region is the allocator region backing placement, or
	// packer.NilAllocID when placement is nil.
	region packer.AllocID

	// prev and next for the LRU doubly-linked list. prev points toward
	// the head (newer), next toward the tail (older).
	prev *atlasEntry
	next *atlasEntry
}

// recencyCache maps glyph identities to their placements, ordered by access
// recency. It backs a single plane and is driven by exactly one goroutine,
// so it carries no locking.
type recencyCache struct {
	entries map[Key]*atlasEntry

	// head is the most recently used entry.
	head *atlasEntry

	// tail is the least recently used entry.
	tail *atlasEntry

	count int
}

func newRecencyCache() *recencyCache {
	return &recencyCache{
		entries: make(map[Key]*atlasEntry),
	}
}

// get returns the entry for key, promoting it to most recently used.
func (c *recencyCache) get(key Key) (*atlasEntry, bool) {
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(entry)
	return entry, true
}

// insert records key as the most recently used entry. The key must not be
// present; first insertion counts as an access.
func (c *recencyCache) insert(key Key, placement *Placement, region packer.AllocID) *atlasEntry {
	entry := &atlasEntry{
		key:       key,
		placement: placement,
		region:    region,
	}
	c.entries[key] = entry
	c.addToFront(entry)
	c.count++
	return entry
}

// oldest returns the least recently used entry, or nil if the cache is
// empty. Eviction scans walk from here toward the head via prev.
func (c *recencyCache) oldest() *atlasEntry {
	return c.tail
}

// removeEntry unlinks an entry and deletes it from the map.
func (c *recencyCache) removeEntry(entry *atlasEntry) {
	delete(c.entries, entry.key)
	c.remove(entry)
	c.count--
}

// clear drops every entry.
func (c *recencyCache) clear() {
	clear(c.entries)
	c.head = nil
	c.tail = nil
	c.count = 0
}

func (c *recencyCache) len() int {
	return c.count
}

// addToFront adds an entry to the front of the LRU list.
func (c *recencyCache) addToFront(entry *atlasEntry) {
	entry.prev = nil
	entry.next = c.head

	if c.head != nil {
		c.head.prev = entry
	}
	c.head = entry

	if c.tail == nil {
		c.tail = entry
	}
}

// moveToFront moves an entry to the front of the LRU list.
func (c *recencyCache) moveToFront(entry *atlasEntry) {
	if entry == c.head {
		return
	}

	c.remove(entry)
	c.addToFront(entry)
}

// remove unlinks an entry from the LRU list (does not delete from map).
func (c *recencyCache) remove(entry *atlasEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		c.head = entry.next
	}

	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		c.tail = entry.prev
	}

	entry.prev = nil
	entry.next = nil
}

// inUseSet tracks identities referenced during the current preparation
// pass. Members are exempt from eviction until the next trim.
type inUseSet map[Key]struct{}

func (s inUseSet) add(key Key)      { s[key] = struct{}{} }
func (s inUseSet) has(key Key) bool { _, ok := s[key]; return ok }
func (s inUseSet) clear()           { clear(s) }
