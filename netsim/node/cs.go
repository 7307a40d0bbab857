// SPDX-License-Identifier: GPL-3.0-or-later

package node

import "slices"

// ContentStore is a bounded cache of content names with
// first-in-first-out eviction. Hits do not refresh recency.
//
// Construct using [NewContentStore].
type ContentStore struct {
	// capacity is the maximum number of entries.
	capacity int

	// order contains the names in insertion order.
	order []string

	// entries indexes the cached names.
	entries map[string]struct{}
}

// NewContentStore creates a new [*ContentStore] holding at
// most capacity names. A non-positive capacity caches nothing.
func NewContentStore(capacity int) *ContentStore {
	return &ContentStore{
		capacity: max(capacity, 0),
		order:    make([]string, 0, max(capacity, 0)),
		entries:  make(map[string]struct{}),
	}
}

// Contains returns whether name is cached.
func (cs *ContentStore) Contains(name string) bool {
	_, found := cs.entries[name]
	return found
}

// Insert adds name to the store. When the store is full the
// oldest inserted name is evicted first and returned.
//
// Inserting a name that is already cached does not change
// its position and evicts nothing.
func (cs *ContentStore) Insert(name string) (evicted string, didEvict bool) {
	if cs.capacity <= 0 || cs.Contains(name) {
		return "", false
	}
	if len(cs.order) >= cs.capacity {
		evicted, didEvict = cs.order[0], true
		cs.order = slices.Delete(cs.order, 0, 1)
		delete(cs.entries, evicted)
	}
	cs.order = append(cs.order, name)
	cs.entries[name] = struct{}{}
	return
}

// Len returns the number of cached names.
func (cs *ContentStore) Len() int {
	return len(cs.order)
}

// Cap returns the store capacity.
func (cs *ContentStore) Cap() int {
	return cs.capacity
}

// Names returns a copy of the cached names, oldest first.
func (cs *ContentStore) Names() []string {
	return slices.Clone(cs.order)
}
