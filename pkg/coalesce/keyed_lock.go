package coalesce

import "sync"

// keyedLock serializes work per string key. The scheduler exposes a
// plain get/add/update surface, so without per-key serialization two
// concurrent sends for the same (type, key) could both observe "absent"
// and double-create, or overwrite each other's merge.
type keyedLock struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLock() *keyedLock {
	return &keyedLock{locks: make(map[string]*lockEntry)}
}

// lock acquires the mutex for key and returns its release function.
// Entries are reference-counted and removed once unused, so the map does
// not grow with the key space.
func (k *keyedLock) lock(key string) func() {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
