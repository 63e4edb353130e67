// Package lock provides a keyed mutex used to serialize events per tagging
// session.
package lock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// MutexMap hands out one mutex per key. Entries are dropped once no goroutine
// holds or waits on them, so the map does not grow with expired sessions.
type MutexMap struct {
	mu      sync.Mutex
	mutexes map[string]*entry
}

func NewMutexMap() *MutexMap {
	return &MutexMap{mutexes: make(map[string]*entry)}
}

// Lock blocks until the mutex for key is held.
func (m *MutexMap) Lock(key string) {
	m.mu.Lock()
	e, ok := m.mutexes[key]
	if !ok {
		e = &entry{}
		m.mutexes[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key. Unlocking a key that is not held panics,
// as with sync.Mutex.
func (m *MutexMap) Unlock(key string) {
	m.mu.Lock()
	e, ok := m.mutexes[key]
	if !ok {
		m.mu.Unlock()
		panic("lock: unlock of unlocked key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(m.mutexes, key)
	}
	m.mu.Unlock()

	e.mu.Unlock()
}

// WithLock runs fn while holding the mutex for key.
func (m *MutexMap) WithLock(key string, fn func()) {
	m.Lock(key)
	defer m.Unlock(key)
	fn()
}

// Len reports how many keys are currently held or waited on.
func (m *MutexMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.mutexes)
}
