package service

import (
	"sort"
	"sync"
)

// KeyedMutex serializes operations per key so concurrent read-modify-write
// cycles against the same document cannot interleave. Locks are refcounted
// and released from the map once no goroutine holds or awaits them.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock acquires the lock for key, blocking until it is available.
func (m *KeyedMutex) Lock(key string) {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &keyedLock{}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the lock for key.
func (m *KeyedMutex) Unlock(key string) {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		m.mu.Unlock()
		panic("keyedmutex: unlock of unheld key " + key)
	}
	l.refs--
	if l.refs == 0 {
		delete(m.locks, key)
	}
	m.mu.Unlock()

	l.mu.Unlock()
}

// LockAll acquires the locks for every key in a deterministic order so
// that multi-key operations cannot deadlock each other. Duplicate keys
// are locked once. The returned function releases all acquired locks.
func (m *KeyedMutex) LockAll(keys ...string) func() {
	unique := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, k)
	}
	sort.Strings(unique)

	for _, k := range unique {
		m.Lock(k)
	}
	return func() {
		for i := len(unique) - 1; i >= 0; i-- {
			m.Unlock(unique[i])
		}
	}
}
