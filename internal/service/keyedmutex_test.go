package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	m := NewKeyedMutex()

	// Simulate read-modify-write cycles that would lose updates without
	// serialization.
	value := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Lock("k")
			defer m.Unlock("k")
			read := value
			time.Sleep(time.Microsecond)
			value = read + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, value)
}

func TestKeyedMutex_IndependentKeysDoNotBlock(t *testing.T) {
	m := NewKeyedMutex()
	m.Lock("a")
	defer m.Unlock("a")

	done := make(chan struct{})
	go func() {
		m.Lock("b")
		m.Unlock("b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on independent key blocked")
	}
}

func TestLockAll_DeduplicatesKeys(t *testing.T) {
	m := NewKeyedMutex()

	unlock := m.LockAll("a", "b", "a")
	unlock()

	// All locks released: a fresh LockAll must not block.
	done := make(chan struct{})
	go func() {
		unlock := m.LockAll("a", "b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("locks were not released")
	}
}

func TestLockAll_OrderInsensitive(t *testing.T) {
	m := NewKeyedMutex()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := m.LockAll("a", "b")
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := m.LockAll("b", "a")
			unlock()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("cross-ordered LockAll deadlocked")
	}
}
