package lock

import (
	"sync"
	"testing"
)

func TestMutexMap_LockUnlock(t *testing.T) {
	m := NewMutexMap()

	m.Lock("session1")
	m.Unlock("session1")

	m.Lock("session1")
	m.Unlock("session1")

	if m.Len() != 0 {
		t.Fatalf("expected released keys to be dropped, got %d", m.Len())
	}
}

func TestMutexMap_DifferentKeys(t *testing.T) {
	m := NewMutexMap()
	done := make(chan struct{})

	m.Lock("session1")
	go func() {
		m.Lock("session2")
		m.Unlock("session2")
		close(done)
	}()

	<-done
	m.Unlock("session1")
}

func TestMutexMap_SerializesSameKey(t *testing.T) {
	m := NewMutexMap()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.WithLock("shared", func() { counter++ })
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Fatalf("expected counter=100, got %d", counter)
	}
	if m.Len() != 0 {
		t.Fatalf("expected no retained keys, got %d", m.Len())
	}
}

func TestMutexMap_UnlockUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewMutexMap().Unlock("missing")
}
