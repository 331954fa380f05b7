package worker

import (
	"errors"
	"sync"
	"testing"
)

func TestDoSerializesSameKey(t *testing.T) {
	s := NewSerializer()

	const goroutines = 64
	counter := 0
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			_ = s.Do(7, func() error {
				// unsynchronized on purpose: Do must provide the exclusion
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	if counter != goroutines {
		t.Fatalf("expected %d increments, got %d", goroutines, counter)
	}
}

func TestDoReturnsCallbackError(t *testing.T) {
	s := NewSerializer()
	want := errors.New("boom")
	if err := s.Do(1, func() error { return want }); err != want {
		t.Fatalf("expected callback error, got %v", err)
	}
}

func TestDoReleasesLockEntries(t *testing.T) {
	s := NewSerializer()
	for key := int64(0); key < 10; key++ {
		if err := s.Do(key, func() error { return nil }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	s.mu.Lock()
	remaining := len(s.locks)
	s.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected all lock entries released, %d remain", remaining)
	}
}
