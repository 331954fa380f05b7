package worker

import "sync"

// Serializer hands out per-key locks so that turns against the same
// conversation run one at a time while distinct conversations proceed in
// parallel. The current mode is derived from the tail of the stored log, so
// interleaved writes to one conversation would corrupt it.
type Serializer struct {
	mu    sync.Mutex
	locks map[int64]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewSerializer() *Serializer {
	return &Serializer{locks: make(map[int64]*lockEntry)}
}

// Do runs fn while holding the lock for key and returns fn's error.
func (s *Serializer) Do(key int64, fn func() error) error {
	s.mu.Lock()
	entry, ok := s.locks[key]
	if !ok {
		entry = &lockEntry{}
		s.locks[key] = entry
	}
	entry.refs++
	s.mu.Unlock()

	entry.mu.Lock()
	err := fn()
	entry.mu.Unlock()

	s.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(s.locks, key)
	}
	s.mu.Unlock()

	return err
}
