package tank

import "sync"

// Store is the in-memory owner of the tank state.
// All methods are safe for concurrent use.
type Store struct {
	// mu protects snapshot.
	mu sync.RWMutex
	// snapshot holds the current values.
	snapshot Snapshot
}

// NewStore creates a store seeded with the provided snapshot.
func NewStore(initial Snapshot) *Store {
	return &Store{
		snapshot: initial,
	}
}

// Level returns the fill level of the tank.
func (s *Store) Level(t ID) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.reading(t).Level
}

// SetLevel overwrites the fill level of the tank.
func (s *Store) SetLevel(t ID, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reading(t).Level = value
}

// Temperatures returns the temperature pair of the tank.
func (s *Store) Temperatures(t ID) Temperatures {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.reading(t).Temperatures
}

// SetTemperatures overwrites both temperatures of the tank at once.
func (s *Store) SetTemperatures(t ID, internal, external float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reading(t).Temperatures = Temperatures{
		Internal: internal,
		External: external,
	}
}

// FlowEnabled reports whether liquid flow is enabled.
func (s *Store) FlowEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot.FlowEnabled
}

// SetFlowEnabled overwrites the shared flow flag.
func (s *Store) SetFlowEnabled(value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.FlowEnabled = value
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot
}

// reading returns a pointer to the tank's reading. Callers must hold mu.
func (s *Store) reading(t ID) *Reading {
	if t == Tank2 {
		return &s.snapshot.Tank2
	}

	return &s.snapshot.Tank1
}
