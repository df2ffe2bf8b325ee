package geo

import "sync"

// PositionSource provides device coordinates: a one-shot read with a fixed
// fallback, and a continuous watch subscription. Implementations must make
// Watch a graceful no-op when continuous updates are unsupported.
type PositionSource interface {
	// Current returns the latest known position, or FallbackPosition when
	// no position has ever been reported.
	Current() Position

	// Watch registers a callback invoked on every position update and
	// returns a cancel function. Cancelling must stop delivery.
	Watch(fn func(Position)) (cancel func())
}

// ManualSource is a PositionSource fed by explicit Report calls, e.g. from
// device position POSTs. Only the latest position is retained (latest-wins).
type ManualSource struct {
	mu       sync.Mutex
	pos      *Position
	watchers map[int]func(Position)
	nextID   int
}

// NewManualSource creates an empty ManualSource.
func NewManualSource() *ManualSource {
	return &ManualSource{watchers: make(map[int]func(Position))}
}

// Current returns the latest reported position, or FallbackPosition.
func (s *ManualSource) Current() Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos == nil {
		return FallbackPosition
	}
	return *s.pos
}

// Report records a new position and notifies all watchers.
func (s *ManualSource) Report(pos Position) {
	s.mu.Lock()
	s.pos = &pos
	fns := make([]func(Position), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(pos)
	}
}

// Watch registers a callback for future position updates.
func (s *ManualSource) Watch(fn func(Position)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}
