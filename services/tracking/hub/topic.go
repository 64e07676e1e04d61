package hub

import "sync"

const subscriberBuffer = 32

// State is a replay-latest topic: a late subscriber immediately receives the
// most recently published value before any future ones. Slow subscribers drop
// values instead of blocking the publisher.
type State[T any] struct {
	mu     sync.RWMutex
	has    bool
	last   T
	subs   map[uint64]chan T
	nextID uint64
}

// NewState creates an empty replay-latest topic.
func NewState[T any]() *State[T] {
	return &State[T]{subs: make(map[uint64]chan T)}
}

// Publish stores the value as the latest and fans it out to all subscribers.
func (s *State[T]) Publish(value T) {
	s.mu.Lock()
	s.last = value
	s.has = true
	for _, ch := range s.subs {
		select {
		case ch <- value:
		default:
			// Drop for this subscriber rather than block the publisher.
		}
	}
	s.mu.Unlock()
}

// Subscribe registers a listener and returns its channel plus a cancel
// function. The last known value, if any, is delivered first.
func (s *State[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	ch := make(chan T, subscriberBuffer)
	if s.has {
		ch <- s.last
	}
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Last returns the most recently published value.
func (s *State[T]) Last() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.has
}

// Feed is an append-only topic: subscribers receive only values published
// after they subscribed, with no historical backfill.
type Feed[T any] struct {
	mu     sync.RWMutex
	items  []T
	subs   map[uint64]chan T
	nextID uint64
}

// NewFeed creates an empty append topic.
func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[uint64]chan T)}
}

// Append records the value and fans it out to current subscribers.
func (f *Feed[T]) Append(value T) {
	f.mu.Lock()
	f.items = append(f.items, value)
	for _, ch := range f.subs {
		select {
		case ch <- value:
		default:
		}
	}
	f.mu.Unlock()
}

// Subscribe registers a listener for new values only.
func (f *Feed[T]) Subscribe() (<-chan T, func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	ch := make(chan T, subscriberBuffer)
	f.subs[id] = ch
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if sub, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(sub)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Items returns a copy of everything appended so far.
func (f *Feed[T]) Items() []T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]T, len(f.items))
	copy(out, f.items)
	return out
}
