// Package store holds the client's process-wide slice state: one tagged-union
// slice per domain key, mutated by Reduce in response to lifecycle events. The
// one exception is Abandon, which rolls a loading slice back to the state
// committed before its fetch was requested.
//
// A Store is owned by the Bubble Tea update loop. It takes no locks; every
// Apply, Select and Subscribe call must happen on that loop.
package store

import (
	"fmt"
	"slices"
)

type entry interface {
	apply(ev Event) (entry, bool)
	status() Status
}

type typed[T any] struct {
	slice Slice[T]
}

func (e typed[T]) apply(ev Event) (entry, bool) {
	next, changed := reduce(e.slice, ev)
	return typed[T]{slice: next}, changed
}

func (e typed[T]) status() Status { return e.slice.status }

// Store is an explicit, injectable state container.
type Store struct {
	slices   map[Key]entry
	settled  map[Key]entry
	inflight map[Key]uint64
	subs     map[int]func(Key)
	nextSub  int
	version  uint64
}

func New() *Store {
	return &Store{
		slices:   map[Key]entry{},
		settled:  map[Key]entry{},
		inflight: map[Key]uint64{},
		subs:     map[int]func(Key){},
	}
}

// Register creates the slice for key in the idle state. Registering the same key
// twice is a wiring bug and panics.
func Register[T any](s *Store, key Key) {
	if _, exists := s.slices[key]; exists {
		panic(fmt.Sprintf("store: slice %q registered twice", key))
	}
	s.slices[key] = typed[T]{slice: Idle[T]()}
}

// Select returns the committed slice for key. Unknown keys read as idle; a key
// registered with a different payload type panics since that is a wiring bug.
func Select[T any](s *Store, key Key) Slice[T] {
	e, ok := s.slices[key]
	if !ok {
		return Idle[T]()
	}
	t, ok := e.(typed[T])
	if !ok {
		var zero T
		panic(fmt.Sprintf("store: slice %q does not hold %T", key, zero))
	}
	return t.slice
}

// Apply runs the reducer of the event's slice and commits the result. It
// reports whether the slice changed. Events for unregistered keys are ignored.
func (s *Store) Apply(ev Event) bool {
	e, ok := s.slices[ev.Key]
	if !ok {
		return false
	}
	switch {
	case ev.Kind == EventRequested:
		s.inflight[ev.Key] = ev.Ticket
	case ev.Kind == EventReset:
		delete(s.inflight, ev.Key)
		delete(s.settled, ev.Key)
	case ev.Kind.Terminal():
		if cur, ok := s.inflight[ev.Key]; ok && cur == ev.Ticket {
			delete(s.inflight, ev.Key)
		}
		delete(s.settled, ev.Key)
	}
	next, changed := e.apply(ev)
	if !changed {
		return false
	}
	if ev.Kind == EventRequested {
		s.settled[ev.Key] = e
	}
	s.slices[ev.Key] = next
	s.version++
	s.notify(ev.Key)
	return true
}

// InFlight returns the ticket of the newest fetch issued for key that has not
// yet completed.
func (s *Store) InFlight(key Key) (uint64, bool) {
	t, ok := s.inflight[key]
	return t, ok
}

// Retarget makes ticket the fetch key waits for. The dispatcher uses it when the
// owner of the current ticket goes away while an older fetch is still wanted.
func (s *Store) Retarget(key Key, ticket uint64) {
	if _, ok := s.slices[key]; ok {
		s.inflight[key] = ticket
	}
}

// Abandon forgets the fetch in flight for key. A loading slice goes back to the
// state committed before that fetch was requested, or to idle when none was
// recorded. It reports whether the slice changed.
func (s *Store) Abandon(key Key) bool {
	delete(s.inflight, key)
	e, ok := s.slices[key]
	if !ok || e.status() != StatusLoading {
		delete(s.settled, key)
		return false
	}
	prev, ok := s.settled[key]
	delete(s.settled, key)
	if !ok {
		prev, _ = e.apply(Reset(key))
	}
	s.slices[key] = prev
	s.version++
	s.notify(key)
	return true
}

// Status returns the status of key without knowing its payload type.
func (s *Store) Status(key Key) Status {
	e, ok := s.slices[key]
	if !ok {
		return StatusIdle
	}
	return e.status()
}

// Registered reports whether key has a slice.
func (s *Store) Registered(key Key) bool {
	_, ok := s.slices[key]
	return ok
}

// Keys lists registered keys in sorted order.
func (s *Store) Keys() []Key {
	out := make([]Key, 0, len(s.slices))
	for k := range s.slices {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Version counts committed changes.
func (s *Store) Version() uint64 { return s.version }

// Subscribe registers fn to be called with the key of every committed change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Key)) func() {
	if fn == nil {
		return func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Store) notify(key Key) {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := s.subs[id]; ok {
			fn(key)
		}
	}
}
