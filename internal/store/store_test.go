package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterStartsIdle(t *testing.T) {
	s := New()
	Register[[]product](s, keyProducts)

	got := Select[[]product](s, keyProducts)
	require.True(t, got.IsIdle())
	require.Equal(t, StatusIdle, s.Status(keyProducts))
	require.Equal(t, []Key{keyProducts}, s.Keys())
}

func TestRegisterTwicePanics(t *testing.T) {
	s := New()
	Register[int](s, "k")
	require.Panics(t, func() { Register[int](s, "k") })
}

func TestSelectUnknownKeyIsIdle(t *testing.T) {
	s := New()
	require.True(t, Select[int](s, "missing").IsIdle())
}

func TestSelectWrongTypePanics(t *testing.T) {
	s := New()
	Register[int](s, "k")
	require.Panics(t, func() { Select[string](s, "k") })
}

func TestApplyCommitsAndNotifies(t *testing.T) {
	s := New()
	Register[[]product](s, keyProducts)

	var seen []Key
	unsubscribe := s.Subscribe(func(k Key) { seen = append(seen, k) })

	require.True(t, s.Apply(Requested(keyProducts, 1, 0)))
	ticket, ok := s.InFlight(keyProducts)
	require.True(t, ok)
	require.EqualValues(t, 1, ticket)

	require.True(t, s.Apply(Succeeded(keyProducts, 1, 0, []product{{ID: 1, Name: "Test Product", Price: 10}})))
	_, ok = s.InFlight(keyProducts)
	require.False(t, ok)

	data, ok := Select[[]product](s, keyProducts).Data()
	require.True(t, ok)
	require.Equal(t, "Test Product", data[0].Name)
	require.Equal(t, []Key{keyProducts, keyProducts}, seen)
	require.EqualValues(t, 2, s.Version())

	unsubscribe()
	s.Apply(Reset(keyProducts))
	require.Len(t, seen, 2)
}

func TestApplyIdempotentRequestedDoesNotNotifyButTracksNewestTicket(t *testing.T) {
	s := New()
	Register[int](s, "k")
	s.Apply(Requested("k", 1, 0))

	calls := 0
	s.Subscribe(func(Key) { calls++ })
	require.False(t, s.Apply(Requested("k", 2, 0)))
	require.Zero(t, calls)

	ticket, ok := s.InFlight("k")
	require.True(t, ok)
	require.EqualValues(t, 2, ticket)
}

func TestApplyUnknownKeyIsIgnored(t *testing.T) {
	s := New()
	require.False(t, s.Apply(Requested("nope", 1, 0)))
	require.Zero(t, s.Version())
}

func TestApplyLeavesOtherKeysUnchanged(t *testing.T) {
	s := New()
	Register[int](s, "a")
	Register[int](s, "b")
	s.Apply(Requested("b", 1, 0))
	s.Apply(Succeeded("b", 1, 0, 3))

	s.Apply(Requested("a", 2, 0))
	s.Apply(FailedEvent("a", 2, 0, E(KindTransport, "Network Error")))
	data, ok := Select[int](s, "b").Data()
	require.True(t, ok)
	require.Equal(t, 3, data)
}

func TestAbandonRestoresSettledState(t *testing.T) {
	s := New()
	Register[int](s, "k")
	s.Apply(Requested("k", 1, 0))
	s.Apply(Succeeded("k", 1, 0, 7))
	s.Apply(Requested("k", 2, 0))
	require.True(t, Select[int](s, "k").IsLoading())

	changed := 0
	s.Subscribe(func(Key) { changed++ })
	require.True(t, s.Abandon("k"))
	require.Equal(t, 1, changed)

	data, ok := Select[int](s, "k").Data()
	require.True(t, ok)
	require.Equal(t, 7, data)
	_, inflight := s.InFlight("k")
	require.False(t, inflight)
	require.False(t, s.Abandon("k"), "nothing left to abandon")
}

func TestAbandonFirstFetchGoesIdle(t *testing.T) {
	s := New()
	Register[int](s, "k")
	s.Apply(Requested("k", 1, 0))
	require.True(t, s.Abandon("k"))
	require.True(t, Select[int](s, "k").IsIdle())
}

func TestRetargetMovesInFlightTicket(t *testing.T) {
	s := New()
	Register[int](s, "k")
	s.Apply(Requested("k", 1, 0))
	s.Apply(Requested("k", 2, 0))
	s.Retarget("k", 1)
	ticket, ok := s.InFlight("k")
	require.True(t, ok)
	require.EqualValues(t, 1, ticket)

	s.Retarget("missing", 3)
	_, ok = s.InFlight("missing")
	require.False(t, ok)
}

func TestSelectorDoesNotMutate(t *testing.T) {
	s := New()
	Register[int](s, "k")
	s.Apply(Requested("k", 1, 0))
	before := s.Version()
	for i := 0; i < 3; i++ {
		_ = Select[int](s, "k")
		_ = s.Status("k")
	}
	require.Equal(t, before, s.Version())
}

func TestCauseOf(t *testing.T) {
	fe := E(KindServer, "nope")
	require.Same(t, fe, CauseOf(fmt.Errorf("wrapped: %w", fe)))

	plain := errors.New("boom")
	got := CauseOf(plain)
	require.Equal(t, KindUnknown, got.Kind)
	require.ErrorIs(t, got, plain)
	require.Nil(t, CauseOf(nil))
	require.True(t, IsKind(fe, KindServer))
	require.False(t, IsKind(plain, KindServer))
}
