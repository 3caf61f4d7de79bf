package store

import "fmt"

// Reduce is the slice transition function. It is pure: the same arguments always
// produce the same result and nothing outside the returned value changes.
//
//	idle/ready/error + Requested -> loading
//	loading + Requested          -> unchanged
//	any + Succeeded(p)           -> ready(p)
//	any + Failed(c)              -> error(c)
//	any + Reset                  -> idle
//
// Events arriving in an unexpected status are applied by the same table rather
// than rejected.
func Reduce[T any](prev Slice[T], ev Event) Slice[T] {
	next, _ := reduce(prev, ev)
	return next
}

func reduce[T any](prev Slice[T], ev Event) (Slice[T], bool) {
	switch ev.Kind {
	case EventRequested:
		if prev.status == StatusLoading {
			return prev, false
		}
		return Loading[T](), true
	case EventSucceeded:
		if ev.Payload == nil {
			var zero T
			return Ready(zero), true
		}
		data, ok := ev.Payload.(T)
		if !ok {
			var zero T
			return Failed[T](E(KindDecode, fmt.Sprintf("unexpected payload %T, want %T", ev.Payload, zero))), true
		}
		return Ready(data), true
	case EventFailed:
		return Failed[T](ev.Cause), true
	case EventReset:
		if prev.status == StatusIdle {
			return prev, false
		}
		return Idle[T](), true
	default:
		return prev, false
	}
}
