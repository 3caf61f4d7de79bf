package store

// Key identifies a slice in the store, for example "marketplace.products".
type Key string

// EventKind tags a lifecycle event.
type EventKind int

const (
	EventRequested EventKind = iota + 1
	EventSucceeded
	EventFailed
	// EventReset returns a slice to idle (logout clears the session this way).
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventRequested:
		return "requested"
	case EventSucceeded:
		return "succeeded"
	case EventFailed:
		return "failed"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Terminal reports whether the kind ends a fetch invocation.
func (k EventKind) Terminal() bool {
	return k == EventSucceeded || k == EventFailed
}

// Event is one lifecycle event scoped to a single slice. Ticket identifies the
// fetch invocation and Lease the controller mount that issued it (zero when the
// fetch is not owned by a controller).
type Event struct {
	Key     Key
	Kind    EventKind
	Ticket  uint64
	Lease   uint64
	Payload any
	Cause   *FetchError
}

func Requested(key Key, ticket, lease uint64) Event {
	return Event{Key: key, Kind: EventRequested, Ticket: ticket, Lease: lease}
}

func Succeeded(key Key, ticket, lease uint64, payload any) Event {
	return Event{Key: key, Kind: EventSucceeded, Ticket: ticket, Lease: lease, Payload: payload}
}

func FailedEvent(key Key, ticket, lease uint64, cause *FetchError) Event {
	return Event{Key: key, Kind: EventFailed, Ticket: ticket, Lease: lease, Cause: cause}
}

func Reset(key Key) Event {
	return Event{Key: key, Kind: EventReset}
}
