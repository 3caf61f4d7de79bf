package store

// Status is the lifecycle phase of one slice.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Slice is the state of one domain slice: Idle, Loading, Ready(T) or Error(cause).
// Fields are unexported so data and cause can only be populated through the
// constructors, which keep them consistent with the status.
type Slice[T any] struct {
	status Status
	data   T
	err    *FetchError
}

func Idle[T any]() Slice[T] { return Slice[T]{status: StatusIdle} }

func Loading[T any]() Slice[T] { return Slice[T]{status: StatusLoading} }

func Ready[T any](data T) Slice[T] { return Slice[T]{status: StatusReady, data: data} }

// Failed builds an error slice. A nil cause is replaced with an unknown error so
// an error slice always carries a cause.
func Failed[T any](cause *FetchError) Slice[T] {
	if cause == nil {
		cause = E(KindUnknown, "unknown error")
	}
	return Slice[T]{status: StatusError, err: cause}
}

func (s Slice[T]) Status() Status { return s.status }

// Data returns the payload and true only when the slice is ready.
func (s Slice[T]) Data() (T, bool) {
	if s.status != StatusReady {
		var zero T
		return zero, false
	}
	return s.data, true
}

// Err returns the cause when the slice is in the error state, nil otherwise.
func (s Slice[T]) Err() *FetchError {
	if s.status != StatusError {
		return nil
	}
	return s.err
}

func (s Slice[T]) IsIdle() bool    { return s.status == StatusIdle }
func (s Slice[T]) IsLoading() bool { return s.status == StatusLoading }
func (s Slice[T]) IsReady() bool   { return s.status == StatusReady }
func (s Slice[T]) IsError() bool   { return s.status == StatusError }
