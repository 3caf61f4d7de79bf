// Package boundary contains render faults to the subtree that raised them.
package boundary

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fallback is rendered in place of a subtree that faulted.
const Fallback = "Something went wrong."

// RenderFunc produces the view of one subtree.
type RenderFunc func() string

// Catcher is the fault containment capability.
type Catcher interface {
	CatchFault(render RenderFunc) string
}

// Fault is one captured render failure.
type Fault struct {
	ID      string
	Subtree string
	Message string
	Value   any
	Stack   string
	At      time.Time
}

// Record is the boundary's state: whether its subtree has failed and the first fault.
type Record struct {
	HasFailed bool
	Fault     *Fault
}

// Reporter receives captured faults. Implementations must not block.
type Reporter interface {
	RecordFault(f Fault)
}

// Boundary is a Catcher for one mounted subtree. It is reset only by replacing
// it with a new Boundary when the subtree remounts.
type Boundary struct {
	name     string
	logger   *slog.Logger
	reporter Reporter
	now      func() time.Time
	record   Record
}

type Option func(*Boundary)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Boundary) {
		if logger != nil {
			b.logger = logger
		}
	}
}

func WithReporter(r Reporter) Option {
	return func(b *Boundary) { b.reporter = r }
}

func WithClock(now func() time.Time) Option {
	return func(b *Boundary) {
		if now != nil {
			b.now = now
		}
	}
}

func New(name string, opts ...Option) *Boundary {
	b := &Boundary{
		name:   name,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Boundary) Name() string { return b.name }

// Record returns a copy of the boundary's fault record.
func (b *Boundary) Record() Record { return b.record }

// CatchFault runs render and returns its output. A panic raised by render is
// recovered, recorded, logged and reported, and Fallback is returned instead.
// After the first fault render is no longer called.
func (b *Boundary) CatchFault(render RenderFunc) (out string) {
	if b.record.HasFailed {
		return Fallback
	}
	if render == nil {
		return ""
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			b.fail(recovered, string(debug.Stack()))
			out = Fallback
		}
	}()
	return render()
}

func (b *Boundary) fail(value any, stack string) {
	f := Fault{
		ID:      uuid.NewString(),
		Subtree: b.name,
		Message: faultMessage(value),
		Value:   value,
		Stack:   strings.TrimSpace(stack),
		At:      b.now().UTC(),
	}
	b.record = Record{HasFailed: true, Fault: &f}
	b.logger.Error("render fault contained",
		"subtree", f.Subtree,
		"fault_id", f.ID,
		"panic", f.Message,
		"stack", f.Stack,
	)
	if b.reporter != nil {
		b.reporter.RecordFault(f)
	}
}

func faultMessage(value any) string {
	switch v := value.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Wrap decorates render so every call goes through c.
func Wrap(c Catcher, render RenderFunc) RenderFunc {
	return func() string { return c.CatchFault(render) }
}
