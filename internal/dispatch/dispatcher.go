// Package dispatch issues asynchronous fetches and turns their outcome into
// lifecycle events for the store.
//
// Fetch commits Requested before it returns and hands back a tea.Cmd whose single
// message is the terminal Succeeded or Failed event. Deliver is the only way a
// terminal event reaches the store: it drops events whose lease was released or
// whose ticket has been superseded by a newer fetch for the same slice.
//
// A superseded event from a live lease is held back rather than dropped. When
// the lease owning the newest ticket is released, the slice falls back to the
// newest fetch still owned by a live lease, and a held event for that fetch is
// delivered at once. With no such fetch left the slice is rolled back.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"runtime/debug"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/jask/regionhub/internal/store"
)

const tracerName = "github.com/jask/regionhub/internal/dispatch"

// Recorder receives every event the dispatcher emits or delivers.
type Recorder interface {
	RecordEvent(ev store.Event)
}

type nopRecorder struct{}

func (nopRecorder) RecordEvent(store.Event) {}

// Dispatcher is owned by the update loop; only the returned commands run elsewhere.
type Dispatcher struct {
	store    *store.Store
	fetcher  Fetcher
	logger   *slog.Logger
	recorder Recorder
	tracer   trace.Tracer
	ctx      context.Context
	timeout  time.Duration
	group    singleflight.Group

	tickets   uint64
	nextLease uint64
	leases    map[uint64]*Lease
	pending   map[store.Key][]*pending
}

// pending is a fetch whose terminal event has not been committed.
type pending struct {
	ticket uint64
	lease  uint64
	held   *store.Event
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.recorder = r
		}
	}
}

// WithContext sets the parent context of every fetch.
func WithContext(ctx context.Context) Option {
	return func(d *Dispatcher) {
		if ctx != nil {
			d.ctx = ctx
		}
	}
}

// WithTimeout bounds each fetch. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = timeout }
}

func New(st *store.Store, fetcher Fetcher, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:    st,
		fetcher:  fetcher,
		logger:   slog.New(slog.DiscardHandler),
		recorder: nopRecorder{},
		tracer:   otel.Tracer(tracerName),
		ctx:      context.Background(),
		leases:   map[uint64]*Lease{},
		pending:  map[store.Key][]*pending{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Store returns the container the dispatcher commits to.
func (d *Dispatcher) Store() *store.Store { return d.store }

// Fetch starts one fetch invocation for res on behalf of lease (nil for fetches
// no controller owns). Requested is applied before Fetch returns; the returned
// command yields exactly one terminal event.
func (d *Dispatcher) Fetch(lease *Lease, res Resource) tea.Cmd {
	d.tickets++
	var leaseID uint64
	if lease != nil {
		leaseID = lease.id
	}
	req := store.Requested(res.Key, d.tickets, leaseID)
	d.store.Apply(req)
	d.pending[res.Key] = append(d.pending[res.Key], &pending{ticket: req.Ticket, lease: leaseID})
	d.recorder.RecordEvent(req)
	d.logger.Debug("fetch requested", "slice", res.Key, "ticket", req.Ticket, "lease", leaseID, "path", res.Path)

	return func() tea.Msg {
		return d.perform(req, res)
	}
}

func (d *Dispatcher) perform(req store.Event, res Resource) (ev store.Event) {
	ctx := d.ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	ctx, span := d.tracer.Start(ctx, "fetch "+string(res.Key), trace.WithAttributes(
		attribute.String("regionhub.slice", string(res.Key)),
		attribute.Int64("regionhub.ticket", int64(req.Ticket)),
		attribute.String("http.request.method", res.Method),
		attribute.String("url.path", res.Path),
	))
	defer span.End()

	defer func() {
		if recovered := recover(); recovered != nil {
			d.logger.Error("fetch panicked",
				"slice", res.Key,
				"ticket", req.Ticket,
				"panic", recovered,
				"stack", string(debug.Stack()),
			)
			cause := store.E(store.KindUnknown, fmt.Sprintf("fetch failed: %v", recovered))
			span.SetStatus(codes.Error, cause.Message)
			ev = store.FailedEvent(req.Key, req.Ticket, req.Lease, cause)
		}
	}()

	if d.fetcher == nil {
		return store.FailedEvent(req.Key, req.Ticket, req.Lease, store.E(store.KindUnknown, "no fetcher configured"))
	}

	payload, err, shared := d.group.Do(res.Identity(), func() (any, error) {
		v, err := d.fetcher.Fetch(ctx, res)
		if err != nil {
			return nil, err
		}
		if res.Then != nil {
			return res.Then(ctx, v)
		}
		return v, nil
	})
	span.SetAttributes(attribute.Bool("regionhub.shared", shared))
	if err != nil {
		cause := store.CauseOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, cause.Message)
		return store.FailedEvent(req.Key, req.Ticket, req.Lease, cause)
	}
	return store.Succeeded(req.Key, req.Ticket, req.Lease, payload)
}

// Deliver commits a terminal event produced by a fetch command. It reports
// whether the event reached the store. Events from released leases are
// discarded; superseded events are held while their lease is live.
func (d *Dispatcher) Deliver(ev store.Event) bool {
	if !ev.Kind.Terminal() {
		applied := d.store.Apply(ev)
		d.recorder.RecordEvent(ev)
		return applied
	}
	if ev.Lease != 0 {
		if _, live := d.leases[ev.Lease]; !live {
			d.forget(ev.Key, ev.Ticket)
			d.logger.Debug("discarding event for released lease", "slice", ev.Key, "ticket", ev.Ticket, "lease", ev.Lease)
			return false
		}
	}
	current, ok := d.store.InFlight(ev.Key)
	if !ok || current != ev.Ticket {
		if p := d.find(ev.Key, ev.Ticket); p != nil && ok && ev.Ticket < current {
			p.held = &ev
			d.logger.Debug("holding superseded event", "slice", ev.Key, "ticket", ev.Ticket, "current", current)
			return false
		}
		d.forget(ev.Key, ev.Ticket)
		d.logger.Debug("discarding superseded event", "slice", ev.Key, "ticket", ev.Ticket, "current", current)
		return false
	}
	d.settle(ev.Key, ev.Ticket)
	d.store.Apply(ev)
	d.recorder.RecordEvent(ev)
	if ev.Kind == store.EventFailed && ev.Cause != nil {
		d.logger.Warn("fetch failed", "slice", ev.Key, "ticket", ev.Ticket, "kind", ev.Cause.Kind, "err", ev.Cause.Message)
	}
	return true
}

// Reset returns key to idle and forgets any fetch in flight for it.
func (d *Dispatcher) Reset(key store.Key) {
	delete(d.pending, key)
	ev := store.Reset(key)
	d.store.Apply(ev)
	d.recorder.RecordEvent(ev)
}

// Seed commits payload for key as if a fetch had just succeeded: it issues a
// ticket, applies Requested and then Succeeded. Used for state known without
// I/O, such as a session restored from local storage.
func (d *Dispatcher) Seed(key store.Key, payload any) {
	delete(d.pending, key)
	d.tickets++
	req := store.Requested(key, d.tickets, 0)
	d.store.Apply(req)
	d.recorder.RecordEvent(req)
	done := store.Succeeded(key, d.tickets, 0, payload)
	d.store.Apply(done)
	d.recorder.RecordEvent(done)
}

func (d *Dispatcher) find(key store.Key, ticket uint64) *pending {
	for _, p := range d.pending[key] {
		if p.ticket == ticket {
			return p
		}
	}
	return nil
}

// forget drops the pending entry for ticket.
func (d *Dispatcher) forget(key store.Key, ticket uint64) {
	d.keep(key, func(p *pending) bool { return p.ticket != ticket })
}

// settle drops ticket and every older entry; their results are stale now.
func (d *Dispatcher) settle(key store.Key, ticket uint64) {
	d.keep(key, func(p *pending) bool { return p.ticket > ticket })
}

func (d *Dispatcher) keep(key store.Key, fn func(*pending) bool) {
	kept := slices.DeleteFunc(d.pending[key], func(p *pending) bool { return !fn(p) })
	if len(kept) == 0 {
		delete(d.pending, key)
		return
	}
	d.pending[key] = kept
}

// abandon forgets the fetches of a released lease. A slice whose newest ticket
// belonged to it waits for the newest remaining fetch instead, or is rolled back
// when none remains.
func (d *Dispatcher) abandon(lease uint64) {
	for _, key := range slices.Collect(maps.Keys(d.pending)) {
		current, inflight := d.store.InFlight(key)
		owned := false
		for _, p := range d.pending[key] {
			if p.lease == lease && inflight && p.ticket == current {
				owned = true
			}
		}
		d.keep(key, func(p *pending) bool { return p.lease != lease })
		if !owned {
			continue
		}
		rest := d.pending[key]
		if len(rest) == 0 {
			if d.store.Abandon(key) {
				d.logger.Debug("fetch abandoned", "slice", key, "ticket", current, "lease", lease)
			}
			continue
		}
		next := rest[len(rest)-1]
		d.store.Retarget(key, next.ticket)
		d.logger.Debug("fetch retargeted", "slice", key, "from", current, "to", next.ticket)
		if next.held != nil {
			ev := *next.held
			next.held = nil
			d.Deliver(ev)
		}
	}
}
