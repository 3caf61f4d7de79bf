// Package telemetry receives lifecycle events and contained render faults.
// Every sink is fire-and-forget: recording never blocks the update loop and
// never fails it.
package telemetry

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jask/regionhub/internal/boundary"
	"github.com/jask/regionhub/internal/localstore"
	"github.com/jask/regionhub/internal/store"
)

// Sink is the telemetry capability handed to the dispatcher and boundaries.
type Sink interface {
	RecordEvent(ev store.Event)
	RecordFault(f boundary.Fault)
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordEvent(store.Event)    {}
func (Nop) RecordFault(boundary.Fault) {}

// Multi fans out to every sink in order.
type Multi []Sink

func (m Multi) RecordEvent(ev store.Event) {
	for _, s := range m {
		s.RecordEvent(ev)
	}
}

func (m Multi) RecordFault(f boundary.Fault) {
	for _, s := range m {
		s.RecordFault(f)
	}
}

// LogSink writes events at debug and faults at error.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) RecordEvent(ev store.Event) {
	if s.Logger == nil {
		return
	}
	attrs := []any{"slice", ev.Key, "kind", ev.Kind.String(), "ticket", ev.Ticket}
	if ev.Cause != nil {
		attrs = append(attrs, "cause", ev.Cause.Message)
	}
	s.Logger.Debug("slice event", attrs...)
}

func (s LogSink) RecordFault(f boundary.Fault) {
	if s.Logger == nil {
		return
	}
	s.Logger.Error("render fault", "subtree", f.Subtree, "fault_id", f.ID, "panic", f.Message)
}

// TraceSink turns failed fetches and render faults into error spans.
type TraceSink struct {
	tracer trace.Tracer
}

func NewTraceSink(tp trace.TracerProvider) TraceSink {
	return TraceSink{tracer: tp.Tracer("github.com/jask/regionhub/internal/telemetry")}
}

func (s TraceSink) RecordEvent(ev store.Event) {
	if ev.Kind != store.EventFailed {
		return
	}
	_, span := s.tracer.Start(context.Background(), "slice failed", trace.WithAttributes(
		attribute.String("regionhub.slice", string(ev.Key)),
		attribute.Int64("regionhub.ticket", int64(ev.Ticket)),
	))
	defer span.End()
	msg := "unknown error"
	if ev.Cause != nil {
		msg = ev.Cause.Message
		span.SetAttributes(attribute.String("regionhub.error_kind", string(ev.Cause.Kind)))
	}
	span.SetStatus(codes.Error, msg)
}

func (s TraceSink) RecordFault(f boundary.Fault) {
	_, span := s.tracer.Start(context.Background(), "render fault", trace.WithTimestamp(f.At), trace.WithAttributes(
		attribute.String("regionhub.subtree", f.Subtree),
		attribute.String("regionhub.fault_id", f.ID),
	))
	defer span.End()
	span.AddEvent("panic", trace.WithAttributes(
		attribute.String("exception.message", f.Message),
		attribute.String("exception.stacktrace", f.Stack),
	))
	span.SetStatus(codes.Error, f.Message)
}

// Journal persists faults to local storage on a background goroutine. Faults
// arriving while the buffer is full are dropped and logged.
type Journal struct {
	repo   *localstore.FaultJournal
	logger *slog.Logger
	ch     chan boundary.Fault
	wg     sync.WaitGroup
	once   sync.Once
}

func NewJournal(repo *localstore.FaultJournal, logger *slog.Logger) *Journal {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	j := &Journal{repo: repo, logger: logger, ch: make(chan boundary.Fault, 64)}
	j.wg.Add(1)
	go j.run()
	return j
}

func (j *Journal) run() {
	defer j.wg.Done()
	for f := range j.ch {
		err := j.repo.Insert(context.Background(), localstore.FaultEntry{
			ID:         f.ID,
			Subtree:    f.Subtree,
			Message:    f.Message,
			Stack:      f.Stack,
			OccurredAt: f.At,
		})
		if err != nil {
			j.logger.Warn("fault journal write failed", "fault_id", f.ID, "err", err)
		}
	}
}

func (j *Journal) RecordEvent(store.Event) {}

func (j *Journal) RecordFault(f boundary.Fault) {
	select {
	case j.ch <- f:
	default:
		j.logger.Warn("fault journal full, dropping fault", "fault_id", f.ID)
	}
}

// Close drains pending faults. Recording after Close panics.
func (j *Journal) Close() {
	j.once.Do(func() { close(j.ch) })
	j.wg.Wait()
}
