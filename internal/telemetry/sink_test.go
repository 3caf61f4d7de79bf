package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jask/regionhub/internal/boundary"
	"github.com/jask/regionhub/internal/localstore"
	"github.com/jask/regionhub/internal/store"
)

type captured struct {
	events []store.Event
	faults []boundary.Fault
}

func (c *captured) RecordEvent(ev store.Event)   { c.events = append(c.events, ev) }
func (c *captured) RecordFault(f boundary.Fault) { c.faults = append(c.faults, f) }

var fault = boundary.Fault{
	ID:      "f-1",
	Subtree: "community",
	Message: "nil event",
	Stack:   "goroutine 1",
	At:      time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC),
}

func TestMultiFansOut(t *testing.T) {
	a, b := &captured{}, &captured{}
	m := Multi{a, Nop{}, b}
	m.RecordEvent(store.Requested("tourism", 1, 1))
	m.RecordFault(fault)
	require.Len(t, a.events, 1)
	require.Len(t, b.events, 1)
	require.Len(t, a.faults, 1)
	require.Len(t, b.faults, 1)
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	s := LogSink{Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}
	s.RecordEvent(store.FailedEvent("marketplace", 2, 1, store.E(store.KindTransport, "Network Error")))
	s.RecordFault(fault)

	out := buf.String()
	require.Contains(t, out, "slice=marketplace")
	require.Contains(t, out, `cause="Network Error"`)
	require.Contains(t, out, "subtree=community")

	LogSink{}.RecordFault(fault)
}

func TestTraceSinkRecordsErrorSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	s := NewTraceSink(tp)

	s.RecordEvent(store.Requested("tourism", 1, 1))
	s.RecordEvent(store.Succeeded("tourism", 1, 1, nil))
	s.RecordEvent(store.FailedEvent("tourism", 2, 1, store.E(store.KindServer, "Bad Gateway")))
	s.RecordFault(fault)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "slice failed", spans[0].Name())
	require.Equal(t, codes.Error, spans[0].Status().Code)
	require.Equal(t, "Bad Gateway", spans[0].Status().Description)
	require.Equal(t, "render fault", spans[1].Name())
	require.Len(t, spans[1].Events(), 1)
}

func TestJournalPersistsFaults(t *testing.T) {
	db, err := localstore.OpenMigrated(filepath.Join(t.TempDir(), "regionhub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := localstore.NewFaultJournal(db)

	j := NewJournal(repo, nil)
	j.RecordEvent(store.Requested("tourism", 1, 1))
	j.RecordFault(fault)
	j.Close()
	j.Close()

	got, err := repo.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "community", got[0].Subtree)
	require.Equal(t, "nil event", got[0].Message)
}

func TestSetupIsNoopWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), "regionhub-test", "")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestSetupCreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so nothing is exported.
	shutdown, err := Setup(context.Background(), "regionhub-test", "http://192.0.2.1:4318")
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = shutdown(ctx)
}
