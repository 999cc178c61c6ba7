package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/farhandwi/dots/internal/domain/event"
)

// mockLogger implements Logger for testing
type mockLogger struct {
	mu      sync.Mutex
	infos   []string
	errors  []string
	entries []map[string]interface{}
}

func (m *mockLogger) record(level, msg string, keysAndValues []interface{}) {
	entry := map[string]interface{}{"msg": msg, "level": level}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		entry[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	m.entries = append(m.entries, entry)
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
	m.record("info", msg, keysAndValues)
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
	m.record("error", msg, keysAndValues)
}

func (m *mockLogger) ErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.errors)
}

func (m *mockLogger) HasInfo(msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, info := range m.infos {
		if info == msg {
			return true
		}
	}
	return false
}

func newEvent(t event.Type) *event.Event {
	return event.New(t, "DOTS-20240302-abcdef12", "alice@example.com", time.Now(), nil)
}

func TestSubscribeAndDispatch(t *testing.T) {
	t.Run("runs handlers in registration order", func(t *testing.T) {
		d := NewDispatcher()
		var order []string

		d.Subscribe(event.TypeStatusChanged, "first", func(ctx context.Context, evt *event.Event) error {
			order = append(order, "first")
			return nil
		})
		d.Subscribe(event.TypeStatusChanged, "second", func(ctx context.Context, evt *event.Event) error {
			order = append(order, "second")
			return nil
		})

		if err := d.Dispatch(context.Background(), newEvent(event.TypeStatusChanged)); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}
		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("ignores other event types", func(t *testing.T) {
		d := NewDispatcher()
		called := false
		d.Subscribe(event.TypeTransactionCreated, "created", func(ctx context.Context, evt *event.Event) error {
			called = true
			return nil
		})

		if err := d.Dispatch(context.Background(), newEvent(event.TypeAttachmentDeleted)); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}
		if called {
			t.Error("handler called for an unrelated event type")
		}
	})

	t.Run("logs registration", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))
		d.Subscribe(event.TypeStatusChanged, "audit", func(ctx context.Context, evt *event.Event) error { return nil })

		if !logger.HasInfo("Handler registered") {
			t.Error("expected registration to be logged")
		}
	})
}

func TestSubscribeAll(t *testing.T) {
	d := NewDispatcher()
	var count int
	d.SubscribeAll("activity", func(ctx context.Context, evt *event.Event) error {
		count++
		return nil
	})

	for _, et := range event.AllTypes {
		if names := d.Handlers(et); len(names) != 1 || names[0] != "activity" {
			t.Errorf("Handlers(%s) = %v", et, names)
		}
		if err := d.Dispatch(context.Background(), newEvent(et)); err != nil {
			t.Fatalf("dispatch %s failed: %v", et, err)
		}
	}
	if count != len(event.AllTypes) {
		t.Errorf("handler ran %d times, want %d", count, len(event.AllTypes))
	}
}

func TestDispatchErrors(t *testing.T) {
	t.Run("joins handler errors and keeps going", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))
		errBoom := errors.New("boom")
		lastRan := false

		d.Subscribe(event.TypeStatusChanged, "failing", func(ctx context.Context, evt *event.Event) error {
			return errBoom
		})
		d.Subscribe(event.TypeStatusChanged, "last", func(ctx context.Context, evt *event.Event) error {
			lastRan = true
			return nil
		})

		err := d.Dispatch(context.Background(), newEvent(event.TypeStatusChanged))
		if !errors.Is(err, errBoom) {
			t.Fatalf("expected wrapped boom error, got %v", err)
		}
		if !lastRan {
			t.Error("a failing handler stopped later handlers")
		}
		if logger.ErrorCount() != 1 {
			t.Errorf("expected 1 logged error, got %d", logger.ErrorCount())
		}
	})

	t.Run("recovers handler panics", func(t *testing.T) {
		d := NewDispatcher()
		d.Subscribe(event.TypeStatusChanged, "panicky", func(ctx context.Context, evt *event.Event) error {
			panic("unexpected")
		})

		err := d.Dispatch(context.Background(), newEvent(event.TypeStatusChanged))
		if err == nil {
			t.Fatal("expected panic to surface as an error")
		}
	})
}

func TestPublish(t *testing.T) {
	t.Run("runs handlers asynchronously and Close waits for them", func(t *testing.T) {
		d := NewDispatcher()
		var ran atomic.Int32
		release := make(chan struct{})

		for i := 0; i < 3; i++ {
			d.Subscribe(event.TypeTransactionCreated, fmt.Sprintf("h%d", i), func(ctx context.Context, evt *event.Event) error {
				<-release
				ran.Add(1)
				return nil
			})
		}

		d.Publish(context.Background(), newEvent(event.TypeTransactionCreated))
		close(release)

		if err := d.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		if ran.Load() != 3 {
			t.Errorf("expected 3 handler runs, got %d", ran.Load())
		}
	})

	t.Run("handlers survive request cancellation", func(t *testing.T) {
		d := NewDispatcher()
		var ctxErr atomic.Value

		d.Subscribe(event.TypeStatusChanged, "slow", func(ctx context.Context, evt *event.Event) error {
			ctxErr.Store(fmt.Sprint(ctx.Err()))
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		d.Publish(ctx, newEvent(event.TypeStatusChanged))

		if err := d.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		if got := ctxErr.Load(); got != "<nil>" {
			t.Errorf("handler context error = %v, want <nil>", got)
		}
	})

	t.Run("drops events after close", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))
		called := false
		d.Subscribe(event.TypeStatusChanged, "late", func(ctx context.Context, evt *event.Event) error {
			called = true
			return nil
		})

		if err := d.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		d.Publish(context.Background(), newEvent(event.TypeStatusChanged))

		if called {
			t.Error("handler ran after close")
		}
		if logger.ErrorCount() != 1 {
			t.Errorf("expected dropped event to be logged, got %d errors", logger.ErrorCount())
		}
		if err := d.Dispatch(context.Background(), newEvent(event.TypeStatusChanged)); !errors.Is(err, ErrClosed) {
			t.Errorf("Dispatch after close = %v, want ErrClosed", err)
		}
		if err := d.Close(); !errors.Is(err, ErrClosed) {
			t.Errorf("second Close = %v, want ErrClosed", err)
		}
	})
}

func TestPublish_ConcurrentClose(t *testing.T) {
	for round := 0; round < 20; round++ {
		d := NewDispatcher(WithLogger(&mockLogger{}))
		var started, finished atomic.Int32
		d.Subscribe(event.TypeStatusChanged, "counter", func(ctx context.Context, evt *event.Event) error {
			started.Add(1)
			time.Sleep(time.Millisecond)
			finished.Add(1)
			return nil
		})

		var publishers sync.WaitGroup
		for i := 0; i < 8; i++ {
			publishers.Add(1)
			go func() {
				defer publishers.Done()
				for j := 0; j < 10; j++ {
					d.Publish(context.Background(), newEvent(event.TypeStatusChanged))
				}
			}()
		}

		if err := d.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		// every handler accepted before Close returned has completed
		if s, f := started.Load(), finished.Load(); s != f {
			t.Fatalf("round %d: %d handlers started but only %d finished when Close returned", round, s, f)
		}
		publishers.Wait()
		if s, f := started.Load(), finished.Load(); s != f {
			t.Fatalf("round %d: handler started after Close (%d started, %d finished)", round, s, f)
		}
	}
}

func TestActivityLogHandler(t *testing.T) {
	logger := &mockLogger{}
	handler := ActivityLogHandler(logger)

	evt := newEvent(event.TypeStatusChanged).WithPayload(event.KeyToStatus, "1030")
	if err := handler(context.Background(), evt); err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	if len(logger.entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(logger.entries))
	}
	entry := logger.entries[0]
	if entry["msg"] != "Transaction activity" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["dots_number"] != "DOTS-20240302-abcdef12" || entry[event.KeyToStatus] != "1030" {
		t.Errorf("unexpected fields %v", entry)
	}
}
