package client

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Anilsharma012/myProperty-sub000/internal/proto"
)

// fakeSocket is a scriptable connection for the state machine tests.
type fakeSocket struct {
	mu     sync.Mutex
	writes []any

	frames  chan []byte
	closeCh chan struct{}
	once    sync.Once
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{
		frames:  make(chan []byte, 8),
		closeCh: make(chan struct{}),
	}
}

func (s *fakeSocket) WriteJSON(_ context.Context, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, v)
	return nil
}

func (s *fakeSocket) Read(ctx context.Context) ([]byte, error) {
	select {
	case data := <-s.frames:
		return data, nil
	case <-s.closeCh:
		return nil, io.EOF
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *fakeSocket) Close(string) error {
	s.once.Do(func() { close(s.closeCh) })
	return nil
}

func (s *fakeSocket) firstWrite() (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.writes) == 0 {
		return nil, false
	}
	return s.writes[0], true
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func testAuth() proto.Inbound {
	return proto.Inbound{Type: proto.InboundTypeAuth, UserID: "u1", UserType: "owner"}
}

func TestRetryDelaySequence(t *testing.T) {
	want := []time.Duration{
		1000 * time.Millisecond,
		2000 * time.Millisecond,
		4000 * time.Millisecond,
		8000 * time.Millisecond,
		16000 * time.Millisecond,
	}
	for attempt, expected := range want {
		if got := RetryDelay(attempt); got != expected {
			t.Fatalf("RetryDelay(%d) = %v, want %v", attempt, got, expected)
		}
	}
	// Everything past the doubling range hits the cap.
	for _, attempt := range []int{5, 6, 10, 100} {
		if got := RetryDelay(attempt); got != 30*time.Second {
			t.Fatalf("RetryDelay(%d) = %v, want 30s cap", attempt, got)
		}
	}
}

func TestStopsAfterMaxAttempts(t *testing.T) {
	var dials int32
	ch := NewChannel(Options{
		URL:       "ws://test/notifications",
		BuildAuth: testAuth,
		Dial: func(context.Context, string) (Socket, error) {
			atomic.AddInt32(&dials, 1)
			return nil, errors.New("connection refused")
		},
		BaseDelay: time.Millisecond,
		MaxDelay:  4 * time.Millisecond,
	})
	defer ch.Close()

	ch.Connect(context.Background())

	// Initial attempt plus five scheduled retries, then nothing.
	waitFor(t, 2*time.Second, func() bool {
		return atomic.LoadInt32(&dials) == 6
	})
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&dials); got != 6 {
		t.Fatalf("automatic attempts continued past cap: %d dials", got)
	}
	if got := ch.RetryCount(); got != 5 {
		t.Fatalf("retry count after exhaustion = %d, want 5", got)
	}
	if got := ch.State(); got != StateDisconnected {
		t.Fatalf("state after exhaustion = %v, want disconnected", got)
	}
}

func TestRetryCountResetsOnSuccessfulConnect(t *testing.T) {
	var dials int32
	dial := func(context.Context, string) (Socket, error) {
		// Fail the initial attempt and the first two retries, then connect.
		if atomic.AddInt32(&dials, 1) <= 3 {
			return nil, errors.New("connection refused")
		}
		return newFakeSocket(), nil
	}

	ch := NewChannel(Options{
		URL:       "ws://test/package-sync",
		BuildAuth: testAuth,
		Dial:      dial,
		BaseDelay: time.Millisecond,
	})
	defer ch.Close()

	ch.Connect(context.Background())

	waitFor(t, 2*time.Second, func() bool { return ch.State() == StateConnected })
	if got := ch.RetryCount(); got != 0 {
		t.Fatalf("retry count after successful connect = %d, want 0", got)
	}
}

func TestAuthSentImmediatelyOnConnect(t *testing.T) {
	sock := newFakeSocket()
	ch := NewChannel(Options{
		URL:       "ws://test/chat",
		BuildAuth: testAuth,
		Dial: func(context.Context, string) (Socket, error) {
			return sock, nil
		},
	})
	defer ch.Close()

	ch.Connect(context.Background())
	waitFor(t, 2*time.Second, func() bool { return ch.State() == StateConnected })

	first, ok := sock.firstWrite()
	if !ok {
		t.Fatal("no write observed after connect")
	}
	inbound, ok := first.(proto.Inbound)
	if !ok {
		t.Fatalf("first write is %T, want proto.Inbound", first)
	}
	if inbound.Type != proto.InboundTypeAuth || inbound.UserID != "u1" {
		t.Fatalf("unexpected auth payload: %+v", inbound)
	}
}

func TestReconnectsAfterConnectionDrop(t *testing.T) {
	var (
		mu    sync.Mutex
		socks []*fakeSocket
	)
	dial := func(context.Context, string) (Socket, error) {
		s := newFakeSocket()
		mu.Lock()
		socks = append(socks, s)
		mu.Unlock()
		return s, nil
	}

	var connects int32
	ch := NewChannel(Options{
		URL:       "ws://test/notifications",
		BuildAuth: testAuth,
		Dial:      dial,
		BaseDelay: time.Millisecond,
		OnState: func(s State) {
			if s == StateConnected {
				atomic.AddInt32(&connects, 1)
			}
		},
	})
	defer ch.Close()

	ch.Connect(context.Background())
	waitFor(t, 2*time.Second, func() bool { return atomic.LoadInt32(&connects) == 1 })

	// Server-side drop; the channel must come back on its own.
	mu.Lock()
	socks[0].Close("drop")
	mu.Unlock()

	waitFor(t, 2*time.Second, func() bool { return atomic.LoadInt32(&connects) == 2 })
	if got := ch.RetryCount(); got != 0 {
		t.Fatalf("retry count after reconnect = %d, want 0", got)
	}
}

func TestCloseCancelsPendingRetry(t *testing.T) {
	var dials int32
	ch := NewChannel(Options{
		URL:       "ws://test/chat",
		BuildAuth: testAuth,
		Dial: func(context.Context, string) (Socket, error) {
			atomic.AddInt32(&dials, 1)
			return nil, errors.New("connection refused")
		},
		BaseDelay: time.Hour, // retry timer must never fire on its own
	})

	ch.Connect(context.Background())
	waitFor(t, 2*time.Second, func() bool { return atomic.LoadInt32(&dials) == 1 })

	ch.Close()
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&dials); got != 1 {
		t.Fatalf("retry fired after Close: %d dials", got)
	}
	if got := ch.State(); got != StateDisconnected {
		t.Fatalf("state after Close = %v, want disconnected", got)
	}
}

func TestManualReconnectAfterExhaustion(t *testing.T) {
	var dials int32
	fail := int32(1)
	dial := func(context.Context, string) (Socket, error) {
		atomic.AddInt32(&dials, 1)
		if atomic.LoadInt32(&fail) == 1 {
			return nil, errors.New("connection refused")
		}
		return newFakeSocket(), nil
	}

	ch := NewChannel(Options{
		URL:       "ws://test/package-sync",
		BuildAuth: testAuth,
		Dial:      dial,
		BaseDelay: time.Millisecond,
		MaxDelay:  4 * time.Millisecond,
	})
	defer ch.Close()

	ch.Connect(context.Background())
	waitFor(t, 2*time.Second, func() bool { return atomic.LoadInt32(&dials) == 6 })

	// Let the run loop finish before triggering the external restart.
	time.Sleep(20 * time.Millisecond)

	atomic.StoreInt32(&fail, 0)
	ch.Reconnect(context.Background())

	waitFor(t, 2*time.Second, func() bool { return ch.State() == StateConnected })
	if got := ch.RetryCount(); got != 0 {
		t.Fatalf("retry count after manual reconnect = %d, want 0", got)
	}
}
