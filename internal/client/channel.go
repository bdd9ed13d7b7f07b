package client

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Anilsharma012/myProperty-sub000/internal/proto"
)

// State is the reconnect state machine position.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

const (
	defaultBaseDelay   = time.Second
	defaultMaxDelay    = 30 * time.Second
	defaultMaxAttempts = 5
)

// RetryDelay returns the backoff before retry attempt n:
// min(1s * 2^n, 30s).
func RetryDelay(attempt int) time.Duration {
	return retryDelay(defaultBaseDelay, defaultMaxDelay, attempt)
}

func retryDelay(base, max time.Duration, attempt int) time.Duration {
	if attempt >= 63 {
		return max
	}
	d := base << uint(attempt)
	if d <= 0 || d > max {
		return max
	}
	return d
}

// Socket is one live duplex connection as the channel sees it.
type Socket interface {
	WriteJSON(ctx context.Context, v any) error
	Read(ctx context.Context) ([]byte, error)
	Close(reason string) error
}

// DialFunc opens a socket to the given URL.
type DialFunc func(ctx context.Context, url string) (Socket, error)

// Options parameterize one channel instance. Each of the three domain
// channels is a thin configuration of the same machine.
type Options struct {
	// URL is the full connection URL including the channel path.
	URL string

	// BuildAuth produces the handshake payload sent immediately after connect.
	BuildAuth func() proto.Inbound

	// OnMessage receives each raw inbound frame after authentication was sent.
	OnMessage func(data []byte)

	// OnState observes state transitions; drives a connected indicator.
	OnState func(State)

	// Dial overrides the websocket dialer. Tests inject fakes here.
	Dial DialFunc

	Logger *zerolog.Logger

	// Backoff tuning; zero values take the production defaults.
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
}

// Channel is a resilient duplex connection: it dials, authenticates, reads
// until the connection drops, then schedules a retry with exponential backoff.
// After MaxAttempts consecutive failed attempts it stays down until
// Reconnect is called.
type Channel struct {
	opts Options
	log  *zerolog.Logger

	mu         sync.Mutex
	state      State
	retryCount int
	sock       Socket
	cancel     context.CancelFunc
	running    bool
}

// NewChannel builds a channel; it stays disconnected until Connect.
func NewChannel(opts Options) *Channel {
	if opts.Dial == nil {
		opts.Dial = dialWebSocket
	}
	if opts.BaseDelay == 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	if opts.MaxDelay == 0 {
		opts.MaxDelay = defaultMaxDelay
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Channel{opts: opts, log: logger}
}

// Connect starts the connection loop. No-op if already running. The loop
// stops when ctx is cancelled, Close is called, or retries are exhausted.
func (ch *Channel) Connect(ctx context.Context) {
	ch.mu.Lock()
	if ch.running {
		ch.mu.Unlock()
		return
	}
	ch.running = true
	ctx, ch.cancel = context.WithCancel(ctx)
	ch.mu.Unlock()

	go ch.run(ctx)
}

// Reconnect resets the retry budget and starts the loop again. This is the
// external trigger after automatic retries gave up.
func (ch *Channel) Reconnect(ctx context.Context) {
	ch.mu.Lock()
	ch.retryCount = 0
	ch.mu.Unlock()
	ch.Connect(ctx)
}

// Close cancels any pending retry timer and closes the socket. The channel
// can be started again with Connect.
func (ch *Channel) Close() {
	ch.mu.Lock()
	cancel := ch.cancel
	sock := ch.sock
	ch.cancel = nil
	ch.sock = nil
	ch.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if sock != nil {
		_ = sock.Close("client closing")
	}
}

// State returns the current connection state.
func (ch *Channel) State() State {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.state
}

// RetryCount returns the number of consecutive failed attempts.
func (ch *Channel) RetryCount() int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.retryCount
}

func (ch *Channel) run(ctx context.Context) {
	defer func() {
		ch.mu.Lock()
		ch.running = false
		ch.mu.Unlock()
		ch.setState(StateDisconnected)
	}()

	for {
		ch.setState(StateConnecting)

		sock, err := ch.opts.Dial(ctx, ch.opts.URL)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			ch.log.Warn().Err(err).Str("url", ch.opts.URL).Msg("connect failed")
			ch.setState(StateDisconnected)
			if !ch.waitRetry(ctx) {
				return
			}
			continue
		}

		ch.mu.Lock()
		ch.sock = sock
		ch.retryCount = 0
		ch.mu.Unlock()

		// Auth goes out before anything else; the server keeps the
		// connection inert until it arrives.
		if err := sock.WriteJSON(ctx, ch.opts.BuildAuth()); err != nil {
			ch.log.Warn().Err(err).Msg("auth write failed")
			_ = sock.Close("auth write failed")
			ch.setState(StateDisconnected)
			if !ch.waitRetry(ctx) {
				return
			}
			continue
		}

		ch.setState(StateConnected)
		ch.readLoop(ctx, sock)

		_ = sock.Close("closing")
		ch.mu.Lock()
		ch.sock = nil
		ch.mu.Unlock()
		ch.setState(StateDisconnected)

		if ctx.Err() != nil {
			return
		}
		if !ch.waitRetry(ctx) {
			return
		}
	}
}

func (ch *Channel) readLoop(ctx context.Context, sock Socket) {
	for {
		data, err := sock.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				ch.log.Warn().Err(err).Str("url", ch.opts.URL).Msg("connection lost")
			}
			return
		}
		if ch.opts.OnMessage != nil {
			ch.opts.OnMessage(data)
		}
	}
}

// waitRetry sleeps the backoff for the current attempt. Returns false when
// the retry budget is spent or the context is done.
func (ch *Channel) waitRetry(ctx context.Context) bool {
	ch.mu.Lock()
	if ch.retryCount >= ch.opts.MaxAttempts {
		ch.mu.Unlock()
		ch.log.Warn().
			Str("url", ch.opts.URL).
			Int("attempts", ch.opts.MaxAttempts).
			Msg("retries exhausted, waiting for manual reconnect")
		return false
	}
	attempt := ch.retryCount
	ch.retryCount++
	ch.mu.Unlock()

	delay := retryDelay(ch.opts.BaseDelay, ch.opts.MaxDelay, attempt)
	ch.log.Info().
		Str("url", ch.opts.URL).
		Int("attempt", attempt+1).
		Dur("delay", delay).
		Msg("scheduling reconnect")

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (ch *Channel) setState(s State) {
	ch.mu.Lock()
	if ch.state == s {
		ch.mu.Unlock()
		return
	}
	ch.state = s
	ch.mu.Unlock()

	if ch.opts.OnState != nil {
		ch.opts.OnState(s)
	}
}
