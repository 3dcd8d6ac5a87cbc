package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"firestige.xyz/netvis/internal/core"
	"firestige.xyz/netvis/internal/metrics"
)

// State is the lifecycle position of a Session.
type State int32

// Session states. Transitions only move forward:
// Idle -> Running -> Stopping -> Stopped, or Running -> Stopped on a
// fatal read error.
const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Session runs one acquisition loop over an opened Handle.
//
// The loop goroutine owns the packet slice until it exits; Packets hands
// it to the caller only once the session is Stopped. The handle is never
// closed by the session: whoever opened it closes it after Stop returns.
type Session struct {
	id     string
	device string
	handle Handle
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	cancel    context.CancelFunc
	done      chan struct{}
	packets   []core.Packet
	err       error
	startedAt time.Time

	stats Stats
}

// Stats are live counters, safe to read while the session runs.
type Stats struct {
	Packets  atomic.Uint64
	Bytes    atomic.Uint64
	Timeouts atomic.Uint64
}

// Option configures a Session.
type Option func(*Session)

// WithDevice labels logs and metrics with the interface name.
func WithDevice(name string) Option {
	return func(s *Session) { s.device = name }
}

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession creates an Idle session over h.
func NewSession(h Handle, opts ...Option) *Session {
	s := &Session{
		id:     uuid.NewString(),
		handle: h,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("session", s.id, "device", s.device)
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stats returns the live counters.
func (s *Session) Stats() *Stats { return &s.stats }

// Done is closed when the session reaches Stopped.
func (s *Session) Done() <-chan struct{} { return s.done }

// Start launches the acquisition loop and returns immediately.
// It fails with core.ErrAlreadyStarted unless the session is Idle.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return core.ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.state = StateRunning
	s.startedAt = time.Now()

	s.logger.Info("capture starting")
	go s.run(ctx)
	return nil
}

// Stop asks the loop to exit and waits for it. Stopping an Idle session is
// a no-op. The returned error is the fatal read error that ended the loop,
// if any.
func (s *Session) Stop() error {
	s.mu.Lock()
	switch s.state {
	case StateIdle:
		s.mu.Unlock()
		return nil
	case StateRunning:
		s.state = StateStopping
		s.logger.Info("capture stopping")
		s.cancel()
		s.handle.Interrupt()
	}
	s.mu.Unlock()

	<-s.done
	return s.Err()
}

// Err returns the error that ended the loop, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Packets returns the captured packets in arrival order. It fails with
// core.ErrNotStopped until the session is Stopped.
func (s *Session) Packets() ([]core.Packet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateStopped {
		return nil, core.ErrNotStopped
	}
	return s.packets, nil
}

func (s *Session) run(ctx context.Context) {
	metrics.CaptureSessionsRunning.Inc()

	packets, err := s.acquire(ctx)

	metrics.CaptureSessionsRunning.Dec()

	s.mu.Lock()
	s.packets = packets
	s.err = err
	s.state = StateStopped
	elapsed := time.Since(s.startedAt)
	s.mu.Unlock()

	metrics.CaptureSessionSeconds.Observe(elapsed.Seconds())
	if err != nil {
		s.logger.Error("capture failed", "error", err, "packets", len(packets))
	} else {
		s.logger.Info("capture stopped", "packets", len(packets), "elapsed", elapsed)
	}
	close(s.done)
}

// acquire reads until ctx is cancelled or the handle fails. The slice is
// local to this goroutine.
func (s *Session) acquire(ctx context.Context) ([]core.Packet, error) {
	var (
		packets    []core.Packet
		pktCounter = metrics.CapturePacketsTotal.WithLabelValues(s.device)
		byteCount  = metrics.CaptureBytesTotal.WithLabelValues(s.device)
		timeouts   = metrics.CaptureReadErrorsTotal.WithLabelValues(s.device, "timeout")
	)

	for ctx.Err() == nil {
		data, ci, err := s.handle.ReadFrame()
		if err != nil {
			if errors.Is(err, core.ErrWouldBlock) {
				s.stats.Timeouts.Add(1)
				timeouts.Inc()
				continue
			}
			if ctx.Err() != nil {
				// Reads failing after cancellation are part of shutdown.
				break
			}
			metrics.CaptureReadErrorsTotal.WithLabelValues(s.device, "fatal").Inc()
			return packets, fmt.Errorf("%w: %v", core.ErrFatalRead, err)
		}

		ts := ci.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		packets = append(packets, core.NewPacket(data, ts))

		s.stats.Packets.Add(1)
		s.stats.Bytes.Add(uint64(len(data)))
		pktCounter.Inc()
		byteCount.Add(float64(len(data)))
	}
	return packets, nil
}
