package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lumen-meetup/backend/internal/registrations"
)

// DefaultInterval is how often a session re-sends the registration list.
const DefaultInterval = 3 * time.Second

// SnapshotSource produces the current registration snapshot for each tick.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (registrations.Snapshot, error)
}

// State is the lifecycle of a broadcast session. Transitions only move
// forward: StateStarting -> StateStreaming -> StateClosed.
type State int32

const (
	StateStarting State = iota
	StateStreaming
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Session owns the polling timer and output stream for one SSE client. Each
// connected client gets its own session; sessions never coordinate with each
// other beyond reading the same store.
type Session struct {
	id       uuid.UUID
	source   SnapshotSource
	w        io.Writer
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
}

// NewSession creates a broadcast session writing SSE frames to w. If w
// implements http.Flusher each frame is flushed as it is written.
func NewSession(source SnapshotSource, w io.Writer, interval time.Duration, logger *zap.Logger) *Session {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		id:       uuid.New(),
		source:   source,
		w:        w,
		interval: interval,
		logger:   logger,
	}
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run drives the session until it closes: one snapshot is written
// synchronously, then a ticker re-sends the full list until the context is
// cancelled, a write fails (client gone) or a snapshot fails (store gone).
// The timer is only armed after the first write succeeds, and all ticks run
// in this goroutine, so frames go out in the order their snapshots were
// fetched and a slow fetch never overlaps the next one.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancel = cancel
	s.mu.Unlock()
	defer s.Close()

	s.logger.Debug("broadcast session opened", zap.String("session_id", s.id.String()))

	if err := s.tick(ctx); err != nil {
		s.logger.Debug("broadcast session ended before streaming",
			zap.String("session_id", s.id.String()), zap.Error(err))
		return
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateStreaming
	s.mu.Unlock()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.State() == StateClosed {
				return
			}
			if err := s.tick(ctx); err != nil {
				s.logger.Debug("broadcast session ended",
					zap.String("session_id", s.id.String()), zap.Error(err))
				return
			}
		}
	}
}

// Close transitions the session to closed and cancels its timer. It is
// idempotent: closing an already-closed session is a no-op, so the transport
// disconnect signal and an in-flight tick failure may race harmlessly.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.logger.Debug("broadcast session closed", zap.String("session_id", s.id.String()))
}

// tick fetches one snapshot and writes it as an SSE data frame.
func (s *Session) tick(ctx context.Context) error {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
