package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/motionpanel/internal/domain"
	"github.com/bft-labs/motionpanel/internal/ports"
)

// DefaultReplyTimeout bounds the wait for a firmware reply.
const DefaultReplyTimeout = 3 * time.Second

// NoResponseMessage is reported when the probe gets no reply.
const NoResponseMessage = "channel open, no response"

// SessionState represents the connection state of a Session.
type SessionState int

const (
	StateUninitialized SessionState = iota
	StateConnected
	StateDisconnected
)

// String returns a human-readable representation of the state.
func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateConnected:
		return "Connected"
	case StateDisconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}

// Reply is the outcome of one exchange. Received is false when no datagram
// arrived before the timeout; that is not an error.
type Reply struct {
	Text     string
	Received bool
}

// ConnectResult reports the outcome of a probe.
type ConnectResult struct {
	Connected bool
	Reply     string
	Message   string
	Err       error
}

// SessionOption configures optional behavior of a Session.
type SessionOption func(*Session)

// WithReplyTimeout overrides DefaultReplyTimeout.
func WithReplyTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithJournal records every exchange in j.
func WithJournal(j ports.Journal) SessionOption {
	return func(s *Session) {
		s.journal = j
	}
}

// Session owns the single live command channel and its connection status.
type Session struct {
	mu      sync.Mutex
	dialer  ports.Dialer
	logger  ports.Logger
	journal ports.Journal
	timeout time.Duration

	channel ports.Channel
	state   SessionState
	id      string
}

// NewSession creates a Session in StateUninitialized. No I/O happens until Connect.
func NewSession(dialer ports.Dialer, logger ports.Logger, opts ...SessionOption) *Session {
	s := &Session{
		dialer:  dialer,
		logger:  logger,
		timeout: DefaultReplyTimeout,
		state:   StateUninitialized,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current connection state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connected reports whether the last probe got a reply.
func (s *Session) Connected() bool {
	return s.State() == StateConnected
}

// ID identifies the currently open channel; empty before the first Connect.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Target describes the remote end.
func (s *Session) Target() string {
	return s.dialer.Target()
}

// Timeout returns the reply timeout.
func (s *Session) Timeout() time.Duration {
	return s.timeout
}

// Connect replaces any open channel with a new one and probes the firmware.
// It never returns an error; failures are reported in the result.
func (s *Session) Connect(ctx context.Context) ConnectResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()

	ch, err := s.dialer.Dial(ctx)
	if err != nil {
		s.state = StateDisconnected
		err = fmt.Errorf("%w: %w", domain.ErrTransportUnavailable, err)
		s.logger.Error("open channel failed",
			ports.String("target", s.dialer.Target()),
			ports.Err(err))
		return ConnectResult{Err: err}
	}
	s.channel = ch
	s.id = uuid.NewString()
	s.logger.Info("channel opened",
		ports.String("target", s.dialer.Target()),
		ports.String("session", s.id),
		ports.Duration("timeout", s.timeout))

	reply, err := s.exchangeLocked(ctx, domain.Probe)
	s.recordLocked(ctx, domain.Probe, reply, err)
	switch {
	case err != nil:
		s.state = StateDisconnected
		err = fmt.Errorf("%w: %w", domain.ErrTransportUnavailable, err)
		s.logger.Error("probe failed", ports.String("session", s.id), ports.Err(err))
		return ConnectResult{Err: err}
	case !reply.Received:
		s.state = StateDisconnected
		s.logger.Warn("probe got no reply",
			ports.String("session", s.id),
			ports.Duration("timeout", s.timeout))
		return ConnectResult{Message: NoResponseMessage}
	default:
		s.state = StateConnected
		s.logger.Info("firmware answered probe",
			ports.String("session", s.id),
			ports.String("reply", reply.Text))
		return ConnectResult{Connected: true, Reply: reply.Text}
	}
}

// SendCommand writes cmd to the open channel and waits for one reply.
// Returns domain.ErrNotInitialized, without I/O, if no channel was ever opened,
// and an error wrapping domain.ErrCommunication if the transport fails.
func (s *Session) SendCommand(ctx context.Context, cmd domain.Command) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.channel == nil {
		s.logger.Error("send without channel", ports.String("command", cmd.String()))
		return Reply{}, domain.ErrNotInitialized
	}

	reply, err := s.exchangeLocked(ctx, cmd)
	s.recordLocked(ctx, cmd, reply, err)
	if err != nil {
		s.logger.Error("command failed",
			ports.String("session", s.id),
			ports.String("command", cmd.String()),
			ports.Err(err))
		return Reply{}, err
	}
	return reply, nil
}

// Close releases the channel and returns the session to StateUninitialized.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.closeLocked()
	s.state = StateUninitialized
	return err
}

func (s *Session) closeLocked() error {
	if s.channel == nil {
		return nil
	}
	err := s.channel.Close()
	if err != nil {
		s.logger.Warn("close channel", ports.String("session", s.id), ports.Err(err))
	}
	s.channel = nil
	return err
}

func (s *Session) exchangeLocked(ctx context.Context, cmd domain.Command) (Reply, error) {
	if err := ctx.Err(); err != nil {
		return Reply{}, err
	}
	if err := s.channel.Send(ctx, cmd.Bytes()); err != nil {
		return Reply{}, fmt.Errorf("%w: %w", domain.ErrCommunication, err)
	}
	s.logger.Info("command sent",
		ports.String("session", s.id),
		ports.String("command", cmd.String()))

	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	data, err := s.channel.Receive(ctx, deadline)
	if errors.Is(err, domain.ErrNoReply) {
		return Reply{}, nil
	}
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %w", domain.ErrCommunication, err)
	}
	return Reply{Text: string(data), Received: true}, nil
}

func (s *Session) recordLocked(ctx context.Context, cmd domain.Command, reply Reply, err error) {
	if s.journal == nil {
		return
	}
	ex := ports.Exchange{
		At:        time.Now(),
		SessionID: s.id,
		Target:    s.dialer.Target(),
		Command:   cmd.String(),
		Reply:     reply.Text,
		Replied:   reply.Received,
	}
	if err != nil {
		ex.Error = err.Error()
	}
	if jerr := s.journal.Record(context.WithoutCancel(ctx), ex); jerr != nil {
		s.logger.Warn("journal record failed", ports.Err(jerr))
	}
}
