package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bft-labs/motionpanel/internal/domain"
)

func TestSessionState_String(t *testing.T) {
	tests := []struct {
		state SessionState
		want  string
	}{
		{StateUninitialized, "Uninitialized"},
		{StateConnected, "Connected"},
		{StateDisconnected, "Disconnected"},
		{SessionState(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("SessionState(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestSession_SendBeforeConnect(t *testing.T) {
	ch := &fakeChannel{}
	d := newFakeDialer(ch)
	s := NewSession(d, mockLogger{})

	_, err := s.SendCommand(context.Background(), domain.Cross)
	if !errors.Is(err, domain.ErrNotInitialized) {
		t.Fatalf("SendCommand() error = %v, want ErrNotInitialized", err)
	}
	if d.dials != 0 || len(ch.Sent()) != 0 || ch.recvCalls != 0 {
		t.Errorf("expected no I/O, got dials=%d sent=%v recv=%d", d.dials, ch.Sent(), ch.recvCalls)
	}
	if s.State() != StateUninitialized {
		t.Errorf("state = %v, want Uninitialized", s.State())
	}
}

func TestSession_Connect_Reply(t *testing.T) {
	ch := &fakeChannel{replies: []string{"V5 ready"}}
	s := NewSession(newFakeDialer(ch), mockLogger{})

	res := s.Connect(context.Background())
	if !res.Connected || res.Err != nil {
		t.Fatalf("Connect() = %+v, want connected", res)
	}
	if res.Reply != "V5 ready" {
		t.Errorf("Reply = %q, want %q", res.Reply, "V5 ready")
	}
	if got := ch.Sent(); len(got) != 1 || got[0] != "T1" {
		t.Errorf("sent = %v, want [T1]", got)
	}
	if !s.Connected() || s.ID() == "" {
		t.Errorf("Connected() = %v, ID() = %q", s.Connected(), s.ID())
	}
}

func TestSession_Connect_NoReply(t *testing.T) {
	ch := &fakeChannel{}
	s := NewSession(newFakeDialer(ch), mockLogger{})

	res := s.Connect(context.Background())
	if res.Connected || res.Err != nil {
		t.Fatalf("Connect() = %+v, want disconnected without error", res)
	}
	if res.Message != NoResponseMessage {
		t.Errorf("Message = %q, want %q", res.Message, NoResponseMessage)
	}
	if s.State() != StateDisconnected {
		t.Errorf("state = %v, want Disconnected", s.State())
	}

	// channel still exists, so sends go out
	reply, err := s.SendCommand(context.Background(), domain.ServoOn)
	if err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	if reply.Received {
		t.Errorf("reply = %+v, want no reply", reply)
	}
	if got := ch.Sent(); len(got) != 2 || got[1] != "S180" {
		t.Errorf("sent = %v, want [T1 S180]", got)
	}
}

func TestSession_Connect_DialFailure(t *testing.T) {
	d := newFakeDialer()
	d.err = errors.New("network is unreachable")
	s := NewSession(d, mockLogger{})

	res := s.Connect(context.Background())
	if !errors.Is(res.Err, domain.ErrTransportUnavailable) {
		t.Fatalf("Connect() err = %v, want ErrTransportUnavailable", res.Err)
	}
	if s.State() != StateDisconnected {
		t.Errorf("state = %v, want Disconnected", s.State())
	}
	if _, err := s.SendCommand(context.Background(), domain.Cross); !errors.Is(err, domain.ErrNotInitialized) {
		t.Errorf("SendCommand() error = %v, want ErrNotInitialized", err)
	}
}

func TestSession_Connect_ProbeSendFailure(t *testing.T) {
	ch := &fakeChannel{sendErr: errors.New("no route to host")}
	s := NewSession(newFakeDialer(ch), mockLogger{})

	res := s.Connect(context.Background())
	if !errors.Is(res.Err, domain.ErrTransportUnavailable) || !errors.Is(res.Err, domain.ErrCommunication) {
		t.Fatalf("Connect() err = %v", res.Err)
	}
	if s.Connected() {
		t.Error("expected disconnected after probe send failure")
	}
}

func TestSession_Reconnect_ReplacesChannel(t *testing.T) {
	first := &fakeChannel{replies: []string{"ok"}}
	second := &fakeChannel{}
	s := NewSession(newFakeDialer(first, second), mockLogger{})

	s.Connect(context.Background())
	firstID := s.ID()
	s.Connect(context.Background())

	if first.closed != 1 {
		t.Errorf("first channel closed %d times, want 1", first.closed)
	}
	if s.ID() == firstID {
		t.Error("expected a new session id after reconnect")
	}
	if s.State() != StateDisconnected {
		t.Errorf("state = %v, want Disconnected", s.State())
	}

	if _, err := s.SendCommand(context.Background(), domain.Cross); err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	if len(first.Sent()) != 1 {
		t.Errorf("old channel received traffic after reconnect: %v", first.Sent())
	}
	if got := second.Sent(); len(got) != 2 || got[1] != "C1" {
		t.Errorf("second channel sent = %v", got)
	}
}

func TestSession_SendFailureIsRecoverable(t *testing.T) {
	ch := &fakeChannel{replies: []string{"ok"}}
	s := NewSession(newFakeDialer(ch), mockLogger{})
	s.Connect(context.Background())

	ch.sendErr = errors.New("message too long")
	if _, err := s.SendCommand(context.Background(), domain.Cross); !errors.Is(err, domain.ErrCommunication) {
		t.Fatalf("SendCommand() error = %v, want ErrCommunication", err)
	}

	ch.sendErr = nil
	ch.replies = []string{"done"}
	reply, err := s.SendCommand(context.Background(), domain.Cross)
	if err != nil {
		t.Fatalf("SendCommand() after failure error = %v", err)
	}
	if !reply.Received || reply.Text != "done" {
		t.Errorf("reply = %+v, want done", reply)
	}
}

func TestSession_ReceiveError(t *testing.T) {
	ch := &fakeChannel{replies: []string{"ok"}}
	s := NewSession(newFakeDialer(ch), mockLogger{})
	s.Connect(context.Background())

	ch.recvErr = errors.New("connection refused")
	if _, err := s.SendCommand(context.Background(), domain.Cross); !errors.Is(err, domain.ErrCommunication) {
		t.Fatalf("SendCommand() error = %v, want ErrCommunication", err)
	}
}

func TestSession_CancelledContext(t *testing.T) {
	ch := &fakeChannel{replies: []string{"ok"}}
	s := NewSession(newFakeDialer(ch), mockLogger{})
	s.Connect(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.SendCommand(ctx, domain.Cross); !errors.Is(err, context.Canceled) {
		t.Fatalf("SendCommand() error = %v, want context.Canceled", err)
	}
	if len(ch.Sent()) != 1 {
		t.Errorf("sent = %v, want only the probe", ch.Sent())
	}
}

func TestSession_Journal(t *testing.T) {
	ch := &fakeChannel{replies: []string{"hello"}}
	j := &memJournal{}
	s := NewSession(newFakeDialer(ch), mockLogger{}, WithJournal(j), WithReplyTimeout(50*time.Millisecond))

	s.Connect(context.Background())
	if _, err := s.SendCommand(context.Background(), domain.ServoOff); err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}

	if len(j.exchanges) != 2 {
		t.Fatalf("journal has %d exchanges, want 2", len(j.exchanges))
	}
	probe, servo := j.exchanges[0], j.exchanges[1]
	if probe.Command != "T1" || !probe.Replied || probe.Reply != "hello" {
		t.Errorf("probe exchange = %+v", probe)
	}
	if servo.Command != "S0" || servo.Replied || servo.SessionID != s.ID() {
		t.Errorf("servo exchange = %+v", servo)
	}
	if s.Timeout() != 50*time.Millisecond {
		t.Errorf("Timeout() = %v, want 50ms", s.Timeout())
	}
}

func TestSession_JournalFailureIsNotFatal(t *testing.T) {
	ch := &fakeChannel{replies: []string{"ok", "ok"}}
	s := NewSession(newFakeDialer(ch), mockLogger{}, WithJournal(&memJournal{err: errors.New("disk full")}))

	if res := s.Connect(context.Background()); !res.Connected {
		t.Fatalf("Connect() = %+v", res)
	}
	if _, err := s.SendCommand(context.Background(), domain.Cross); err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
}

func TestSession_Close(t *testing.T) {
	ch := &fakeChannel{replies: []string{"ok"}}
	s := NewSession(newFakeDialer(ch), mockLogger{})
	s.Connect(context.Background())

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if ch.closed != 1 {
		t.Errorf("channel closed %d times, want 1", ch.closed)
	}
	if s.State() != StateUninitialized {
		t.Errorf("state = %v, want Uninitialized", s.State())
	}
	if _, err := s.SendCommand(context.Background(), domain.Cross); !errors.Is(err, domain.ErrNotInitialized) {
		t.Errorf("SendCommand() after Close error = %v, want ErrNotInitialized", err)
	}
}
