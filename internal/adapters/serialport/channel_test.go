package serialport

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"

	"github.com/bft-labs/motionpanel/internal/domain"
)

// mockPort plays back queued read chunks and records writes.
type mockPort struct {
	mu       sync.Mutex
	written  []string
	chunks   []string
	timeouts []time.Duration
	closed   int
}

func (m *mockPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written = append(m.written, string(p))
	return len(p), nil
}

func (m *mockPort) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.chunks) == 0 {
		// go.bug.st/serial reports a read timeout as (0, nil)
		time.Sleep(time.Millisecond)
		return 0, nil
	}
	n := copy(p, m.chunks[0])
	m.chunks = m.chunks[1:]
	return n, nil
}

func (m *mockPort) SetReadTimeout(t time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeouts = append(m.timeouts, t)
	return nil
}

func (m *mockPort) Close() error {
	m.closed++
	return nil
}

func dialMock(t *testing.T, port *mockPort) *Channel {
	t.Helper()
	var gotPath string
	var gotMode *serial.Mode
	d := NewDialer("/dev/ttyUSB0", 115200).WithOpener(func(path string, mode *serial.Mode) (Port, error) {
		gotPath, gotMode = path, mode
		return port, nil
	})
	ch, err := d.Dial(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", gotPath)
	assert.Equal(t, 115200, gotMode.BaudRate)
	assert.Equal(t, 8, gotMode.DataBits)
	return ch.(*Channel)
}

func TestChannel_SendAppendsNewline(t *testing.T) {
	port := &mockPort{}
	ch := dialMock(t, port)

	require.NoError(t, ch.Send(context.Background(), []byte("T1")))
	require.NoError(t, ch.Send(context.Background(), []byte("C1\n")))
	assert.Equal(t, []string{"T1\n", "C1\n"}, port.written)
}

func TestChannel_ReceiveAssemblesLines(t *testing.T) {
	port := &mockPort{chunks: []string{"OK ", "V5\r\nsec", "ond\n"}}
	ch := dialMock(t, port)
	deadline := time.Now().Add(time.Second)

	first, err := ch.Receive(context.Background(), deadline)
	require.NoError(t, err)
	assert.Equal(t, "OK V5", string(first))

	second, err := ch.Receive(context.Background(), deadline)
	require.NoError(t, err)
	assert.Equal(t, "second", string(second))
}

func TestChannel_ReceiveTimeout(t *testing.T) {
	port := &mockPort{}
	ch := dialMock(t, port)

	_, err := ch.Receive(context.Background(), time.Now().Add(20*time.Millisecond))
	assert.ErrorIs(t, err, domain.ErrNoReply)
	for _, to := range port.timeouts {
		assert.LessOrEqual(t, to, pollInterval)
	}
}

func TestChannel_ReceiveCancelled(t *testing.T) {
	ch := dialMock(t, &mockPort{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ch.Receive(ctx, time.Now().Add(time.Second))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChannel_Close(t *testing.T) {
	port := &mockPort{}
	ch := dialMock(t, port)

	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close())
	assert.Equal(t, 1, port.closed)
	assert.ErrorIs(t, ch.Send(context.Background(), []byte("T1")), io.ErrClosedPipe)
}

func TestDialer_Errors(t *testing.T) {
	_, err := NewDialer("", 115200).Dial(context.Background())
	assert.Error(t, err)

	d := NewDialer("/dev/ttyACM0", 115200).WithOpener(func(string, *serial.Mode) (Port, error) {
		return nil, errors.New("permission denied")
	})
	_, err = d.Dial(context.Background())
	assert.ErrorContains(t, err, "open /dev/ttyACM0: permission denied")
	assert.Equal(t, "/dev/ttyACM0", d.Target())
}
