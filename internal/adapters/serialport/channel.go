// Package serialport implements ports.Channel over a USB serial link to the
// controller board. Commands are newline terminated and each reply is one line.
package serialport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/bft-labs/motionpanel/internal/domain"
	"github.com/bft-labs/motionpanel/internal/ports"
)

// pollInterval bounds a single blocking read so cancellation is noticed.
const pollInterval = 100 * time.Millisecond

// Port is the subset of serial.Port used by Channel.
type Port interface {
	io.ReadWriter
	io.Closer
	SetReadTimeout(t time.Duration) error
}

// Opener opens a port at path. serial.Open satisfies it once wrapped.
type Opener func(path string, mode *serial.Mode) (Port, error)

func openSerial(path string, mode *serial.Mode) (Port, error) {
	return serial.Open(path, mode)
}

// Dialer opens serial channels on a fixed device.
type Dialer struct {
	path string
	mode *serial.Mode
	open Opener
}

// NewDialer creates a Dialer for path at baud 8N1.
func NewDialer(path string, baud int) *Dialer {
	return &Dialer{
		path: path,
		mode: &serial.Mode{
			BaudRate: baud,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		},
		open: openSerial,
	}
}

// WithOpener replaces the function used to open the device.
func (d *Dialer) WithOpener(open Opener) *Dialer {
	d.open = open
	return d
}

// Target returns the device path.
func (d *Dialer) Target() string {
	return d.path
}

// Dial opens the device.
func (d *Dialer) Dial(ctx context.Context) (ports.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.path == "" {
		return nil, fmt.Errorf("no serial port configured")
	}
	p, err := d.open(d.path, d.mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.path, err)
	}
	return &Channel{port: p}, nil
}

// Channel exchanges newline-terminated lines over a Port.
type Channel struct {
	mu      sync.Mutex
	port    Port
	pending []byte
	closed  bool
}

// Send writes payload followed by a newline.
func (c *Channel) Send(ctx context.Context, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return io.ErrClosedPipe
	}
	line := payload
	if !bytes.HasSuffix(line, []byte("\n")) {
		line = append(append([]byte{}, payload...), '\n')
	}
	_, err := c.port.Write(line)
	return err
}

// Receive reads one line, without its terminator, before deadline.
func (c *Channel) Receive(ctx context.Context, deadline time.Time) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, io.ErrClosedPipe
	}

	buf := make([]byte, 256)
	for {
		if line, ok := c.takeLine(); ok {
			return line, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, domain.ErrNoReply
		}
		if err := c.port.SetReadTimeout(min(remaining, pollInterval)); err != nil {
			return nil, err
		}
		n, err := c.port.Read(buf)
		if n > 0 {
			c.pending = append(c.pending, buf[:n]...)
		}
		if err != nil {
			return nil, err
		}
	}
}

func (c *Channel) takeLine() ([]byte, bool) {
	i := bytes.IndexByte(c.pending, '\n')
	if i < 0 {
		return nil, false
	}
	line := bytes.TrimRight(c.pending[:i], "\r")
	out := append([]byte{}, line...)
	c.pending = c.pending[i+1:]
	return out, true
}

// Close closes the port. Closing twice is a no-op.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.port.Close()
}

var (
	_ ports.Dialer  = (*Dialer)(nil)
	_ ports.Channel = (*Channel)(nil)
	_ Port          = serial.Port(nil)
)
