// Package udp implements ports.Channel over an unconnected UDP socket.
package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/bft-labs/motionpanel/internal/domain"
	"github.com/bft-labs/motionpanel/internal/ports"
)

// maxReplySize bounds a single firmware reply.
const maxReplySize = 1024

// packetConn is the subset of *net.UDPConn used by Channel.
type packetConn interface {
	WriteToUDP(b []byte, addr *net.UDPAddr) (int, error)
	ReadFromUDP(b []byte) (int, *net.UDPAddr, error)
	SetReadDeadline(t time.Time) error
	Close() error
}

// ListenFunc opens the local socket. net.ListenUDP satisfies it once wrapped.
type ListenFunc func(network string, laddr *net.UDPAddr) (packetConn, error)

func listenUDP(network string, laddr *net.UDPAddr) (packetConn, error) {
	return net.ListenUDP(network, laddr)
}

// Dialer opens UDP channels to a fixed host and port.
type Dialer struct {
	host   string
	port   int
	listen ListenFunc
}

// NewDialer creates a Dialer for host:port.
func NewDialer(host string, port int) *Dialer {
	return &Dialer{host: host, port: port, listen: listenUDP}
}

// Target returns host:port.
func (d *Dialer) Target() string {
	return net.JoinHostPort(d.host, strconv.Itoa(d.port))
}

// Dial binds a socket to an ephemeral local port. No packet is sent.
func (d *Dialer) Dial(ctx context.Context) (ports.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raddr, err := net.ResolveUDPAddr("udp", d.Target())
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", d.Target(), err)
	}
	network := "udp6"
	if raddr.IP == nil || raddr.IP.To4() != nil {
		network = "udp4"
	}
	conn, err := d.listen(network, &net.UDPAddr{})
	if err != nil {
		return nil, fmt.Errorf("bind local socket: %w", err)
	}
	return &Channel{conn: conn, remote: raddr}, nil
}

// Channel sends datagrams to one remote address and accepts replies from any sender.
type Channel struct {
	mu     sync.Mutex
	conn   packetConn
	remote *net.UDPAddr
	closed bool
}

// Send writes payload as one datagram.
func (c *Channel) Send(ctx context.Context, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return net.ErrClosed
	}
	_, err := c.conn.WriteToUDP(payload, c.remote)
	return err
}

// Receive waits until deadline for one datagram. A cancelled ctx interrupts the wait.
func (c *Channel) Receive(ctx context.Context, deadline time.Time) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, net.ErrClosed
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, maxReplySize)
	n, _, err := c.conn.ReadFromUDP(buf)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, domain.ErrNoReply
		}
		return nil, err
	}
	return buf[:n], nil
}

// Close closes the socket. Closing twice is a no-op.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

var (
	_ ports.Dialer  = (*Dialer)(nil)
	_ ports.Channel = (*Channel)(nil)
)
