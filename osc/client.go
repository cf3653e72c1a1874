package osc

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

// Client enables you to send OSC Packets to a specified server.
// Send may be called from several goroutines.
type Client struct {
	mu           sync.Mutex
	conn         net.Conn
	logger       *zerolog.Logger
	metrics      *Metrics
	writeTimeout time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger encode and write failures are reported to.
func WithLogger(l *zerolog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithMetrics counts sent packets and encode failures.
func WithMetrics(m *Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// WithWriteTimeout bounds each socket write.
func WithWriteTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.writeTimeout = d }
}

// Dial creates a new OSC Client with a connection to the specified server.
func Dial(addr string, opts ...ClientOption) (*Client, error) {
	a, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}

	conn, err := net.DialUDP("udp", nil, a)
	if err != nil {
		return nil, err
	}
	return NewClient(conn, opts...), nil
}

// NewClient wraps an already connected socket.
func NewClient(conn net.Conn, opts ...ClientOption) *Client {
	c := &Client{conn: conn}
	for _, o := range opts {
		o(c)
	}
	c.logger = loggerOrNop(c.logger)
	return c
}

// Send encodes packet and writes it as one datagram. If encoding fails
// nothing is written and every recorded error is logged and returned.
func (c *Client) Send(packet Packet) error {
	data, err := packet.MarshalBinary()
	if err != nil {
		c.metrics.encodeFailed()
		for _, e := range multierr.Errors(err) {
			c.logger.Warn().Err(e).Str("packet", packetType(packet)).Msg("osc: encode failed")
		}
		return fmt.Errorf("Send: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeTimeout > 0 {
		if err = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}

	if _, err = c.conn.Write(data); err != nil {
		c.logger.Error().Err(err).Stringer("remote", c.conn.RemoteAddr()).Msg("osc: write failed")
		return err
	}

	c.metrics.sent(packet)
	c.logger.Trace().Int("bytes", len(data)).Str("packet", packetType(packet)).Msg("osc: sent")
	return nil
}

// Close closes the connection to the server.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}
