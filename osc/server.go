package osc

import (
	"context"
	"errors"
	"net"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

// Server represents an OSC server. The server listens on Addr for incoming OSC
// packets and bundles and publishes each decoded datagram.
type Server struct {
	Addr        string
	ReadTimeout time.Duration
	Logger      *zerolog.Logger
	Metrics     *Metrics

	// MaxPending caps the datagrams read but not yet taken from out. Serve
	// stops reading while the cap is reached. Zero means DefaultMaxPending.
	MaxPending int
}

// DefaultMaxPending is the MaxPending used when the field is zero.
const DefaultMaxPending = 1024

// Received is one decoded datagram. Exactly one of Packet and Err is set.
type Received struct {
	Packet Packet
	Addr   net.Addr
	Err    error
}

// ListenAndServe listens on s.Addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, out chan<- Received) error {
	ln, err := net.ListenPacket("udp", s.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	return s.Serve(ctx, ln, out)
}

// Serve reads datagrams from c until ctx is done or the connection fails.
// Every datagram is decoded on its own goroutine and sent to out; delivery
// order is not guaranteed. At most MaxPending datagrams wait on out at once;
// beyond that Serve leaves further datagrams in the socket until the consumer
// catches up. Serve returns once all pending sends have finished, so the
// caller may close out afterwards.
func (s *Server) Serve(ctx context.Context, c net.PacketConn, out chan<- Received) error {
	log := s.logger()

	// Unblock the pending read when ctx is cancelled.
	stop := context.AfterFunc(ctx, func() {
		_ = c.SetReadDeadline(time.Unix(1, 0))
	})
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	pending := make(chan struct{}, s.maxPending())

	var tempDelay time.Duration
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		select {
		case pending <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}

		data, addr, err := s.readFromConnection(c)
		if err != nil {
			<-pending
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				tempDelay = 0
				continue
			}
			if isTemporary(err) {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if max := 1 * time.Second; tempDelay > max {
					tempDelay = max
				}
				log.Warn().Err(err).Dur("retry_in", tempDelay).Msg("osc: read failed")
				time.Sleep(tempDelay)
				continue
			}
			log.Error().Err(err).Msg("osc: read failed")
			return err
		}
		tempDelay = 0

		wg.Add(1)
		go func() {
			defer func() {
				<-pending
				wg.Done()
			}()
			s.serve(ctx, data, addr, out)
		}()
	}
}

func (s *Server) serve(ctx context.Context, data []byte, a net.Addr, out chan<- Received) {
	log := s.logger()
	defer func() {
		if err := recover(); err != nil {
			buf := make([]byte, 64<<10)
			buf = buf[:runtime.Stack(buf, false)]
			log.Error().Interface("panic", err).Stringer("remote", a).Bytes("stack", buf).Msg("osc: panic decoding packet")
		}
	}()

	r := Received{Addr: a}
	r.Packet, r.Err = ParsePacket(data)
	if r.Err != nil {
		s.Metrics.decodeFailed()
		for _, e := range multierr.Errors(r.Err) {
			log.Debug().Err(e).Stringer("remote", a).Int("bytes", len(data)).Msg("osc: decode failed")
		}
	}

	select {
	case out <- r:
	case <-ctx.Done():
	}
}

// ReceivePacket reads a single datagram from c and decodes it.
func (s *Server) ReceivePacket(c net.PacketConn) (Packet, net.Addr, error) {
	data, a, err := s.readFromConnection(c)
	if err != nil {
		return nil, a, err
	}

	p, err := ParsePacket(data)
	if err != nil {
		s.Metrics.decodeFailed()
	}
	return p, a, err
}

// readFromConnection reads one datagram into a fresh slice.
func (s *Server) readFromConnection(c net.PacketConn) ([]byte, net.Addr, error) {
	if s.ReadTimeout != 0 {
		if err := c.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			return nil, nil, err
		}
	}

	b := bPool.Get().(*[]byte)
	defer bPool.Put(b)

	n, a, err := c.ReadFrom(*b)
	if err != nil {
		return nil, a, err
	}
	s.Metrics.received(n)

	bb := make([]byte, n)
	copy(bb, (*b)[:n])
	return bb, a, nil
}

func (s *Server) maxPending() int {
	if s.MaxPending > 0 {
		return s.MaxPending
	}
	return DefaultMaxPending
}

func (s *Server) logger() *zerolog.Logger {
	return loggerOrNop(s.Logger)
}

// isTemporary reports whether err is worth retrying.
func isTemporary(err error) bool {
	var te interface{ Temporary() bool }
	return errors.As(err, &te) && te.Temporary()
}
