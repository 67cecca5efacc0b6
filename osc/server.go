package osc

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

// MaxPacketSize is the largest datagram the server will read. It matches the
// maximum payload of a UDP packet over IPv4.
const MaxPacketSize = 65507

var bPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, MaxPacketSize)
		return &b
	},
}

// HandlerFunc receives every well-formed message read by the server together
// with the sender's address.
type HandlerFunc func(msg *Message, sender net.Addr)

// Server reads OSC messages from a UDP socket and hands them to Handler one
// at a time, in arrival order. Malformed datagrams are dropped.
type Server struct {
	Addr        string
	Handler     HandlerFunc
	ReadTimeout time.Duration
	Logger      *slog.Logger

	// OnDropped, if set, is invoked for every datagram dropped because it
	// could not be parsed.
	OnDropped func(sender net.Addr, err error)

	mu   sync.Mutex
	conn net.PacketConn
}

// ListenAndServe binds the receive socket and serves it until Close is
// called. A bind failure is returned to the caller before any datagram is
// read.
func (s *Server) ListenAndServe() error {
	conn, err := net.ListenPacket("udp", s.Addr)
	if err != nil {
		return fmt.Errorf("osc: listen %s: %w", s.Addr, err)
	}
	return s.Serve(conn)
}

// Serve reads datagrams from c until the server is closed. Each well-formed
// message is handed to Handler synchronously, so messages are processed in
// the order the socket delivers them. Serve returns nil after Close.
func (s *Server) Serve(c net.PacketConn) error {
	s.mu.Lock()
	if s.conn != nil {
		s.mu.Unlock()
		return errors.New("osc: server already serving")
	}
	s.conn = c
	s.mu.Unlock()

	logger := s.logger()

	var tempDelay time.Duration
	for {
		msg, sender, err := s.read(c)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}

			if errors.Is(err, ErrMalformed) {
				logger.Debug("dropping malformed datagram", "sender", addrString(sender), "error", err)
				if s.OnDropped != nil {
					s.OnDropped(sender, err)
				}
				continue
			}

			if ne, ok := err.(net.Error); ok && ne.Temporary() { //nolint:staticcheck // best effort, same as net/http
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if max := 1 * time.Second; tempDelay > max {
					tempDelay = max
				}
				time.Sleep(tempDelay)
				continue
			}

			return err
		}
		tempDelay = 0

		if s.Handler != nil {
			s.Handler(msg, sender)
		}
	}
}

// Close closes the receive socket, terminating Serve. It is safe to call
// more than once; the socket is closed exactly once.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// read retrieves and parses a single datagram.
func (s *Server) read(c net.PacketConn) (*Message, net.Addr, error) {
	if s.ReadTimeout != 0 {
		if err := c.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			return nil, nil, err
		}
	}

	b := bPool.Get().(*[]byte)
	defer bPool.Put(b)

	n, sender, err := c.ReadFrom(*b)
	if err != nil {
		return nil, sender, err
	}

	data := make([]byte, n)
	copy(data, (*b)[:n])

	msg, err := ParseMessage(data)
	if err != nil {
		return nil, sender, err
	}
	return msg, sender, nil
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
