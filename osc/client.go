package osc

import (
	"fmt"
	"net"
)

// Client sends OSC messages from a socket bound to an ephemeral local port.
// Unlike a dialed connection it can address each message to a different
// destination, which is what the reply path needs: replies go to the
// sender's host on a fixed port.
type Client struct {
	conn net.PacketConn
}

// NewClient opens the send socket.
func NewClient() (*Client, error) {
	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return nil, fmt.Errorf("osc: open send socket: %w", err)
	}
	return &Client{conn: conn}, nil
}

// SendTo marshals msg and sends it to the given "host:port" destination.
func (c *Client) SendTo(msg *Message, dest string) error {
	addr, err := net.ResolveUDPAddr("udp", dest)
	if err != nil {
		return fmt.Errorf("SendTo: resolve %s: %w", dest, err)
	}

	data, err := msg.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = c.conn.WriteTo(data, addr)
	return err
}

// LocalAddr returns the local address of the send socket.
func (c *Client) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// Close closes the send socket.
func (c *Client) Close() error {
	return c.conn.Close()
}
