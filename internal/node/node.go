// Package node implements the OSC service node: the fixed handler set, the
// parameter store they mutate, and the Created → Listening → Running →
// Stopped runtime around the two UDP sockets.
package node

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"

	"maxnode/internal/sensor"
	"maxnode/osc"
)

// Default UDP ports assumed by the Max patcher this node talks to.
const (
	DefaultRecvPort = 12001
	DefaultSendPort = 12000
)

// State is the runtime state of a Node. There is no transition out of
// StateStopped.
type State int32

const (
	StateCreated State = iota
	StateListening
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateListening:
		return "listening"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Options configures a Node. Zero-value ports fall back to the defaults;
// RecvPort may be set to -1 to bind an ephemeral port (used by tests).
type Options struct {
	RecvPort int
	SendPort int
	Sensor   sensor.Source
	Logger   *slog.Logger
	Metrics  *Metrics
}

// Node is the service node. One goroutine (the receive loop) owns the
// dispatcher and Params; replies leave through a separate send socket bound
// to an ephemeral port.
type Node struct {
	recvPort int
	sendPort int

	logger  *slog.Logger
	metrics *Metrics
	sens    sensor.Source

	params *Params
	pings  atomic.Uint64

	dispatcher *osc.Dispatcher
	server     *osc.Server
	client     *osc.Client
	conn       net.PacketConn

	state atomic.Int32
	quit  context.CancelFunc
}

// New returns a Node in StateCreated. No sockets are opened yet.
func New(opts Options) *Node {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	recvPort := opts.RecvPort
	if recvPort == 0 {
		recvPort = DefaultRecvPort
	} else if recvPort < 0 {
		recvPort = 0
	}
	sendPort := opts.SendPort
	if sendPort == 0 {
		sendPort = DefaultSendPort
	}

	n := &Node{
		recvPort: recvPort,
		sendPort: sendPort,
		logger:   logger,
		metrics:  metrics,
		sens:     opts.Sensor,
		params:   NewParams(),
	}

	n.dispatcher = osc.NewDispatcher(logger)
	n.server = &osc.Server{
		Logger:  logger,
		Handler: n.handle,
		OnDropped: func(sender net.Addr, err error) {
			metrics.DecodeErrors.Inc()
		},
	}

	return n
}

// State returns the current runtime state.
func (n *Node) State() State {
	return State(n.state.Load())
}

// Params exposes the parameter store for inspection. Read it only while the
// node is not running; the dispatch goroutine is the sole owner in between.
func (n *Node) Params() *Params {
	return n.params
}

// Addr returns the bound receive address, or nil before Listen.
func (n *Node) Addr() net.Addr {
	if n.conn == nil {
		return nil
	}
	return n.conn.LocalAddr()
}

// Listen binds the receive and send sockets and registers the handler set,
// moving the node from Created to Listening. A bind failure leaves the node
// unusable and is fatal at startup.
func (n *Node) Listen() error {
	if s := n.State(); s != StateCreated {
		return fmt.Errorf("listen: node is %s", s)
	}

	conn, err := net.ListenPacket("udp", fmt.Sprintf(":%d", n.recvPort))
	if err != nil {
		return fmt.Errorf("bind receive port %d: %w", n.recvPort, err)
	}

	client, err := osc.NewClient()
	if err != nil {
		conn.Close()
		return err
	}

	if err := n.registerHandlers(); err != nil {
		conn.Close()
		client.Close()
		return fmt.Errorf("register handlers: %w", err)
	}

	n.conn = conn
	n.client = client
	n.state.Store(int32(StateListening))

	n.logger.Info("listening",
		"recv", conn.LocalAddr().String(),
		"send", client.LocalAddr().String(),
		"reply_port", n.sendPort)
	return nil
}

// Run drives the receive loop until a /quit message arrives or ctx is
// canceled, then moves the node to Stopped and closes both sockets. It
// returns nil on a clean shutdown.
func (n *Node) Run(ctx context.Context) error {
	if !n.state.CompareAndSwap(int32(StateListening), int32(StateRunning)) {
		return fmt.Errorf("run: node is %s", n.State())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	n.quit = cancel

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			// Closing the receive socket terminates the serve loop.
			n.conn.Close()
		case <-done:
		}
	}()

	err := n.server.Serve(n.conn)
	close(done)

	n.state.Store(int32(StateStopped))
	n.server.Close()
	n.client.Close()
	n.logger.Info("event loop exited")

	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// handle is the receive loop's entry point for every well-formed message.
func (n *Node) handle(msg *osc.Message, sender net.Addr) {
	n.metrics.MessagesReceived.Inc()
	n.dispatcher.Dispatch(msg, sender)
}
