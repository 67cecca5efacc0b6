package node

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"maxnode/osc"
)

// Trajectory frames have a fixed shape: two channels of ten samples,
// flattened row-major into the reply.
const (
	trajectoryCols = 10
	trajectoryRows = 2
)

// registerHandlers installs the fixed handler table. The set is registered
// exactly once at startup; a duplicate address here is a programming error
// and fails Listen.
func (n *Node) registerHandlers() error {
	for _, h := range []struct {
		addr   string
		method osc.MethodFunc
	}{
		// Debugging and lifecycle.
		{"/reset", n.handleReset},
		{"/quit", n.handleQuit},
		{"/ping", n.handlePing},
		// Parameter control.
		{"/xfreq", n.handleXFreq},
		{"/yfreq", n.handleYFreq},
		// Events.
		{"/nextframe", n.handleNextFrame},
	} {
		if err := n.dispatcher.AddMethodFunc(h.addr, h.method); err != nil {
			return err
		}
	}

	n.dispatcher.SetFallback(osc.MethodFunc(n.handleUnmatched))
	return nil
}

// handleUnmatched receives every message with no registered address. It logs
// and takes no other action.
func (n *Node) handleUnmatched(msg *osc.Message, sender net.Addr) {
	n.metrics.UnhandledMessages.Inc()
	n.logger.Info("received OSC message with unhandled address",
		"address", msg.Address,
		"sender", senderString(sender),
		"arguments", fmt.Sprintf("%v", msg.Arguments))
}

func (n *Node) handleReset(_ *osc.Message, _ net.Addr) {
	n.logger.Debug("received reset request")
	n.params.Reset()
}

func (n *Node) handleQuit(_ *osc.Message, _ net.Addr) {
	n.logger.Info("received quit request, shutting down")
	n.quit()
}

func (n *Node) handlePing(_ *osc.Message, sender net.Addr) {
	n.logger.Debug("received ping request")

	count := n.pings.Add(1)
	n.metrics.Pings.Inc()
	n.reply(sender, osc.NewMessage("/pong", int32(count)))
}

func (n *Node) handleXFreq(msg *osc.Message, _ net.Addr) {
	v, ok := numericArg(msg, 0)
	if !ok {
		n.logger.Warn("xfreq: missing numeric argument", "arguments", fmt.Sprintf("%v", msg.Arguments))
		return
	}
	n.params.XFreq = v
	n.logger.Debug("xfreq updated", "value", v)
}

func (n *Node) handleYFreq(msg *osc.Message, _ net.Addr) {
	v, ok := numericArg(msg, 0)
	if !ok {
		n.logger.Warn("yfreq: missing numeric argument", "arguments", fmt.Sprintf("%v", msg.Arguments))
		return
	}
	n.params.YFreq = v
	n.logger.Debug("yfreq updated", "value", v)
}

// handleNextFrame fetches one sensor sample and replies with a trajectory
// frame. Each row carries the latest sample of one channel replicated across
// all columns. On a sensor failure it logs and sends no reply.
func (n *Node) handleNextFrame(_ *osc.Message, sender net.Addr) {
	n.logger.Debug("generating next frame")

	if n.sens == nil {
		n.logger.Error("no sensor source configured, skipping trajectory reply")
		return
	}

	reading, err := n.sens.Fetch(context.Background())
	if err != nil {
		n.metrics.SensorErrors.Inc()
		n.logger.Error("sensor fetch failed, skipping trajectory reply", "error", err)
		return
	}

	args := make([]interface{}, 0, 2+trajectoryRows*trajectoryCols)
	args = append(args, int32(trajectoryCols), int32(trajectoryRows))
	for _, row := range [trajectoryRows]float64{reading.AccY, reading.AccZ} {
		for col := 0; col < trajectoryCols; col++ {
			args = append(args, float32(row))
		}
	}

	n.metrics.TrajectoriesSent.Inc()
	n.reply(sender, osc.NewMessage("/trajectory", args...))
}

// reply sends msg to the sender's host on the node's fixed send port.
func (n *Node) reply(sender net.Addr, msg *osc.Message) {
	host, _, err := net.SplitHostPort(senderString(sender))
	if err != nil {
		n.logger.Error("reply: unusable sender address", "sender", senderString(sender), "error", err)
		return
	}

	dest := net.JoinHostPort(host, strconv.Itoa(n.sendPort))
	if err := n.client.SendTo(msg, dest); err != nil {
		n.logger.Error("reply failed", "dest", dest, "address", msg.Address, "error", err)
	}
}

// numericArg returns argument i of msg coerced to float64. Int and float
// arguments of either width are accepted, mirroring whatever the patcher
// happens to send.
func numericArg(msg *osc.Message, i int) (float64, bool) {
	if i >= len(msg.Arguments) {
		return 0, false
	}
	switch v := msg.Arguments[i].(type) {
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func senderString(a net.Addr) string {
	if a == nil {
		return "<nil>"
	}
	return a.String()
}
