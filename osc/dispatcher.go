package osc

import (
	"fmt"
	"log/slog"
	"net"
	"runtime"
	"strings"
)

// Method is an interface for OSC Methods. A Method receives the decoded
// message and the network address it was received from.
type Method interface {
	HandleMessage(msg *Message, sender net.Addr)
}

// MethodFunc implements the Method interface. Type definition for an OSC
// Method function.
type MethodFunc func(msg *Message, sender net.Addr)

// HandleMessage calls itself with the given OSC Message. Implements the
// Method interface.
func (f MethodFunc) HandleMessage(msg *Message, sender net.Addr) {
	f(msg, sender)
}

// Dispatcher routes received OSC Messages to the Method registered for their
// exact address. Messages with no registered Method go to the fallback.
//
// The method table is built once at startup and is not safe for concurrent
// modification; Dispatch runs synchronously on the caller's goroutine.
type Dispatcher struct {
	methods  map[string]Method
	fallback Method
	logger   *slog.Logger
}

// NewDispatcher returns a Dispatcher with an empty method table. The default
// fallback logs the unmatched address and arguments through logger.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{methods: make(map[string]Method), logger: logger}
}

// AddMethod registers a new OSC Method for the given OSC address. The address
// must be literal: wildcard characters are rejected, as is registering the
// same address twice.
func (d *Dispatcher) AddMethod(addr string, method Method) error {
	if strings.ContainsAny(addr, "*?,[]{}# ") {
		return fmt.Errorf("AddMethod: address %q may not contain any characters in \"*?,[]{}# \"", addr)
	}

	if !strings.HasPrefix(addr, "/") {
		return fmt.Errorf("AddMethod: address %q does not begin with '/'", addr)
	}

	if _, ok := d.methods[addr]; ok {
		return fmt.Errorf("AddMethod: address %q is already registered", addr)
	}

	d.methods[addr] = method
	return nil
}

// AddMethodFunc allows you to just pass a MethodFunc.
func (d *Dispatcher) AddMethodFunc(addr string, method MethodFunc) error {
	return d.AddMethod(addr, method)
}

// SetFallback replaces the fallback Method invoked for unmatched addresses.
func (d *Dispatcher) SetFallback(method Method) {
	d.fallback = method
}

// Dispatch routes msg to the Method registered for its address, or to the
// fallback if no exact match exists. A panicking Method is recovered and
// logged here so one bad datagram cannot take down the receive loop.
func (d *Dispatcher) Dispatch(msg *Message, sender net.Addr) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			d.logger.Error("panic in OSC method",
				"address", msg.Address,
				"sender", addrString(sender),
				"panic", r,
				"stack", string(buf))
		}
	}()

	if method, ok := d.methods[msg.Address]; ok {
		method.HandleMessage(msg, sender)
		return
	}

	if d.fallback != nil {
		d.fallback.HandleMessage(msg, sender)
		return
	}

	d.logger.Info("received OSC message with unhandled address",
		"address", msg.Address,
		"sender", addrString(sender),
		"arguments", fmt.Sprintf("%v", msg.Arguments))
}

func addrString(a net.Addr) string {
	if a == nil {
		return "<nil>"
	}
	return a.String()
}
