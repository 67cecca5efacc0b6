package osc

import (
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_AddMethodFunc(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		addr     string
		wantErr  bool
	}{
		{"valid", "", "/address/test", false},
		{"wildcard", "", "/address*/test", true},
		{"space", "", "/address test", true},
		{"no_slash", "", "address", true},
		{"already_exists", "/address/test", "/address/test", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(testLogger())
			if tt.existing != "" {
				require.NoError(t, d.AddMethodFunc(tt.existing, func(*Message, net.Addr) {}))
			}
			err := d.AddMethodFunc(tt.addr, func(*Message, net.Addr) {})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDispatcher_DispatchExactMatch(t *testing.T) {
	d := NewDispatcher(testLogger())

	var got []string
	for _, addr := range []string{"/os", "/osc", "/osc/sub"} {
		addr := addr
		require.NoError(t, d.AddMethodFunc(addr, func(*Message, net.Addr) {
			got = append(got, addr)
		}))
	}

	fallbacks := 0
	d.SetFallback(MethodFunc(func(*Message, net.Addr) { fallbacks++ }))

	d.Dispatch(NewMessage("/osc"), nil)

	assert.Equal(t, []string{"/osc"}, got, "exactly the registered method for /osc must run")
	assert.Zero(t, fallbacks)
}

func TestDispatcher_DispatchFallback(t *testing.T) {
	d := NewDispatcher(testLogger())

	handled := 0
	require.NoError(t, d.AddMethodFunc("/known", func(*Message, net.Addr) { handled++ }))

	var unmatched *Message
	fallbacks := 0
	d.SetFallback(MethodFunc(func(msg *Message, _ net.Addr) {
		fallbacks++
		unmatched = msg
	}))

	msg := NewMessage("/unknown", int32(7))
	d.Dispatch(msg, nil)

	assert.Zero(t, handled)
	assert.Equal(t, 1, fallbacks, "fallback must run exactly once")
	assert.Equal(t, msg, unmatched)
}

func TestDispatcher_DispatchRecoversPanic(t *testing.T) {
	d := NewDispatcher(testLogger())
	require.NoError(t, d.AddMethodFunc("/boom", func(*Message, net.Addr) {
		panic("handler failure")
	}))
	require.NoError(t, d.AddMethodFunc("/ok", func(*Message, net.Addr) {}))

	assert.NotPanics(t, func() {
		d.Dispatch(NewMessage("/boom"), nil)
	})

	// The dispatcher keeps working after a recovered panic.
	assert.NotPanics(t, func() {
		d.Dispatch(NewMessage("/ok"), nil)
	})
}

func TestDispatcher_DispatchNoFallback(t *testing.T) {
	d := NewDispatcher(testLogger())
	assert.NotPanics(t, func() {
		d.Dispatch(NewMessage("/nobody/home", "args", int32(1)), nil)
	})
}
