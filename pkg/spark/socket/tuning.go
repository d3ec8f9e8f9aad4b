// Package socket applies TCP options to the server's listener and to every
// accepted connection.
//
// Options are set through the raw file descriptor. Platform specific parts
// live in tuning_unix.go, tuning_linux.go and tuning_other.go.
package socket

import (
	"context"
	"net"
	"syscall"
	"time"
)

// Config represents socket tuning configuration.
// Zero values mean "use system defaults".
type Config struct {
	// NoDelay disables Nagle's algorithm (TCP_NODELAY).
	// Responses are written in a single Write, so there is nothing to coalesce.
	NoDelay bool

	// KeepAlive enables SO_KEEPALIVE on accepted connections.
	KeepAlive bool

	// KeepAlivePeriod is the idle time before the first probe.
	// Default: 0 (system default)
	KeepAlivePeriod time.Duration

	// RecvBuffer is SO_RCVBUF in bytes. 0 keeps the system default.
	RecvBuffer int

	// SendBuffer is SO_SNDBUF in bytes. 0 keeps the system default.
	SendBuffer int

	// ReuseAddr sets SO_REUSEADDR on the listener so a restarted server can
	// bind while old connections sit in TIME_WAIT.
	ReuseAddr bool

	// DeferAccept only wakes Accept once request bytes arrive (Linux only).
	DeferAccept bool
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		NoDelay:   true,
		KeepAlive: true,
		ReuseAddr: true,
	}
}

// Listen announces on the local TCP address with cfg applied to the
// listening socket. A nil cfg uses DefaultConfig.
func Listen(ctx context.Context, address string, cfg *Config) (net.Listener, error) {
	lc := ListenConfig(cfg)
	return lc.Listen(ctx, "tcp", address)
}

// ListenConfig returns a net.ListenConfig whose Control hook applies the
// listener options of cfg before bind.
func ListenConfig(cfg *Config) *net.ListenConfig {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	lc := &net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var opErr error
			err := c.Control(func(fd uintptr) {
				opErr = applyListenerOptions(fd, cfg)
			})
			if err != nil {
				return err
			}
			return opErr
		},
	}

	// Keep-alive is set per connection in Apply.
	lc.KeepAlive = -1
	return lc
}

// Apply sets the connection options of cfg on an accepted connection.
// Connections that are not TCP (pipes, in-memory listeners) are left
// untouched. Only a failing TCP_NODELAY is reported; the buffer and
// keep-alive options are best effort.
func Apply(conn net.Conn, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}

	rawConn, err := tcpConn.SyscallConn()
	if err != nil {
		return err
	}

	var opErr error
	err = rawConn.Control(func(fd uintptr) {
		opErr = applyConnOptions(fd, cfg)
	})
	if err != nil {
		return err
	}
	return opErr
}
