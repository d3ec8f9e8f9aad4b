package server

import (
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/yourusername/spark/pkg/spark/http1"
	"github.com/yourusername/spark/pkg/spark/metrics"
	"github.com/yourusername/spark/pkg/spark/socket"
)

// DefaultReadBufferSize is the per-connection bufio.Reader size.
const DefaultReadBufferSize = 4096

// Config holds server configuration
type Config struct {
	// Host is the interface to bind. Empty binds all interfaces.
	// Default: "127.0.0.1"
	Host string

	// Port is the TCP port to bind. 0 picks an ephemeral port.
	// Default: 8080
	Port int

	// ReadTimeout bounds reading the whole request, measured from accept.
	// Default: 0 (no deadline, a silent client holds its goroutine)
	ReadTimeout time.Duration

	// WriteTimeout bounds writing the response.
	// Default: 0 (no deadline)
	WriteTimeout time.Duration

	// MaxBodySize is the largest Content-Length accepted. Larger bodies are
	// answered with 500 before anything is allocated. Negative disables it.
	// Default: 10 MB
	MaxBodySize int

	// ReadBufferSize is the size of the read buffer per connection
	// Default: 4096 bytes
	ReadBufferSize int

	// Socket tunes the listener and accepted TCP connections.
	// Default: socket.DefaultConfig()
	Socket *socket.Config

	// Logger receives one line per connection plus lifecycle events.
	// Default: slog.Default()
	Logger *slog.Logger

	// Metrics records connection and response metrics. Nil disables them.
	Metrics *metrics.Collector
}

// DefaultConfig returns the default server configuration
func DefaultConfig() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           8080,
		MaxBodySize:    http1.DefaultMaxBodySize,
		ReadBufferSize: DefaultReadBufferSize,
		Socket:         socket.DefaultConfig(),
		Logger:         slog.Default(),
	}
}

// Addr returns the host:port the server binds.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// withDefaults fills the zero fields that have no meaningful zero value.
// Host and Port are left alone: both zero values are valid bind targets.
func (c Config) withDefaults() Config {
	if c.MaxBodySize == 0 {
		c.MaxBodySize = http1.DefaultMaxBodySize
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = DefaultReadBufferSize
	}
	if c.Socket == nil {
		c.Socket = socket.DefaultConfig()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
