// Package config loads the spark server configuration from a YAML file.
//
// Example file:
//
//	server:
//	  host: 0.0.0.0
//	  port: 8080
//	  read_timeout: 10s
//	log:
//	  level: info
//	  format: json
//	metrics:
//	  enabled: true
//	  addr: 127.0.0.1:9090
//	socket:
//	  no_delay: true
//	  keep_alive: true
//
// Missing sections and fields keep the values of Default.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"github.com/yourusername/spark/pkg/spark/http1"
	"github.com/yourusername/spark/pkg/spark/metrics"
	"github.com/yourusername/spark/pkg/spark/server"
	"github.com/yourusername/spark/pkg/spark/socket"
)

// ErrMetricsAddr is returned when metrics are enabled without an address.
var ErrMetricsAddr = errors.New("config: metrics.addr is required when metrics are enabled")

// Config is the on-disk configuration.
type Config struct {
	Server  Server  `yaml:"server"`
	Log     Log     `yaml:"log"`
	Metrics Metrics `yaml:"metrics"`
	Socket  Socket  `yaml:"socket"`
}

// Server configures the listener and per-connection limits.
type Server struct {
	Host           string   `yaml:"host" validate:"omitempty,hostname|ip"`
	Port           int      `yaml:"port" validate:"gte=0,lte=65535"`
	ReadTimeout    Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout   Duration `yaml:"write_timeout" validate:"gte=0"`
	MaxBodySize    int      `yaml:"max_body_size" validate:"gte=-1"`
	ReadBufferSize int      `yaml:"read_buffer_size" validate:"omitempty,gte=512,lte=1048576"`
}

// Log selects the slog handler.
type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// Metrics configures the Prometheus listener.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr" validate:"omitempty,hostname_port"`
	Runtime bool   `yaml:"runtime"`
}

// Socket mirrors socket.Config.
type Socket struct {
	NoDelay         bool     `yaml:"no_delay"`
	KeepAlive       bool     `yaml:"keep_alive"`
	KeepAlivePeriod Duration `yaml:"keep_alive_period" validate:"gte=0"`
	RecvBuffer      int      `yaml:"recv_buffer" validate:"gte=0"`
	SendBuffer      int      `yaml:"send_buffer" validate:"gte=0"`
	ReuseAddr       bool     `yaml:"reuse_addr"`
	DeferAccept     bool     `yaml:"defer_accept"`
}

// Duration is a time.Duration written as "10s", "1m30s" and so on.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	sock := socket.DefaultConfig()
	return &Config{
		Server: Server{
			Host:           "127.0.0.1",
			Port:           8080,
			MaxBodySize:    http1.DefaultMaxBodySize,
			ReadBufferSize: server.DefaultReadBufferSize,
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
		Metrics: Metrics{
			Addr: "127.0.0.1:9090",
		},
		Socket: Socket{
			NoDelay:   sock.NoDelay,
			KeepAlive: sock.KeepAlive,
			ReuseAddr: sock.ReuseAddr,
		},
	}
}

// Load reads the YAML file at path over Default and validates the result.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML data over Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and enums.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("config: invalid: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: %w", err)
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return ErrMetricsAddr
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewLogger builds the slog.Logger described by the log section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Log.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// SocketConfig converts the socket section.
func (c *Config) SocketConfig() *socket.Config {
	return &socket.Config{
		NoDelay:         c.Socket.NoDelay,
		KeepAlive:       c.Socket.KeepAlive,
		KeepAlivePeriod: time.Duration(c.Socket.KeepAlivePeriod),
		RecvBuffer:      c.Socket.RecvBuffer,
		SendBuffer:      c.Socket.SendBuffer,
		ReuseAddr:       c.Socket.ReuseAddr,
		DeferAccept:     c.Socket.DeferAccept,
	}
}

// ServerConfig converts c into a server.Config using logger and m, which
// may be nil.
func (c *Config) ServerConfig(logger *slog.Logger, m *metrics.Collector) server.Config {
	return server.Config{
		Host:           c.Server.Host,
		Port:           c.Server.Port,
		ReadTimeout:    time.Duration(c.Server.ReadTimeout),
		WriteTimeout:   time.Duration(c.Server.WriteTimeout),
		MaxBodySize:    c.Server.MaxBodySize,
		ReadBufferSize: c.Server.ReadBufferSize,
		Socket:         c.SocketConfig(),
		Logger:         logger,
		Metrics:        m,
	}
}
