package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yourusername/spark/pkg/spark/http1"
	"github.com/yourusername/spark/pkg/spark/router"
)

// mockConn implements net.Conn for testing
type mockConn struct {
	readData      *strings.Reader
	readErr       error // returned once readData is drained; io.EOF if nil
	writeData     *strings.Builder
	writeErr      error
	writes        int
	closed        bool
	readDeadline  time.Time
	writeDeadline time.Time
	mu            sync.Mutex
}

func newMockConn(data string) *mockConn {
	return &mockConn{
		readData:  strings.NewReader(data),
		writeData: &strings.Builder{},
	}
}

func (m *mockConn) Read(b []byte) (n int, err error) {
	n, err = m.readData.Read(b)
	if err == io.EOF && m.readErr != nil {
		return n, m.readErr
	}
	return n, err
}

func (m *mockConn) Write(b []byte) (n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	return m.writeData.Write(b)
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConn) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 8080}
}

func (m *mockConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 12345}
}

func (m *mockConn) SetDeadline(t time.Time) error {
	m.SetReadDeadline(t)
	return m.SetWriteDeadline(t)
}

func (m *mockConn) SetReadDeadline(t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readDeadline = t
	return nil
}

func (m *mockConn) SetWriteDeadline(t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeDeadline = t
	return nil
}

func (m *mockConn) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockConn) GetWritten() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeData.String()
}

func (m *mockConn) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// testTable registers the routes used across the server tests.
func testTable() *router.Table {
	return router.NewBuilder().
		Get("/", router.TextFunc(func(http1.Body) (string, error) {
			return "hi", nil
		})).
		Post("/sum", router.JSONFunc(sumHandler)).
		Post("/echo", func(body http1.Body) (router.Result, error) {
			if body.Kind == http1.BodyText {
				return router.Text(body.Text), nil
			}
			return router.JSON(body.Value), nil
		}).
		Get("/panic", func(http1.Body) (router.Result, error) {
			panic("kaboom")
		}).
		Build()
}

func sumHandler(body http1.Body) (float64, error) {
	obj, ok := body.Value.(map[string]any)
	if !ok {
		return 0, errNoData
	}
	items, ok := obj["data"].([]any)
	if !ok {
		return 0, errNoData
	}

	var sum float64
	for _, it := range items {
		n, ok := it.(float64)
		if !ok {
			return 0, errNoData
		}
		sum += n
	}
	return sum, nil
}

type testError string

func (e testError) Error() string { return string(e) }

const errNoData = testError("data must be a list of numbers")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = discardLogger()
	}
	s, err := New(cfg, testTable())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// serveRaw runs one connection synchronously over a mockConn.
func serveRaw(s *Server, raw string) (*mockConn, *conn) {
	mc := newMockConn(raw)
	c := s.newConn(mc)
	c.serve(context.Background())
	return mc, c
}

// expectedResponse frames a response the way the wire format requires.
func expectedResponse(code int, reason, contentType, payload string) string {
	return fmt.Sprintf("HTTP/1.1 %d %s\r\nContent-Type: %s\r\nContent-Length: %d\r\n\r\n%s\n",
		code, reason, contentType, len(payload)+1, payload)
}

func slogJSON(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
