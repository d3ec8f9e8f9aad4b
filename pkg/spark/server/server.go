// Package server accepts TCP connections and serves one HTTP/1.x request on
// each, dispatching through an immutable router.Table.
//
// Every accepted connection runs in its own goroutine and is closed after
// its single response. Cancelling the context passed to Serve closes the
// listener and makes Serve return nil; connections already accepted run to
// completion on their own and can be awaited with Wait.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yourusername/spark/pkg/spark/metrics"
	"github.com/yourusername/spark/pkg/spark/router"
	"github.com/yourusername/spark/pkg/spark/socket"
)

var (
	// ErrNilTable is returned by New when no routing table is given.
	ErrNilTable = errors.New("server: routing table is required")

	// ErrServerStarted is returned by Serve when the server is already serving.
	ErrServerStarted = errors.New("server: already serving")
)

// Server serves requests against a fixed routing table.
type Server struct {
	config  Config
	table   *router.Table
	logger  *slog.Logger
	metrics *metrics.Collector
	stats   Stats

	readerPool sync.Pool

	started  atomic.Bool
	mu       sync.Mutex
	listener net.Listener
	ready    chan struct{}

	wg sync.WaitGroup
}

// New creates a server for table. Zero Config fields take their defaults,
// except Host and Port which are used as given.
func New(config Config, table *router.Table) (*Server, error) {
	if table == nil {
		return nil, ErrNilTable
	}

	config = config.withDefaults()

	s := &Server{
		config:  config,
		table:   table,
		logger:  config.Logger,
		metrics: config.Metrics,
		ready:   make(chan struct{}),
	}
	s.stats.StartTime = time.Now()

	size := config.ReadBufferSize
	s.readerPool.New = func() any {
		return bufio.NewReaderSize(nil, size)
	}

	return s, nil
}

// ListenAndServe binds Config.Addr and serves until ctx is cancelled.
// A context cancelled before the listener is bound also returns nil.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.config.Addr()
	ln, err := socket.Listen(ctx, addr, s.config.Socket)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("server: listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then returns nil.
// Any other Accept error is fatal: ln is closed and the error returned.
// Serve takes ownership of ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if !s.started.CompareAndSwap(false, true) {
		ln.Close()
		return ErrServerStarted
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	close(s.ready)

	var shuttingDown atomic.Bool
	stop := context.AfterFunc(ctx, func() {
		shuttingDown.Store(true)
		ln.Close()
	})
	defer stop()

	s.logger.Info("server started",
		slog.String("addr", ln.Addr().String()),
		slog.Int("routes", s.table.Len()),
	)

	for {
		rwc, err := ln.Accept()
		if err != nil {
			if shuttingDown.Load() || ctx.Err() != nil {
				s.logger.Info("server stopped",
					slog.String("addr", ln.Addr().String()),
					slog.Uint64("connections", s.stats.TotalConnections.Load()),
				)
				return nil
			}

			s.metrics.AcceptError()
			ln.Close()
			s.logger.Error("accept failed", slog.String("error", err.Error()))
			return fmt.Errorf("server: accept: %w", err)
		}

		s.stats.TotalConnections.Add(1)
		s.wg.Add(1)
		go s.handle(ctx, rwc)
	}
}

// handle serves one accepted connection.
func (s *Server) handle(ctx context.Context, rwc net.Conn) {
	defer s.wg.Done()

	s.stats.ActiveConnections.Add(1)
	defer s.stats.ActiveConnections.Add(-1)

	s.metrics.ConnectionOpened()
	defer s.metrics.ConnectionClosed()

	if err := socket.Apply(rwc, s.config.Socket); err != nil {
		s.logger.Debug("socket tuning failed",
			slog.String("remote", remoteAddr(rwc)),
			slog.String("error", err.Error()),
		)
	}

	s.newConn(rwc).serve(ctx)
}

func (s *Server) getReader(r io.Reader) *bufio.Reader {
	br := s.readerPool.Get().(*bufio.Reader)
	br.Reset(r)
	return br
}

func (s *Server) putReader(br *bufio.Reader) {
	br.Reset(nil)
	s.readerPool.Put(br)
}

// Wait blocks until every accepted connection has been served.
func (s *Server) Wait() {
	s.wg.Wait()
}

// Ready is closed once Serve has its listener, after which Addr is valid.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the listener address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stats returns server statistics
func (s *Server) Stats() *Stats {
	return &s.stats
}

// Table returns the routing table being served.
func (s *Server) Table() *router.Table {
	return s.table
}
