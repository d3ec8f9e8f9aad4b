package server

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/spark/pkg/spark/http1"
	"github.com/yourusername/spark/pkg/spark/router"
)

// ConnState is the progress of a connection through the request pipeline.
type ConnState int

const (
	// StateAccepted is the initial state of an accepted connection
	StateAccepted ConnState = iota

	// StateLineParsed indicates a valid request line was read
	StateLineParsed

	// StateRouteMatched indicates (method, path) resolved to a handler
	StateRouteMatched

	// StateHeadersParsed indicates the header block was read
	StateHeadersParsed

	// StateHeadersValid indicates the headers passed validation
	StateHeadersValid

	// StateBodyRead indicates the body was read and decoded
	StateBodyRead

	// StateDispatched indicates the handler ran and its result was rendered
	StateDispatched

	// StateResponded indicates the single response was written
	StateResponded

	// StateClosed indicates the connection has been closed
	StateClosed
)

// String returns the string representation of the connection state
func (s ConnState) String() string {
	switch s {
	case StateAccepted:
		return "accepted"
	case StateLineParsed:
		return "line_parsed"
	case StateRouteMatched:
		return "route_matched"
	case StateHeadersParsed:
		return "headers_parsed"
	case StateHeadersValid:
		return "headers_valid"
	case StateBodyRead:
		return "body_read"
	case StateDispatched:
		return "dispatched"
	case StateResponded:
		return "responded"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// conn serves exactly one request on one accepted connection.
//
// Each stage either advances state or fails; the first failure becomes the
// response. Whatever happens, one response is attempted and the connection
// is closed.
type conn struct {
	srv *Server
	rwc net.Conn
	br  *bufio.Reader
	id  string

	state ConnState
	stage ConnState // last state reached before responding
	req   http1.Request
	start time.Time
}

func (s *Server) newConn(rwc net.Conn) *conn {
	return &conn{
		srv:   s,
		rwc:   rwc,
		id:    uuid.NewString(),
		state: StateAccepted,
		start: time.Now(),
	}
}

// serve runs the pipeline, writes the response and closes the connection.
func (c *conn) serve(ctx context.Context) {
	c.br = c.srv.getReader(c.rwc)
	defer func() {
		c.srv.putReader(c.br)
		c.br = nil
		c.rwc.Close()
		c.state = StateClosed
	}()

	if d := c.srv.config.ReadTimeout; d > 0 {
		c.rwc.SetReadDeadline(c.start.Add(d))
	}

	out, err := c.process()
	c.stage = c.state

	code, payload, contentType := http1.StatusOK, out.Payload, out.ContentType
	if err != nil {
		code, payload = c.classify(err)
		contentType = http1.ContentTypePlain
	}

	if d := c.srv.config.WriteTimeout; d > 0 {
		c.rwc.SetWriteDeadline(time.Now().Add(d))
	}

	werr := http1.WriteResponse(c.rwc, code, payload, contentType)
	if werr != nil {
		c.srv.stats.WriteErrors.Add(1)
	} else {
		c.state = StateResponded
	}

	elapsed := time.Since(c.start)
	c.srv.metrics.ObserveResponse(code, elapsed)
	c.log(ctx, code, elapsed, err, werr)
}

// process walks the pipeline stages in order. The route is resolved right
// after the request line so an unknown route is a 404 whatever the headers
// look like.
func (c *conn) process() (router.Rendered, error) {
	req, err := http1.ReadRequestLine(c.br)
	if err != nil {
		return router.Rendered{}, err
	}
	c.req = req
	c.state = StateLineParsed

	h, err := c.srv.table.Resolve(req.Method, req.Path)
	if err != nil {
		return router.Rendered{}, err
	}
	c.state = StateRouteMatched

	header, err := http1.ReadHeaders(c.br)
	if err != nil {
		return router.Rendered{}, err
	}
	c.state = StateHeadersParsed

	if err := http1.ValidateHeaders(header); err != nil {
		return router.Rendered{}, err
	}
	c.state = StateHeadersValid

	body, err := http1.ReadBodyLimit(c.br, header, c.srv.config.MaxBodySize)
	if err != nil {
		return router.Rendered{}, err
	}
	c.state = StateBodyRead

	out, err := router.Dispatch(h, body)
	if err != nil {
		return router.Rendered{}, err
	}
	c.state = StateDispatched

	return out, nil
}

// classify maps a pipeline error to the status code and message sent back.
func (c *conn) classify(err error) (int, string) {
	if pe, ok := http1.AsProtocolError(err); ok {
		c.srv.stats.ProtocolErrors.Add(1)
		return pe.Code, pe.Message
	}
	c.srv.stats.InternalErrors.Add(1)
	return http1.StatusInternalServerError, http1.InternalMessage(err)
}

func (c *conn) log(ctx context.Context, code int, elapsed time.Duration, err, werr error) {
	level := slog.LevelInfo
	switch {
	case code >= 500 || werr != nil:
		level = slog.LevelError
	case code >= 400:
		level = slog.LevelWarn
	}

	logger := c.srv.logger
	if !logger.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, 9)
	attrs = append(attrs,
		slog.String("conn_id", c.id),
		slog.String("remote", remoteAddr(c.rwc)),
	)
	if c.req.Method != "" {
		attrs = append(attrs,
			slog.String("method", c.req.Method),
			slog.String("path", c.req.Path),
		)
	}
	attrs = append(attrs,
		slog.Int("status", code),
		slog.String("stage", c.stage.String()),
		slog.Float64("duration_ms", float64(elapsed.Microseconds())/1000),
	)
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	if werr != nil {
		attrs = append(attrs, slog.String("write_error", werr.Error()))
	}

	logger.LogAttrs(ctx, level, "request", attrs...)
}

func remoteAddr(c net.Conn) string {
	if a := c.RemoteAddr(); a != nil {
		return a.String()
	}
	return ""
}
