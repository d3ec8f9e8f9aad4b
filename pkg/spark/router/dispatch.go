package router

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/yourusername/spark/pkg/spark/http1"
	"github.com/yourusername/spark/pkg/spark/pool/buffers"
)

// Rendered is a handler result ready for the response writer.
type Rendered struct {
	Payload     string
	ContentType string
}

// NotFound returns the 404 error reported for an unregistered route.
func NotFound(method, path string) *http1.ProtocolError {
	return http1.NotFound(fmt.Sprintf("Route %s %s not found", method, path))
}

// Resolve looks up (method, path) in t. A miss is a 404 ProtocolError; a
// path registered under another method is a miss like any other.
func (t *Table) Resolve(method, path string) (Handler, error) {
	h, ok := t.Lookup(method, path)
	if !ok {
		return nil, NotFound(method, path)
	}
	return h, nil
}

// Dispatch runs h with body and renders its result.
//
// Text results are sent verbatim as text/plain; anything else is encoded as
// JSON. A handler error, a handler panic or an encoding failure is returned
// as a 500 ProtocolError carrying the cause in its message.
func Dispatch(h Handler, body http1.Body) (out Rendered, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = http1.Internal(fmt.Errorf("handler panic: %v", r))
		}
	}()

	res, err := h(body)
	if err != nil {
		return Rendered{}, http1.Internal(err)
	}

	if res.IsText() {
		return Rendered{Payload: res.text, ContentType: http1.ContentTypePlain}, nil
	}

	payload, err := encodeJSON(res.value)
	if err != nil {
		return Rendered{}, http1.Internal(err)
	}
	return Rendered{Payload: payload, ContentType: http1.ContentTypeJSON}, nil
}

// encodeJSON renders v compactly, without HTML escaping and without the
// encoder's trailing newline (the response writer appends its own).
func encodeJSON(v any) (string, error) {
	buf := buffers.Acquire(0)
	defer buffers.Release(buf)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode response: %w", err)
	}

	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}
