package http1

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/yourusername/spark/pkg/spark/pool/buffers"
)

// Response is a fully resolved response, framed once and discarded.
type Response struct {
	Code        int
	Reason      string
	ContentType string
	Body        string
}

// NewResponse resolves the reason phrase for code. An empty content type
// defaults to text/plain.
//
// Returns ErrUnknownStatus if code is not in the status table.
func NewResponse(code int, contentType, body string) (*Response, error) {
	reason, ok := StatusText(code)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, code)
	}
	if contentType == "" {
		contentType = ContentTypePlain
	}
	return &Response{
		Code:        code,
		Reason:      reason,
		ContentType: contentType,
		Body:        body,
	}, nil
}

// ContentLength is the number of payload bytes on the wire: the body plus
// the trailing newline appended to it.
func (r *Response) ContentLength() int {
	return len(r.Body) + 1
}

// AppendTo frames the response into buf.
//
// Wire format:
//
//	HTTP/1.1 <code> <reason>\r\n
//	Content-Type: <type>\r\n
//	Content-Length: <n>\r\n
//	\r\n
//	<body>\n
func (r *Response) AppendTo(buf *bytes.Buffer) {
	if line, ok := statusLines[r.Code]; ok {
		buf.WriteString(line)
	} else {
		buf.WriteString("HTTP/1.1 ")
		buf.WriteString(strconv.Itoa(r.Code))
		buf.WriteByte(' ')
		buf.WriteString(r.Reason)
		buf.WriteString(crlf)
	}

	buf.WriteString(HeaderContentType)
	buf.WriteString(": ")
	buf.WriteString(r.ContentType)
	buf.WriteString(crlf)

	buf.WriteString(HeaderContentLength)
	buf.WriteString(": ")
	buf.WriteString(strconv.Itoa(r.ContentLength()))
	buf.WriteString(crlf)

	buf.WriteString(crlf)
	buf.WriteString(r.Body)
	buf.WriteByte('\n')
}

// WriteTo frames the response into a pooled buffer and hands it to w in a
// single Write call.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	buf := buffers.Acquire(len(r.Body) + 128)
	defer buffers.Release(buf)

	r.AppendTo(buf)

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// WriteResponse frames and writes a response with the given status code,
// payload and content type (text/plain when empty).
//
// Returns ErrUnknownStatus, without writing anything, if code is not in the
// status table.
func WriteResponse(w io.Writer, code int, payload, contentType string) error {
	resp, err := NewResponse(code, contentType, payload)
	if err != nil {
		return err
	}
	_, err = resp.WriteTo(w)
	return err
}
