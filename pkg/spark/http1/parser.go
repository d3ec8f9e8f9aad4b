package http1

import (
	"bufio"
	"io"
	"strings"
)

// ReadRequestLine reads the first line of a request and splits it into
// method, path and version.
//
// Format: METHOD SP PATH SP HTTP/VERSION CRLF
//
// Any whitespace separates tokens and surrounding whitespace is ignored.
// A stream that ends before sending anything yields an empty line, which is
// rejected like any other malformed line.
func ReadRequestLine(r *bufio.Reader) (Request, error) {
	line, err := readLine(r)
	if err != nil {
		return Request{}, err
	}

	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Request{}, BadRequest("Invalid request line", ErrInvalidRequestLine)
	}

	method, path, proto := fields[0], fields[1], fields[2]

	if !strings.HasPrefix(path, "/") {
		return Request{}, BadRequest("Invalid request path", ErrInvalidPath)
	}

	version, ok := strings.CutPrefix(proto, protoPrefix)
	if !ok {
		return Request{}, BadRequest("Invalid protocol", ErrInvalidProtocol)
	}
	if version != Version10 && version != Version11 {
		return Request{}, BadRequest("Unsupported HTTP version", ErrInvalidProtocol)
	}

	return Request{Method: method, Path: path, Version: version}, nil
}

// ReadHeaders reads header lines up to and including the blank line that
// ends the header block.
//
// Each line is split on its first colon; name and value are trimmed. The end
// of the stream terminates the block like a blank line does.
func ReadHeaders(r *bufio.Reader) (Header, error) {
	headers := make(Header)

	for {
		line, err := readLine(r)
		if err != nil {
			return nil, err
		}
		if line == "" {
			return headers, nil
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, BadRequest("Invalid header", ErrInvalidHeader)
		}

		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
}

// ValidateHeaders checks the Content-Length / Content-Type contract.
// A request announcing a body must say what it is, and it must be JSON or
// plain text. Requests without Content-Length are always valid.
func ValidateHeaders(h Header) error {
	if !h.Has(HeaderContentLength) {
		return nil
	}

	ct, ok := h.Get(HeaderContentType)
	if !ok {
		return BadRequest("Content-Type header is required with Content-Length", ErrMissingContentType)
	}

	switch ct {
	case ContentTypeJSON, ContentTypePlain:
		return nil
	default:
		return BadRequest("Unsupported Content-Type: "+ct, ErrUnsupportedContentType)
	}
}

// readLine reads one line and trims surrounding whitespace, CRLF included.
// io.EOF is not an error here: the partial (possibly empty) line is returned
// and the caller decides what an empty line means.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
