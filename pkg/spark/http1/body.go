package http1

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
)

// DefaultMaxBodySize is the largest Content-Length ReadBody accepts.
const DefaultMaxBodySize = 10 << 20 // 10 MB

// ReadBody reads exactly Content-Length bytes and decodes them according to
// Content-Type. Without Content-Length nothing is consumed and NoBody is
// returned.
//
// Headers must have passed ValidateHeaders. Every failure, from a malformed
// length to a short read or invalid JSON, is reported as a 500 ProtocolError.
func ReadBody(r *bufio.Reader, h Header) (Body, error) {
	return ReadBodyLimit(r, h, DefaultMaxBodySize)
}

// ReadBodyLimit is ReadBody with an explicit upper bound on Content-Length.
// A limit <= 0 disables the bound.
func ReadBodyLimit(r *bufio.Reader, h Header, limit int) (Body, error) {
	clStr, ok := h.Get(HeaderContentLength)
	if !ok {
		return NoBody, nil
	}

	length, err := parseContentLength(clStr)
	if err != nil {
		return Body{}, Internal(err)
	}
	if limit > 0 && length > limit {
		return Body{}, Internal(fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrBodyTooLarge, length, limit))
	}

	raw := make([]byte, length)
	if _, err := io.ReadFull(r, raw); err != nil {
		return Body{}, Internal(fmt.Errorf("%w: read %d bytes: %v", ErrBodyDecode, length, err))
	}

	ct, _ := h.Get(HeaderContentType)
	switch ct {
	case ContentTypeJSON:
		if len(raw) == 0 {
			return Body{}, Internal(fmt.Errorf("%w: empty JSON document", ErrBodyDecode))
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return Body{}, Internal(fmt.Errorf("%w: %v", ErrBodyDecode, err))
		}
		return Body{Kind: BodyJSON, Value: v, Raw: raw}, nil

	case ContentTypePlain:
		return Body{Kind: BodyText, Text: string(raw), Raw: raw}, nil

	default:
		// Unreachable after ValidateHeaders.
		return Body{}, Internal(fmt.Errorf("%w: %q", ErrUnsupportedContentType, ct))
	}
}

// parseContentLength parses a non-negative decimal Content-Length value.
func parseContentLength(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidContentLength, s)
	}
	return n, nil
}
