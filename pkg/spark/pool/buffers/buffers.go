// Package buffers provides tiered bytes.Buffer pools shared by the response
// framer and the JSON encoder.
package buffers

import (
	"bytes"
	"sync"
)

const (
	smallSize  = 512
	mediumSize = 8192
	largeSize  = 65536

	// Buffers that grew past this are dropped instead of pooled so one huge
	// payload does not pin memory for the life of the process.
	maxPooledCap = 1 << 20
)

var (
	smallPool = sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(make([]byte, 0, smallSize))
		},
	}

	mediumPool = sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(make([]byte, 0, mediumSize))
		},
	}

	largePool = sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(make([]byte, 0, largeSize))
		},
	}
)

// Acquire returns an empty buffer from the tier matching sizeHint.
//
// Size hints:
//   - 0 (unknown): small buffer, most responses are short
//   - <=512B: small buffer
//   - <=8KB: medium buffer
//   - larger: large buffer
func Acquire(sizeHint int) *bytes.Buffer {
	switch {
	case sizeHint <= smallSize:
		return smallPool.Get().(*bytes.Buffer)
	case sizeHint <= mediumSize:
		return mediumPool.Get().(*bytes.Buffer)
	default:
		return largePool.Get().(*bytes.Buffer)
	}
}

// Release resets buf and returns it to the pool its capacity belongs to.
func Release(buf *bytes.Buffer) {
	if buf == nil {
		return
	}

	c := buf.Cap()
	if c > maxPooledCap {
		return
	}

	buf.Reset()

	switch {
	case c <= smallSize:
		smallPool.Put(buf)
	case c <= mediumSize:
		mediumPool.Put(buf)
	default:
		largePool.Put(buf)
	}
}
