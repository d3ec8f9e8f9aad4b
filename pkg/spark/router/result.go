package router

import (
	"github.com/yourusername/spark/pkg/spark/http1"
)

type resultKind uint8

const (
	resultText resultKind = iota
	resultJSON
)

// Result is what a handler produces: either text, sent verbatim as
// text/plain, or a value serialized as application/json.
//
// The zero Result is an empty text response.
type Result struct {
	kind  resultKind
	text  string
	value any
}

// Text returns a text/plain result.
func Text(s string) Result {
	return Result{kind: resultText, text: s}
}

// JSON returns an application/json result. v must be serializable by
// goccy/go-json.
func JSON(v any) Result {
	return Result{kind: resultJSON, value: v}
}

// IsText reports whether the result is sent as text/plain.
func (r Result) IsText() bool {
	return r.kind == resultText
}

// ContentType returns the wire content type of the result.
func (r Result) ContentType() string {
	if r.kind == resultJSON {
		return http1.ContentTypeJSON
	}
	return http1.ContentTypePlain
}

// Value returns the text or the JSON value.
func (r Result) Value() any {
	if r.kind == resultJSON {
		return r.value
	}
	return r.text
}
