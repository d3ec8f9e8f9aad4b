package http1

// Request is the parsed request line. It is built once per connection and
// never modified afterwards.
type Request struct {
	Method string

	// Path is the request target exactly as sent, query string included.
	Path string

	// Version is "1.0" or "1.1".
	Version string
}

// String returns the request line without the trailing CRLF.
func (r Request) String() string {
	return r.Method + " " + r.Path + " " + protoPrefix + r.Version
}

// Header holds request headers. Names are kept as received; a repeated
// name keeps the last value.
type Header map[string]string

// Get returns the value stored under exactly name.
func (h Header) Get(name string) (string, bool) {
	v, ok := h[name]
	return v, ok
}

// Has reports whether name is present.
func (h Header) Has(name string) bool {
	_, ok := h[name]
	return ok
}

// BodyKind identifies how a request body was decoded.
type BodyKind uint8

const (
	// BodyNone means the request carried no Content-Length.
	BodyNone BodyKind = iota

	// BodyJSON means the body was decoded from application/json.
	BodyJSON

	// BodyText means the body was read as text/plain.
	BodyText
)

// String returns the string representation of the body kind
func (k BodyKind) String() string {
	switch k {
	case BodyNone:
		return "none"
	case BodyJSON:
		return "json"
	case BodyText:
		return "text"
	default:
		return "unknown"
	}
}

// Body is the decoded request body handed to a route handler.
type Body struct {
	Kind BodyKind

	// Value is the decoded JSON document (maps, slices, float64, string,
	// bool or nil). Set only for BodyJSON.
	Value any

	// Text is the body as a string. Set only for BodyText.
	Text string

	// Raw holds the bytes read off the wire for BodyJSON and BodyText.
	Raw []byte
}

// NoBody is the body of a request without Content-Length.
var NoBody = Body{Kind: BodyNone}

// IsNone reports whether the request had no body.
func (b Body) IsNone() bool {
	return b.Kind == BodyNone
}
