// Package http1 implements the wire codec of the spark server: request line,
// header and body parsing, header validation and response framing.
package http1

// Status codes produced by the server.
const (
	StatusOK                  = 200
	StatusBadRequest          = 400
	StatusNotFound            = 404
	StatusMethodNotAllowed    = 405 // reserved, never produced by the dispatcher
	StatusInternalServerError = 500
)

// statusTable maps every status code the server may emit to its reason phrase.
// Codes outside this table cannot be framed.
var statusTable = map[int]string{
	StatusOK:                  "OK",
	StatusBadRequest:          "Bad Request",
	StatusNotFound:            "Not Found",
	StatusMethodNotAllowed:    "Method Not Allowed",
	StatusInternalServerError: "Internal Server Error",
}

// Status lines, pre-compiled with CRLF so framing a response never formats them.
var statusLines = map[int]string{
	StatusOK:                  "HTTP/1.1 200 OK\r\n",
	StatusBadRequest:          "HTTP/1.1 400 Bad Request\r\n",
	StatusNotFound:            "HTTP/1.1 404 Not Found\r\n",
	StatusMethodNotAllowed:    "HTTP/1.1 405 Method Not Allowed\r\n",
	StatusInternalServerError: "HTTP/1.1 500 Internal Server Error\r\n",
}

// StatusText returns the reason phrase for code and whether code is known.
func StatusText(code int) (string, bool) {
	text, ok := statusTable[code]
	return text, ok
}

// Header names with protocol meaning. Lookups are exact: names are compared
// as received, without case folding.
const (
	HeaderContentLength = "Content-Length"
	HeaderContentType   = "Content-Type"
)

// Supported content types.
const (
	ContentTypeJSON  = "application/json"
	ContentTypePlain = "text/plain"
)

// Protocol versions accepted on the request line (without the "HTTP/" prefix).
const (
	Version10 = "1.0"
	Version11 = "1.1"

	protoPrefix = "HTTP/"
)

const crlf = "\r\n"
