package http1

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestReadBody(t *testing.T) {
	tests := []struct {
		name     string
		headers  Header
		input    string
		wantKind BodyKind
		wantText string
		wantJSON any
	}{
		{
			name:     "no content-length",
			headers:  Header{},
			input:    "ignored",
			wantKind: BodyNone,
		},
		{
			name:     "text",
			headers:  Header{"Content-Length": "5", "Content-Type": "text/plain"},
			input:    "hello",
			wantKind: BodyText,
			wantText: "hello",
		},
		{
			name:     "text zero length",
			headers:  Header{"Content-Length": "0", "Content-Type": "text/plain"},
			input:    "",
			wantKind: BodyText,
			wantText: "",
		},
		{
			name:     "text utf-8 counted in bytes",
			headers:  Header{"Content-Length": "6", "Content-Type": "text/plain"},
			input:    "héé!",
			wantKind: BodyText,
			wantText: "héé!",
		},
		{
			name:     "json object",
			headers:  Header{"Content-Length": "14", "Content-Type": "application/json"},
			input:    `{"data":[1,2]}`,
			wantKind: BodyJSON,
			wantJSON: map[string]any{"data": []any{float64(1), float64(2)}},
		},
		{
			name:     "json scalar",
			headers:  Header{"Content-Length": "4", "Content-Type": "application/json"},
			input:    "true",
			wantKind: BodyJSON,
			wantJSON: true,
		},
		{
			name:     "json null",
			headers:  Header{"Content-Length": "4", "Content-Type": "application/json"},
			input:    "null",
			wantKind: BodyJSON,
			wantJSON: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := ReadBody(newReader(tt.input), tt.headers)
			if err != nil {
				t.Fatalf("ReadBody: %v", err)
			}

			if body.Kind != tt.wantKind {
				t.Fatalf("Kind = %v, want %v", body.Kind, tt.wantKind)
			}

			switch tt.wantKind {
			case BodyNone:
				if !body.IsNone() {
					t.Error("IsNone() = false")
				}
			case BodyText:
				if body.Text != tt.wantText {
					t.Errorf("Text = %q, want %q", body.Text, tt.wantText)
				}
			case BodyJSON:
				if !reflect.DeepEqual(body.Value, tt.wantJSON) {
					t.Errorf("Value = %#v, want %#v", body.Value, tt.wantJSON)
				}
			}
		})
	}
}

func TestReadBodyReadsExactlyContentLength(t *testing.T) {
	r := newReader("abcdefgh")
	h := Header{"Content-Length": "3", "Content-Type": "text/plain"}

	body, err := ReadBody(r, h)
	if err != nil {
		t.Fatalf("ReadBody: %v", err)
	}
	if body.Text != "abc" {
		t.Errorf("Text = %q, want %q", body.Text, "abc")
	}

	rest, _ := io.ReadAll(r)
	if string(rest) != "defgh" {
		t.Errorf("remaining = %q, want %q", rest, "defgh")
	}
}

func TestReadBodyNoContentLengthConsumesNothing(t *testing.T) {
	r := newReader("leftover")

	if _, err := ReadBody(r, Header{"Content-Type": "text/plain"}); err != nil {
		t.Fatalf("ReadBody: %v", err)
	}

	rest, _ := io.ReadAll(r)
	if string(rest) != "leftover" {
		t.Errorf("remaining = %q", rest)
	}
}

func TestReadBodyErrors(t *testing.T) {
	tests := []struct {
		name    string
		headers Header
		input   string
		wantErr error
	}{
		{
			name:    "malformed json",
			headers: Header{"Content-Length": "7", "Content-Type": "application/json"},
			input:   `{"a":1,`,
			wantErr: ErrBodyDecode,
		},
		{
			name:    "empty json",
			headers: Header{"Content-Length": "0", "Content-Type": "application/json"},
			input:   "",
			wantErr: ErrBodyDecode,
		},
		{
			name:    "short read",
			headers: Header{"Content-Length": "10", "Content-Type": "text/plain"},
			input:   "short",
			wantErr: ErrBodyDecode,
		},
		{
			name:    "non-numeric length",
			headers: Header{"Content-Length": "ten", "Content-Type": "text/plain"},
			input:   "0123456789",
			wantErr: ErrInvalidContentLength,
		},
		{
			name:    "negative length",
			headers: Header{"Content-Length": "-1", "Content-Type": "text/plain"},
			input:   "x",
			wantErr: ErrInvalidContentLength,
		},
		{
			name:    "over limit",
			headers: Header{"Content-Length": "99999999999", "Content-Type": "text/plain"},
			input:   "x",
			wantErr: ErrBodyTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBody(newReader(tt.input), tt.headers)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}

			pe, ok := AsProtocolError(err)
			if !ok {
				t.Fatalf("error %T is not a ProtocolError", err)
			}
			if pe.Code != StatusInternalServerError {
				t.Errorf("Code = %d, want 500", pe.Code)
			}
			if !strings.HasPrefix(pe.Message, "Internal Server Error: ") {
				t.Errorf("Message = %q", pe.Message)
			}
		})
	}
}

func TestReadBodyLimitDisabled(t *testing.T) {
	h := Header{"Content-Length": "4", "Content-Type": "text/plain"}

	body, err := ReadBodyLimit(newReader("abcd"), h, 0)
	if err != nil {
		t.Fatalf("ReadBodyLimit: %v", err)
	}
	if body.Text != "abcd" {
		t.Errorf("Text = %q", body.Text)
	}

	if _, err := ReadBodyLimit(newReader("abcd"), h, 3); !errors.Is(err, ErrBodyTooLarge) {
		t.Errorf("error = %v, want ErrBodyTooLarge", err)
	}
}

func TestBodyKindString(t *testing.T) {
	tests := []struct {
		kind BodyKind
		want string
	}{
		{BodyNone, "none"},
		{BodyJSON, "json"},
		{BodyText, "text"},
		{BodyKind(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("BodyKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
