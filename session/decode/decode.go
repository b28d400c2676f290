// Package decode undoes HTTP content-encoding on response bodies.
//
// Only gzip and deflate are recognised. Any other value, or none, passes
// the body through untouched.
package decode

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"golang.org/x/net/html/charset"
)

const (
	Gzip    = "gzip"
	Deflate = "deflate"
)

// ErrDecode is the sentinel wrapped by [Error].
var ErrDecode = errors.New("decoding body")

// Error reports a body that could not be decoded with its declared encoding.
type Error struct {
	Encoding string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v (%s): %v", ErrDecode, e.Encoding, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrDecode
}

// Normalize maps a Content-Encoding header value to Gzip, Deflate or "".
func Normalize(encoding string) string {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip", "x-gzip":
		return Gzip
	case "deflate":
		return Deflate
	default:
		return ""
	}
}

// Supported reports whether encoding is one this package decodes.
func Supported(encoding string) bool {
	return Normalize(encoding) != ""
}

// NewReader wraps body with a decompressor for encoding. The returned
// reader must be closed; closing it does not close body. Header errors
// are reported immediately as *Error.
func NewReader(encoding string, body io.Reader) (io.ReadCloser, error) {
	switch Normalize(encoding) {
	case Gzip:
		zr, err := gzip.NewReader(body)
		if err != nil {
			return nil, &Error{Encoding: Gzip, Err: err}
		}
		return zr, nil
	case Deflate:
		return newDeflateReader(body)
	default:
		return io.NopCloser(body), nil
	}
}

// newDeflateReader handles both framings servers send as "deflate": the
// zlib-wrapped stream RFC 9110 asks for, and a bare RFC 1951 stream.
func newDeflateReader(body io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(body)

	hdr, err := br.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, &Error{Encoding: Deflate, Err: err}
	}

	if isZlibHeader(hdr) {
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, &Error{Encoding: Deflate, Err: err}
		}
		return zr, nil
	}

	return flate.NewReader(br), nil
}

// isZlibHeader checks CMF/FLG per RFC 1950: deflate method, and the pair
// read as a big-endian uint16 is a multiple of 31.
func isZlibHeader(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	return b[0]&0x0f == 8 && (uint16(b[0])<<8|uint16(b[1]))%31 == 0
}

// Bytes decodes a fully buffered body.
func Bytes(encoding string, raw []byte) ([]byte, error) {
	if !Supported(encoding) || len(raw) == 0 {
		return raw, nil
	}

	r, err := NewReader(encoding, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, &Error{Encoding: Normalize(encoding), Err: err}
	}

	return out, nil
}

// Text converts body bytes to a UTF-8 string. A charset declared in
// contentType other than UTF-8 is transcoded; otherwise the bytes are
// used as they are.
func Text(contentType string, b []byte) (string, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(b), nil
	}

	cs, ok := params["charset"]
	if !ok {
		return string(b), nil
	}

	enc, name := charset.Lookup(cs)
	if enc == nil || name == "utf-8" {
		return string(b), nil
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", &Error{Encoding: name, Err: err}
	}

	return string(out), nil
}

// IsCorrupt reports whether err came from malformed compressed data
// rather than from the underlying reader.
func IsCorrupt(err error) bool {
	var corrupt flate.CorruptInputError
	switch {
	case errors.As(err, &corrupt):
		return true
	case errors.Is(err, gzip.ErrHeader), errors.Is(err, gzip.ErrChecksum):
		return true
	case errors.Is(err, zlib.ErrHeader), errors.Is(err, zlib.ErrChecksum), errors.Is(err, zlib.ErrDictionary):
		return true
	case errors.Is(err, io.ErrUnexpectedEOF):
		return true
	default:
		return false
	}
}
