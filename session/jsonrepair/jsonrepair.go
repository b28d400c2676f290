// Package jsonrepair fixes a common defect in scraped JSON payloads before
// decoding them: `\xHH` escapes, which are legal in JavaScript string
// literals but not in JSON.
package jsonrepair

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// ErrParse is the sentinel wrapped by [ParseError].
var ErrParse = errors.New("parsing body")

// ParseError reports a body that could not be parsed as Format.
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v as %s: %v", ErrParse, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

var hexEscape = regexp.MustCompile(`\\x([0-9a-fA-F]{2})`)

// Repair replaces every `\xHH` sequence with the character U+00HH.
func Repair(text string) string {
	return hexEscape.ReplaceAllStringFunc(text, func(m string) string {
		n, err := strconv.ParseUint(m[2:], 16, 8)
		if err != nil {
			return m
		}
		return string(rune(n))
	})
}

// Unmarshal repairs text and decodes it into v. When useNumber is set,
// numbers decode as [json.Number] instead of float64.
func Unmarshal(text string, v any, useNumber bool) error {
	d := json.NewDecoder(bytes.NewReader([]byte(Repair(text))))
	if useNumber {
		d.UseNumber()
	}

	if err := d.Decode(v); err != nil {
		return &ParseError{Format: "json", Err: err}
	}

	// Trailing garbage after the first value is still invalid JSON.
	if _, err := d.Token(); !errors.Is(err, io.EOF) {
		return &ParseError{Format: "json", Err: errors.New("unexpected data after top-level value")}
	}

	return nil
}
