package jsonrepair

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRepair(t *testing.T) {
	testCases := map[string]struct {
		in  string
		exp string
	}{
		"noEscapes":  {in: `{"a":"b"}`, exp: `{"a":"b"}`},
		"upper":      {in: `{"a":"\x41"}`, exp: `{"a":"A"}`},
		"lowerHex":   {in: `"\x3c\x2fdiv\x3e"`, exp: `"</div>"`},
		"latin1":     {in: `"caf\xe9"`, exp: `"café"`},
		"notHex":     {in: `"\xZZ"`, exp: `"\xZZ"`},
		"unicodeEsc": {in: `"\u0041"`, exp: `"\u0041"`},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			if got := Repair(tc.in); got != tc.exp {
				t.Errorf("exp %q, got %q", tc.exp, got)
			}
		})
	}
}

func TestUnmarshal(t *testing.T) {
	var got any
	if err := Unmarshal(`{"a":"\x41"}`, &got, false); err != nil {
		t.Fatalf("expected nil err, got: %v", err)
	}

	exp := map[string]any{"a": "A"}
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Errorf("unexpected value (-want +got):\n%s", diff)
	}
}

func TestUnmarshal_UseNumber(t *testing.T) {
	var got map[string]any
	if err := Unmarshal(`{"id":12345678901234567}`, &got, true); err != nil {
		t.Fatalf("expected nil err, got: %v", err)
	}

	n, ok := got["id"].(json.Number)
	if !ok {
		t.Fatalf("expected json.Number, got %T", got["id"])
	}
	if n.String() != "12345678901234567" {
		t.Errorf("expected 12345678901234567, got %s", n)
	}
}

func TestUnmarshal_Invalid(t *testing.T) {
	testCases := map[string]string{
		"notJSON":  "not json",
		"empty":    "",
		"trailing": `{"a":1} extra`,
	}

	for name, in := range testCases {
		t.Run(name, func(t *testing.T) {
			var got any
			err := Unmarshal(in, &got, false)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("expected ErrParse, got: %v", err)
			}

			var perr *ParseError
			if !errors.As(err, &perr) || perr.Format != "json" {
				t.Errorf("expected json *ParseError, got %#v", err)
			}
		})
	}
}
