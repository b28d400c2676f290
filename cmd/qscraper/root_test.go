package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseHeaders(t *testing.T) {
	testCases := map[string]struct {
		raw     []string
		exp     map[string]string
		wantErr bool
	}{
		"none":      {raw: nil, exp: map[string]string{}},
		"trimmed":   {raw: []string{"X-Token:  abc "}, exp: map[string]string{"X-Token": "abc"}},
		"colonInV":  {raw: []string{"Referer: https://example.com/"}, exp: map[string]string{"Referer": "https://example.com/"}},
		"noColon":   {raw: []string{"X-Token abc"}, wantErr: true},
		"emptyName": {raw: []string{": abc"}, wantErr: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got, err := parseHeaders(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if diff := cmp.Diff(tc.exp, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseParams(t *testing.T) {
	testCases := map[string]struct {
		args    []string
		exp     url.Values
		wantErr bool
	}{
		"none":     {args: nil, exp: nil},
		"single":   {args: []string{"q=go"}, exp: url.Values{"q": {"go"}}},
		"repeated": {args: []string{"k=1", "k=2"}, exp: url.Values{"k": {"1", "2"}}},
		"emptyVal": {args: []string{"flag="}, exp: url.Values{"flag": {""}}},
		"noEquals": {args: []string{"q"}, wantErr: true},
		"emptyKey": {args: []string{"=v"}, wantErr: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got, err := parseParams(tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if diff := cmp.Diff(tc.exp, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Write([]byte(`<ul><li><a href="/a">` + r.Method + ` ` + r.Form.Get("q") + `</a></li><li><a href="/b">two</a></li></ul>`))
	})
	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"` + r.Header.Get("X-Token") + `","n":12345678901234567}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	testCases := map[string]struct {
		args []string
		exp  string
	}{
		"get":        {args: []string{"get", ts.URL + "/api"}, exp: `{"token":"","n":12345678901234567}`},
		"header":     {args: []string{"get", "-H", "X-Token: t", ts.URL + "/api"}, exp: `{"token":"t","n":12345678901234567}`},
		"json":       {args: []string{"json", ts.URL + "/api"}, exp: "{\n  \"n\": 12345678901234567,\n  \"token\": \"\"\n}\n"},
		"select":     {args: []string{"select", ts.URL + "/page", "li a", "q=x"}, exp: "GET x\ntwo\n"},
		"selectPost": {args: []string{"select", "--post", ts.URL + "/page", "li a", "q=y"}, exp: "POST y\ntwo\n"},
		"selectAttr": {args: []string{"select", "--attr", "href", ts.URL + "/page", "li a"}, exp: "/a\n/b\n"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got, err := run(t, tc.args...)
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if got != tc.exp {
				t.Errorf("exp %q, got %q", tc.exp, got)
			}
		})
	}
}

func TestDownloadCommand(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer ts.Close()

	dir := t.TempDir()

	got, err := run(t, "download", ts.URL+"/data.bin", dir)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	path := filepath.Join(dir, "data.bin")
	if !strings.HasPrefix(got, path) {
		t.Errorf("expected output to name %s, got %q", path, got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("unexpected contents %q", data)
	}

	if _, err := run(t, "download", ts.URL+"/"); err == nil {
		t.Error("expected error for a URI without a file name")
	}
}
