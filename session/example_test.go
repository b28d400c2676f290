package session_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/andrearampin/qscraper/session"
	"github.com/andrearampin/qscraper/session/future"
)

func ExampleBuild() {
	s, err := session.Build(
		session.WithTimeout(10*time.Second),
		session.WithUserAgent("example/1.0"),
		session.WithCookies(),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(s.Headers().Get("User-Agent"))
	// Output: example/1.0
}

func ExampleSession_Get() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "hello %s", r.URL.Query().Get("name"))
	}))
	defer ts.Close()

	s, _ := session.Build()

	body, err := s.Get(context.Background(), ts.URL, url.Values{"name": {"gopher"}}).Await(context.Background())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(body)
	// Output: hello gopher
}

func ExampleSession_Post() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.URL.Path == "/login" && r.PostForm.Get("user") == "alice" {
			http.Redirect(w, r, "/welcome", http.StatusSeeOther)
			return
		}
		fmt.Fprint(w, "welcome back")
	}))
	defer ts.Close()

	s, _ := session.Build(session.WithCookies())

	body, err := s.Post(context.Background(), ts.URL+"/login", url.Values{"user": {"alice"}}).Await(context.Background())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(body)
	// Output: welcome back
}

func ExampleSession_GetJSON() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"caf\xe9"}`)
	}))
	defer ts.Close()

	s, _ := session.Build()

	v, err := s.GetJSON(context.Background(), ts.URL, nil).Await(context.Background())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(v.(map[string]any)["name"])
	// Output: café
}

func ExampleSession_GetDocument() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1 class="title">Scraped</h1></body></html>`)
	}))
	defer ts.Close()

	s, _ := session.Build()

	doc, err := s.GetDocument(context.Background(), ts.URL, nil).Await(context.Background())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(doc.Find("h1.title").Text())
	// Output: Scraped
}

func ExampleSession_Download() {
	body := []byte("file contents")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}))
	defer ts.Close()

	s, _ := session.Build()

	dest := filepath.Join(os.TempDir(), "qscraper-example-dl.bin")
	defer os.Remove(dest)

	path, err := s.Download(context.Background(), ts.URL+"/report.bin", dest, session.WithProgress()).Await(context.Background())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	data, _ := os.ReadFile(path)
	fmt.Println(string(data))
	// Output: file contents
}

func ExampleSession_Wait() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.URL.Path)
	}))
	defer ts.Close()

	s, _ := session.Build(session.WithConcurrency(2))

	pages := []*future.Future[string]{
		s.Get(context.Background(), ts.URL+"/a", nil),
		s.Get(context.Background(), ts.URL+"/b", nil),
		s.Get(context.Background(), ts.URL+"/c", nil),
	}

	if err := s.Wait(); err != nil {
		fmt.Println("error:", err)
		return
	}

	all, _ := future.All(pages...).Value()
	fmt.Println(all)
	// Output: [/a /b /c]
}

func ExampleSession_ClearCookies() {
	s, _ := session.Build()

	_, err := s.ClearCookies().Await(context.Background())
	fmt.Println(err)
	// Output: ClearCookies() has not been implemented yet
}
