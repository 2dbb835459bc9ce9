package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestRestyClientDo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Fatalf("missing header, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Fatalf("expected JSON content type, got %q", got)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Fatalf("expected page=2, got %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"title":"x"}` {
			t.Fatalf("unexpected body %s", body)
		}
		io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	client := NewRestyClient(2 * time.Second)
	resp, err := client.Do(context.Background(), Request{
		Method:  http.MethodPost,
		URL:     srv.URL,
		Query:   url.Values{"page": []string{"2"}},
		Headers: map[string]string{"X-Test": "1"},
		Body:    map[string]string{"title": "x"},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.IsError() {
		t.Fatalf("unexpected error response, status %d", resp.StatusCode())
	}
	if string(resp.Body()) != `{"ok":true}` {
		t.Fatalf("unexpected body %s", resp.Body())
	}
}

func TestRestyClientIsErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewRestyClient(time.Second)
	resp, err := client.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !resp.IsError() {
		t.Fatalf("expected IsError on status %d", resp.StatusCode())
	}
	if resp.StatusCode() != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode())
	}
}

func TestRestyClientEmptyMethod(t *testing.T) {
	client := NewRestyClient(time.Second)
	if _, err := client.Do(context.Background(), Request{URL: "http://example.invalid"}); err == nil {
		t.Fatalf("expected error for empty method")
	}
}
