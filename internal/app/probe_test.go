package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-api-kit/internal/config"
)

type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordingLogger) record(msg string) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
}

func (r *recordingLogger) has(msg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m == msg {
			return true
		}
	}
	return false
}

func (r *recordingLogger) InfoObj(msg, key string, obj interface{})  { r.record(msg) }
func (r *recordingLogger) DebugObj(msg, key string, obj interface{}) { r.record(msg) }
func (r *recordingLogger) WarnObj(msg, key string, obj interface{})  { r.record(msg) }
func (r *recordingLogger) ErrorObj(msg, key string, obj interface{}) { r.record(msg) }

func writeServicesFile(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "services.yaml")
	content := fmt.Sprintf("services:\n  - id: core\n    name: Core API\n    base_url: %s\n", baseURL)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write services file: %v", err)
	}
	return path
}

func testConfig(servicesFile string) *config.Config {
	return &config.Config{
		AppName:       "apiprobe-test",
		ServicesFile:  servicesFile,
		HTTPTimeout:   2 * time.Second,
		ProbeInterval: time.Hour,
	}
}

func TestProbeReportsHealthyService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("source"); got != "apiprobe-test" {
			t.Fatalf("expected source param, got %q", got)
		}
		io.WriteString(w, `{"data":null,"message":"up","status":"success","statusCode":200}`)
	}))
	defer srv.Close()

	rec := &recordingLogger{}
	probe, err := NewProbe(context.Background(), testConfig(writeServicesFile(t, srv.URL)), rec)
	if err != nil {
		t.Fatalf("NewProbe: %v", err)
	}

	probe.runOnce(context.Background())
	if !rec.has("service healthy") {
		t.Fatalf("expected healthy log, got %v", rec.msgs)
	}
}

func TestProbeReportsServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"data":null,"message":"down","status":"error","statusCode":503}`)
	}))
	defer srv.Close()

	rec := &recordingLogger{}
	probe, err := NewProbe(context.Background(), testConfig(writeServicesFile(t, srv.URL)), rec)
	if err != nil {
		t.Fatalf("NewProbe: %v", err)
	}

	probe.runOnce(context.Background())
	if !rec.has("service reported failure") {
		t.Fatalf("expected failure log, got %v", rec.msgs)
	}
}

func TestProbeReportsUnreachableService(t *testing.T) {
	rec := &recordingLogger{}
	cfg := testConfig(writeServicesFile(t, "http://127.0.0.1:1"))
	cfg.HTTPTimeout = 500 * time.Millisecond

	probe, err := NewProbe(context.Background(), cfg, rec)
	if err != nil {
		t.Fatalf("NewProbe: %v", err)
	}

	probe.runOnce(context.Background())
	if !rec.has("service unreachable") {
		t.Fatalf("expected unreachable log, got %v", rec.msgs)
	}
}

func TestNewProbeRequiresConfig(t *testing.T) {
	if _, err := NewProbe(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
