package espn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"huddle/internal/metrics"
	"huddle/internal/platform/logging"
)

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{})
	if client.siteBaseURL != defaultSiteAPIBaseURL {
		t.Fatalf("unexpected site base url: %q", client.siteBaseURL)
	}
	if client.coreBaseURL != defaultCoreAPIBaseURL {
		t.Fatalf("unexpected core base url: %q", client.coreBaseURL)
	}
	if client.httpClient.Timeout != defaultTimeout {
		t.Fatalf("expected %v timeout, got=%v", defaultTimeout, client.httpClient.Timeout)
	}
	if client.rosterLimit != defaultRosterLimit {
		t.Fatalf("unexpected roster limit: %d", client.rosterLimit)
	}
	if client.rosterWorkers != defaultRosterWorkers {
		t.Fatalf("unexpected roster workers: %d", client.rosterWorkers)
	}
	if client.collegeWorkers != defaultCollegeWorkers {
		t.Fatalf("unexpected college workers: %d", client.collegeWorkers)
	}
}

func TestNewClient_TrimsBaseURLs(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{
		SiteAPIBaseURL: " https://example.test/site/ ",
		CoreAPIBaseURL: "https://example.test/core///",
	})
	if client.siteBaseURL != "https://example.test/site" {
		t.Fatalf("unexpected site base url: %q", client.siteBaseURL)
	}
	if client.coreBaseURL != "https://example.test/core" {
		t.Fatalf("unexpected core base url: %q", client.coreBaseURL)
	}
}

func TestFetchJSON_TransportFailureIsNetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})

	var payload map[string]any
	err := client.fetchJSON(context.Background(), "standings", url, &payload)
	if !crerr.Is(err, ErrNetwork) {
		t.Fatalf("expected network failure, got %v", err)
	}
}

func TestFetchJSON_NonSuccessStatusIsNetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream sad", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})

	var payload map[string]any
	err := client.fetchJSON(context.Background(), "standings", server.URL, &payload)
	if !crerr.Is(err, ErrNetwork) {
		t.Fatalf("expected network failure, got %v", err)
	}
}

func TestFetchJSON_MalformedBodyIsDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})

	var payload map[string]any
	err := client.fetchJSON(context.Background(), "standings", server.URL, &payload)
	if !crerr.Is(err, ErrDecode) {
		t.Fatalf("expected decode failure, got %v", err)
	}
}

func TestFetchJSON_TimeoutIsNetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeJSON(t, w, map[string]any{})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		HTTPClient: &http.Client{Timeout: 30 * time.Millisecond},
		Logger:     logging.NewNop(),
	})

	var payload map[string]any
	err := client.fetchJSON(context.Background(), "standings", server.URL, &payload)
	if !crerr.Is(err, ErrNetwork) {
		t.Fatalf("expected network failure on timeout, got %v", err)
	}
}

func TestFetchJSON_ConcurrentCallsShareOneRequest(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		time.Sleep(30 * time.Millisecond)
		writeJSON(t, w, map[string]any{"ok": true})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})

	const callers = 12
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			var payload map[string]any
			if err := client.fetchJSON(context.Background(), "standings", server.URL, &payload); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := hits.Load(); got != 1 {
		t.Fatalf("expected one upstream request, got=%d", got)
	}
}

func TestFetchJSON_RecordsMetrics(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			http.Error(w, "nope", http.StatusBadGateway)
			return
		}
		writeJSON(t, w, map[string]any{"ok": true})
	}))
	defer server.Close()

	recorder := metrics.NewRecorder()
	client := NewClient(ClientConfig{Logger: logging.NewNop(), Metrics: recorder})

	var payload map[string]any
	if err := client.fetchJSON(context.Background(), "standings", server.URL+"/ok", &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = client.fetchJSON(context.Background(), "standings", server.URL+"/bad", &payload)

	snap := recorder.Snapshot("standings")
	if snap.Calls != 2 {
		t.Fatalf("expected 2 recorded calls, got=%d", snap.Calls)
	}
	if snap.Errors != 1 {
		t.Fatalf("expected 1 recorded error, got=%d", snap.Errors)
	}
}

func TestNormalizeRefURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"http://sports.core.api.espn.com/v2/colleges/7", "https://sports.core.api.espn.com/v2/colleges/7"},
		{"https://sports.core.api.espn.com/v2/colleges/7", "https://sports.core.api.espn.com/v2/colleges/7"},
		{"ftp://example.test", "ftp://example.test"},
	}

	for _, tt := range tests {
		if got := normalizeRefURL(tt.in); got != tt.want {
			t.Fatalf("normalizeRefURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, payload any) {
	t.Helper()
	raw, err := sonic.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}
