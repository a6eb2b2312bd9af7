package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// falFixture wires an httptest server that mimics the fal.ai queue:
// a submit endpoint, a status endpoint, and a result endpoint serving
// a URL to the finished audio.
type falFixture struct {
	server      *httptest.Server
	statusCalls atomic.Int64

	// statusFn decides the status returned for each poll, keyed by
	// the 1-based poll count.
	statusFn func(call int64) (code int, status string)
}

func newFalFixture(t *testing.T) *falFixture {
	t.Helper()
	f := &falFixture{}

	mux := http.NewServeMux()
	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Key test-key" {
			t.Errorf("unexpected auth header: %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"request_id":   "req-123",
			"status_url":   f.server.URL + "/status",
			"response_url": f.server.URL + "/result",
		})
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		call := f.statusCalls.Add(1)
		code, status := f.statusFn(call)
		if code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	})
	mux.HandleFunc("/result", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"audio": map[string]string{"url": f.server.URL + "/audio.mp3"},
		})
	})
	mux.HandleFunc("/audio.mp3", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("fal-mp3-bytes"))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func newFalForTest(t *testing.T, fixture *falFixture, attempts int) *Fal {
	t.Helper()
	synth, err := NewFal(
		WithAPIKey("test-key"),
		WithBaseURL(fixture.server.URL+"/submit"),
		WithPolling(time.Second, attempts),
	)
	if err != nil {
		t.Fatalf("NewFal: %v", err)
	}
	t.Cleanup(func() { synth.Close() })
	synth.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return synth
}

func TestFalSynthesize(t *testing.T) {
	fixture := newFalFixture(t)
	fixture.statusFn = func(call int64) (int, string) {
		if call < 3 {
			return http.StatusOK, "IN_PROGRESS"
		}
		return http.StatusOK, "COMPLETED"
	}

	synth := newFalForTest(t, fixture, 20)

	result, err := synth.Synthesize(context.Background(), "hello fal")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if string(result.Audio) != "fal-mp3-bytes" {
		t.Errorf("unexpected audio: %q", result.Audio)
	}
	if got := fixture.statusCalls.Load(); got != 3 {
		t.Errorf("expected 3 status polls, got %d", got)
	}
}

func TestFalSynthesizeTimeout(t *testing.T) {
	fixture := newFalFixture(t)
	fixture.statusFn = func(call int64) (int, string) {
		return http.StatusOK, "IN_QUEUE"
	}

	synth := newFalForTest(t, fixture, 5)

	_, err := synth.Synthesize(context.Background(), "hello fal")
	if !errors.Is(err, ErrSynthesisTimeout) {
		t.Fatalf("expected ErrSynthesisTimeout, got %v", err)
	}
	if got := fixture.statusCalls.Load(); got != 5 {
		t.Errorf("expected exactly 5 status polls, got %d", got)
	}
}

func TestFalSynthesizeToleratesFlakyPolls(t *testing.T) {
	fixture := newFalFixture(t)
	fixture.statusFn = func(call int64) (int, string) {
		switch call {
		case 1:
			return http.StatusBadGateway, ""
		case 2:
			return http.StatusOK, "IN_PROGRESS"
		default:
			return http.StatusOK, "COMPLETED"
		}
	}

	synth := newFalForTest(t, fixture, 20)

	result, err := synth.Synthesize(context.Background(), "hello fal")
	if err != nil {
		t.Fatalf("expected flaky poll to be tolerated, got %v", err)
	}
	if len(result.Audio) == 0 {
		t.Error("expected audio despite flaky poll")
	}
}

func TestFalSynthesizeJobFailure(t *testing.T) {
	fixture := newFalFixture(t)
	fixture.statusFn = func(call int64) (int, string) {
		return http.StatusOK, "FAILED"
	}

	synth := newFalForTest(t, fixture, 20)

	_, err := synth.Synthesize(context.Background(), "hello fal")
	if !errors.Is(err, ErrJobFailed) {
		t.Fatalf("expected ErrJobFailed, got %v", err)
	}
	if got := fixture.statusCalls.Load(); got != 1 {
		t.Errorf("expected terminal failure after 1 poll, got %d", got)
	}
}

func TestFalSynthesizeEmptyText(t *testing.T) {
	synth, err := NewFal(WithAPIKey("test-key"))
	if err != nil {
		t.Fatalf("NewFal: %v", err)
	}
	defer synth.Close()

	_, err = synth.Synthesize(context.Background(), "")
	if !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}
