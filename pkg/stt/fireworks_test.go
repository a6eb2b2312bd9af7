package stt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFireworksTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("expected Bearer test-key, got %s", auth)
		}

		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("parse multipart form: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-v3" {
			t.Errorf("expected model whisper-v3, got %s", got)
		}
		if got := r.FormValue("temperature"); got != "0" {
			t.Errorf("expected temperature 0, got %s", got)
		}
		if got := r.FormValue("vad_model"); got != "silero" {
			t.Errorf("expected vad_model silero, got %s", got)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "command.webm" {
			t.Errorf("expected filename command.webm, got %s", header.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"text": "  What color is the sky?  "})
	}))
	defer server.Close()

	provider, err := NewFireworks(
		WithAPIKey("test-key"),
		WithBaseURL(server.URL),
	)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	text, err := provider.Transcribe(context.Background(), []byte("fake-audio"), "command.webm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "What color is the sky?" {
		t.Errorf("expected trimmed transcript, got %q", text)
	}
}

func TestFireworksTranscribeWhitespaceOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": "   "})
	}))
	defer server.Close()

	provider, _ := NewFireworks(WithAPIKey("test-key"), WithBaseURL(server.URL))
	defer provider.Close()

	text, err := provider.Transcribe(context.Background(), []byte("silence"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty transcript, got %q", text)
	}
}

func TestFireworksTranscribeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "upstream unavailable"},
		})
	}))
	defer server.Close()

	provider, _ := NewFireworks(WithAPIKey("test-key"), WithBaseURL(server.URL))
	defer provider.Close()

	_, err := provider.Transcribe(context.Background(), []byte("fake-audio"), "")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", apiErr.StatusCode)
	}
	if !apiErr.IsServerError() {
		t.Error("expected IsServerError true")
	}
}

func TestFireworksTranscribeSchemaMismatch(t *testing.T) {
	t.Run("missing text field", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"transcript": "wrong key"})
		}))
		defer server.Close()

		provider, _ := NewFireworks(WithAPIKey("test-key"), WithBaseURL(server.URL))
		defer provider.Close()

		_, err := provider.Transcribe(context.Background(), []byte("fake-audio"), "")
		if !errors.Is(err, ErrBadPayload) {
			t.Fatalf("expected ErrBadPayload, got %v", err)
		}
	})

	t.Run("non-JSON body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>gateway error</html>"))
		}))
		defer server.Close()

		provider, _ := NewFireworks(WithAPIKey("test-key"), WithBaseURL(server.URL))
		defer provider.Close()

		_, err := provider.Transcribe(context.Background(), []byte("fake-audio"), "")
		if !errors.Is(err, ErrBadPayload) {
			t.Fatalf("expected ErrBadPayload, got %v", err)
		}
	})
}

func TestFireworksRequiresAPIKey(t *testing.T) {
	_, err := NewFireworks()
	if err != ErrNoAPIKey {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestMockTranscriber(t *testing.T) {
	ctx := context.Background()

	t.Run("fixed transcript", func(t *testing.T) {
		mock := NewMock().WithTranscript("play me a song")
		text, err := mock.Transcribe(ctx, []byte("audio"), "a.webm")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "play me a song" {
			t.Errorf("unexpected transcript: %q", text)
		}
		if mock.CallCount("Transcribe") != 1 {
			t.Errorf("expected 1 call, got %d", mock.CallCount("Transcribe"))
		}
	})

	t.Run("error mock", func(t *testing.T) {
		boom := errors.New("upstream down")
		mock := NewMock().WithError(boom)
		if _, err := mock.Transcribe(ctx, nil, ""); !errors.Is(err, boom) {
			t.Errorf("expected wrapped error, got %v", err)
		}
		if err := mock.Health(ctx); !errors.Is(err, boom) {
			t.Errorf("expected health error, got %v", err)
		}
	})
}
