package web

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/eviworld/pixtoon-voice/pkg/chat"
	"github.com/eviworld/pixtoon-voice/pkg/command"
	"github.com/eviworld/pixtoon-voice/pkg/stt"
	"github.com/eviworld/pixtoon-voice/pkg/tts"
)

func newTestServer(transcript, replyText string) *Server {
	pipeline := command.NewPipeline(
		stt.NewMock().WithTranscript(transcript),
		chat.NewMock().WithReply(replyText),
		tts.NewMock().WithAudio([]byte("audio-bytes")),
	)
	return NewServer("0", pipeline, command.NewSessions(0))
}

func newUploadRequest(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("audio", "voice.wav")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte("fake-wav"))
	writer.Close()

	return body, writer.FormDataContentType()
}

func TestHandleCommand(t *testing.T) {
	server := newTestServer("hello", "MODE: listening\n\nHi there!")

	body, contentType := newUploadRequest(t)
	req := httptest.NewRequest("POST", "/api/command", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := server.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(SessionHeader) == "" {
		t.Error("expected session ID header on response")
	}

	var result command.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Status != command.StatusOK || result.Mode != "listening" {
		t.Errorf("unexpected envelope: %+v", result)
	}
	if result.AudioBase64 == "" {
		t.Error("expected audio in envelope")
	}
}

func TestHandleCommandSessionContinuity(t *testing.T) {
	sessions := command.NewSessions(0)
	pipeline := command.NewPipeline(
		stt.NewMock().WithTranscript("hello"),
		chat.NewMock().WithReply("MODE: listening\n\nHi!"),
		tts.NewMock(),
	)
	server := NewServer("0", pipeline, sessions)

	// First request without a session header gets one assigned.
	body, contentType := newUploadRequest(t)
	req := httptest.NewRequest("POST", "/api/command", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := server.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	sessionID := resp.Header.Get(SessionHeader)
	if sessionID == "" {
		t.Fatal("expected assigned session ID")
	}

	// Second request with the same header reuses the session.
	body, contentType = newUploadRequest(t)
	req = httptest.NewRequest("POST", "/api/command", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(SessionHeader, sessionID)

	resp, err = server.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if got := resp.Header.Get(SessionHeader); got != sessionID {
		t.Errorf("expected session %q to persist, got %q", sessionID, got)
	}
	if sessions.Len() != 1 {
		t.Errorf("expected 1 session, got %d", sessions.Len())
	}
}

func TestHandleCommandMissingFile(t *testing.T) {
	server := newTestServer("hello", "MODE: listening\n\nHi!")

	req := httptest.NewRequest("POST", "/api/command", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=none")

	resp, err := server.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var result command.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Status != command.StatusError {
		t.Errorf("expected error envelope, got %+v", result)
	}
}

func TestHandleCommandPipelineErrorIsHTTP200(t *testing.T) {
	// A malformed model reply is a pipeline outcome, not a transport
	// failure, so the HTTP status stays 200.
	server := newTestServer("hello", "no mode header here")

	body, contentType := newUploadRequest(t)
	req := httptest.NewRequest("POST", "/api/command", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := server.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result command.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Status != command.StatusError || result.Message != "Invalid response format from LLM" {
		t.Errorf("unexpected envelope: %+v", result)
	}
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer("", "")

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := server.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var health map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if health["status"] != "healthy" {
		t.Errorf("unexpected health payload: %+v", health)
	}
}
