package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	fireworksTranscriptionURL = "https://audio-prod.us-virginia-1.direct.fireworks.ai/v1/audio/transcriptions"
	providerFireworks         = "fireworks"
)

// Fireworks implements Transcriber using the Fireworks Whisper API.
type Fireworks struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewFireworks creates a new Fireworks transcription provider.
func NewFireworks(opts ...Option) (*Fireworks, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fireworksTranscriptionURL
	}

	return &Fireworks{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  cfg.Logger.With("component", "stt.fireworks"),
		baseURL: baseURL,
	}, nil
}

// Transcribe uploads the recording as a multipart form and returns the
// recognized text. Non-2xx responses and schema mismatches are errors;
// an empty transcript is not.
func (f *Fireworks) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	start := time.Now()

	if filename == "" {
		filename = "audio.webm"
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", WrapError(providerFireworks, fmt.Errorf("create form file: %w", err))
	}
	if _, err := part.Write(audio); err != nil {
		return "", WrapError(providerFireworks, fmt.Errorf("write form file: %w", err))
	}

	fields := map[string]string{
		"model":       f.config.ModelID,
		"temperature": strconv.FormatFloat(f.config.Temperature, 'f', -1, 64),
		"vad_model":   f.config.VADModel,
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return "", WrapError(providerFireworks, fmt.Errorf("write form field %s: %w", name, err))
		}
	}
	if err := form.Close(); err != nil {
		return "", WrapError(providerFireworks, fmt.Errorf("close form: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", f.baseURL, &buf)
	if err != nil {
		return "", WrapError(providerFireworks, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+f.config.APIKey)
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := f.client.Do(req)
	if err != nil {
		return "", WrapError(providerFireworks, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", f.parseError(resp)
	}

	var result struct {
		Text *string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", WrapError(providerFireworks, fmt.Errorf("%w: %v", ErrBadPayload, err))
	}
	if result.Text == nil {
		return "", WrapError(providerFireworks, fmt.Errorf("%w: missing text field", ErrBadPayload))
	}

	text := strings.TrimSpace(*result.Text)

	f.logger.Debug("transcribed audio",
		"bytes", len(audio),
		"chars", len(text),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return text, nil
}

// Health checks API connectivity with an empty probe request.
// The service rejects it, but a 4xx proves the endpoint and key are reachable.
func (f *Fireworks) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "POST", f.baseURL, nil)
	if err != nil {
		return WrapError(providerFireworks, err)
	}
	req.Header.Set("Authorization", "Bearer "+f.config.APIKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return WrapError(providerFireworks, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode >= 500 {
		return f.parseError(resp)
	}
	return nil
}

// Close releases resources.
func (f *Fireworks) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// parseError reads and parses an error response.
func (f *Fireworks) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   providerFireworks,
	}
}

// Verify Fireworks implements Transcriber at compile time.
var _ Transcriber = (*Fireworks)(nil)
