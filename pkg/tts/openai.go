package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/eviworld/pixtoon-voice/internal/httpc"
)

const (
	openaiSpeechURL = "https://api.openai.com/v1/audio/speech"
	providerOpenAI  = "openai"
)

// OpenAI synthesizes speech via the OpenAI audio API. The response
// body is the audio itself, so a single round trip is enough.
type OpenAI struct {
	config *Config
	client *http.Client
}

// NewOpenAI creates an OpenAI-backed synthesizer.
func NewOpenAI(opts ...Option) (*OpenAI, error) {
	config := DefaultConfig()
	config.ModelID = "gpt-4o-mini-tts"
	config.VoiceID = "coral"
	config.Instructions = "Speak in a cheerful, friendly and positive tone."
	config.Apply(opts...)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &OpenAI{
		config: config,
		client: httpc.NewClient(config.Timeout),
	}, nil
}

type openaiSpeechRequest struct {
	Model        string `json:"model"`
	Input        string `json:"input"`
	Voice        string `json:"voice"`
	Instructions string `json:"instructions,omitempty"`
}

// Synthesize converts text to MP3 audio.
func (o *OpenAI) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	start := time.Now()

	body, err := json.Marshal(openaiSpeechRequest{
		Model:        o.config.ModelID,
		Input:        text,
		Voice:        o.config.VoiceID,
		Instructions: o.config.Instructions,
	})
	if err != nil {
		return nil, WrapError(providerOpenAI, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(providerOpenAI, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, WrapError(providerOpenAI, "synthesize", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseError(providerOpenAI, resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(providerOpenAI, "read audio", err)
	}
	if len(audio) == 0 {
		return nil, WrapError(providerOpenAI, "read audio", ErrBadPayload)
	}

	return &AudioResult{
		Audio:     audio,
		Format:    FormatMP3,
		CharCount: len(text),
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

func (o *OpenAI) endpoint() string {
	if o.config.BaseURL != "" {
		return o.config.BaseURL
	}
	return openaiSpeechURL
}

// Health verifies the API is reachable with the configured key.
func (o *OpenAI) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.openai.com/v1/models", nil)
	if err != nil {
		return WrapError(providerOpenAI, "health", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return WrapError(providerOpenAI, "health", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseError(providerOpenAI, resp)
	}
	return nil
}

// Close releases provider resources.
func (o *OpenAI) Close() error {
	o.client.CloseIdleConnections()
	return nil
}

// parseError reads a non-200 response into an APIError.
func parseError(provider string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var apiErr struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	message := string(body)
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   provider,
	}
}

var _ Synthesizer = (*OpenAI)(nil)
