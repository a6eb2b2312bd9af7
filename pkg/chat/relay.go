package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/eviworld/pixtoon-voice/internal/httpc"
)

const providerRelay = "relay"

// Relay delegates generation to a remote operator service. The relay
// protocol is stateless on our side: only the latest user turn and the
// system prompt travel over the wire, the operator keeps its own state.
type Relay struct {
	config   *Config
	endpoint string
	client   *http.Client
}

// NewRelay creates a relay-backed generator pointed at endpoint.
func NewRelay(endpoint string, opts ...Option) (*Relay, error) {
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}

	config := DefaultConfig()
	config.Apply(opts...)

	return &Relay{
		config:   config,
		endpoint: endpoint,
		client:   httpc.NewClient(config.Timeout),
	}, nil
}

type relayRequest struct {
	Prompt string `json:"prompt"`
	System string `json:"system"`
}

type relayResponse struct {
	Response *string `json:"response"`
}

// Generate forwards the latest user turn to the relay endpoint and
// returns its response.
func (r *Relay) Generate(ctx context.Context, turns []Turn) (string, error) {
	prompt, ok := latestUserTurn(turns)
	if !ok {
		return "", ErrNoUserTurn
	}

	body, err := json.Marshal(relayRequest{
		Prompt: prompt,
		System: r.config.SystemPrompt,
	})
	if err != nil {
		return "", WrapError(providerRelay, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", WrapError(providerRelay, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", WrapError(providerRelay, "generate", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(raw),
			Provider:   providerRelay,
		}
	}

	var decoded relayResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if decoded.Response == nil {
		return "", fmt.Errorf("%w: missing response field", ErrBadPayload)
	}

	return *decoded.Response, nil
}

// latestUserTurn returns the content of the most recent user turn.
func latestUserTurn(turns []Turn) (string, bool) {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleUser {
			return turns[i].Content, true
		}
	}
	return "", false
}

// Health verifies the relay endpoint is reachable.
func (r *Relay) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, r.endpoint, nil)
	if err != nil {
		return WrapError(providerRelay, "health", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return WrapError(providerRelay, "health", err)
	}
	resp.Body.Close()
	return nil
}

// Close releases provider resources.
func (r *Relay) Close() error {
	r.client.CloseIdleConnections()
	return nil
}

var _ Generator = (*Relay)(nil)
