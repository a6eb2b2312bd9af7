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

const (
	openaiChatURL  = "https://api.openai.com/v1/chat/completions"
	providerOpenAI = "openai"
)

// OpenAI generates replies against the OpenAI chat completions API.
// The full conversation history is sent on every call, prefixed with
// the configured system prompt.
type OpenAI struct {
	config *Config
	client *http.Client
}

// NewOpenAI creates an OpenAI-backed generator.
func NewOpenAI(opts ...Option) (*OpenAI, error) {
	config := DefaultConfig()
	config.Apply(opts...)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &OpenAI{
		config: config,
		client: httpc.NewClient(config.Timeout),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Tools    []chatTool    `json:"tools,omitempty"`
	Store    bool          `json:"store"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the conversation to the chat completions API and
// returns the assistant reply. An empty or missing completion yields
// the fallback reply rather than an error.
func (o *OpenAI) Generate(ctx context.Context, turns []Turn) (string, error) {
	payload := o.buildPayload(turns)

	body, err := json.Marshal(payload)
	if err != nil {
		return "", WrapError(providerOpenAI, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", WrapError(providerOpenAI, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", WrapError(providerOpenAI, "generate", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", o.parseError(resp)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		o.config.Logger.Warn("empty completion, using fallback reply", "model", o.config.ModelID)
		return FallbackReply(), nil
	}

	return decoded.Choices[0].Message.Content, nil
}

func (o *OpenAI) buildPayload(turns []Turn) chatRequest {
	messages := make([]chatMessage, 0, len(turns)+1)
	if o.config.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: string(RoleSystem), Content: o.config.SystemPrompt})
	}
	for _, turn := range turns {
		messages = append(messages, chatMessage{Role: string(turn.Role), Content: turn.Content})
	}

	req := chatRequest{
		Model:    o.config.ModelID,
		Messages: messages,
		Store:    true,
	}

	for _, tool := range o.config.Tools {
		req.Tools = append(req.Tools, chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	return req
}

func (o *OpenAI) endpoint() string {
	if o.config.BaseURL != "" {
		return o.config.BaseURL
	}
	return openaiChatURL
}

func (o *OpenAI) parseError(resp *http.Response) error {
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
		Provider:   providerOpenAI,
	}
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
		return o.parseError(resp)
	}
	return nil
}

// Close releases provider resources.
func (o *OpenAI) Close() error {
	o.client.CloseIdleConnections()
	return nil
}

var _ Generator = (*OpenAI)(nil)
