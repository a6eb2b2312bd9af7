package tts

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/eviworld/pixtoon-voice/internal/httpc"
)

const (
	minimaxSpeechURL = "https://api.minimax.io/v1/t2a_v2"
	providerMiniMax  = "minimax"
)

// MiniMax synthesizes speech via the MiniMax t2a API. The account
// group ID rides on the query string and the audio comes back as a
// hex string inside the JSON body.
type MiniMax struct {
	config *Config
	client *http.Client
}

// NewMiniMax creates a MiniMax-backed synthesizer.
func NewMiniMax(opts ...Option) (*MiniMax, error) {
	config := DefaultConfig()
	config.ModelID = "speech-02-turbo"
	config.VoiceID = "English_expressive_narrator"
	config.Apply(opts...)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.GroupID == "" {
		return nil, ErrNoGroupID
	}

	return &MiniMax{
		config: config,
		client: httpc.NewClient(config.Timeout),
	}, nil
}

type minimaxRequest struct {
	Model        string              `json:"model"`
	Text         string              `json:"text"`
	Stream       bool                `json:"stream"`
	VoiceSetting minimaxVoiceSetting `json:"voice_setting"`
	AudioSetting minimaxAudioSetting `json:"audio_setting"`
}

type minimaxVoiceSetting struct {
	VoiceID string  `json:"voice_id"`
	Speed   float64 `json:"speed"`
	Volume  float64 `json:"vol"`
	Pitch   int     `json:"pitch"`
}

type minimaxAudioSetting struct {
	SampleRate int    `json:"sample_rate"`
	Bitrate    int    `json:"bitrate"`
	Format     string `json:"format"`
	Channel    int    `json:"channel"`
}

type minimaxResponse struct {
	Data struct {
		Audio string `json:"audio"`
	} `json:"data"`
	BaseResp struct {
		StatusCode int    `json:"status_code"`
		StatusMsg  string `json:"status_msg"`
	} `json:"base_resp"`
}

// Synthesize converts text to audio in the configured format.
func (m *MiniMax) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	start := time.Now()

	body, err := json.Marshal(minimaxRequest{
		Model:  m.config.ModelID,
		Text:   text,
		Stream: false,
		VoiceSetting: minimaxVoiceSetting{
			VoiceID: m.config.VoiceID,
			Speed:   1.0,
			Volume:  1.0,
			Pitch:   0,
		},
		AudioSetting: minimaxAudioSetting{
			SampleRate: m.config.SampleRate,
			Bitrate:    m.config.Bitrate,
			Format:     m.config.Format,
			Channel:    m.config.Channels,
		},
	})
	if err != nil {
		return nil, WrapError(providerMiniMax, "marshal request", err)
	}

	url := m.endpoint() + "?GroupId=" + m.config.GroupID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(providerMiniMax, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.config.APIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, WrapError(providerMiniMax, "synthesize", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseError(providerMiniMax, resp)
	}

	var decoded minimaxResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	if decoded.BaseResp.StatusCode != 0 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("status %d: %s", decoded.BaseResp.StatusCode, decoded.BaseResp.StatusMsg),
			Provider:   providerMiniMax,
		}
	}
	if decoded.Data.Audio == "" {
		return nil, fmt.Errorf("%w: missing audio field", ErrBadPayload)
	}

	audio, err := hex.DecodeString(decoded.Data.Audio)
	if err != nil {
		return nil, fmt.Errorf("%w: audio is not valid hex: %v", ErrBadPayload, err)
	}

	return &AudioResult{
		Audio:     audio,
		Format:    m.config.Format,
		CharCount: len(text),
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

func (m *MiniMax) endpoint() string {
	if m.config.BaseURL != "" {
		return m.config.BaseURL
	}
	return minimaxSpeechURL
}

// Health verifies the configuration is usable.
func (m *MiniMax) Health(ctx context.Context) error {
	if m.config.APIKey == "" {
		return ErrNoAPIKey
	}
	if m.config.GroupID == "" {
		return ErrNoGroupID
	}
	return nil
}

// Close releases provider resources.
func (m *MiniMax) Close() error {
	m.client.CloseIdleConnections()
	return nil
}

var _ Synthesizer = (*MiniMax)(nil)
