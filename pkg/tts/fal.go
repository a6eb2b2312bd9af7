package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eviworld/pixtoon-voice/internal/httpc"
	"github.com/eviworld/pixtoon-voice/internal/poll"
)

const (
	falQueueURL = "https://queue.fal.run/fal-ai/minimax/speech-02-turbo"
	providerFal = "fal"
)

// Fal synthesizes speech through the fal.ai job queue. Synthesis is a
// three step flow: submit the job, poll its status until it completes,
// then fetch the finished audio. Callers only ever see the final audio
// bytes.
type Fal struct {
	config *Config
	client *http.Client

	// sleep is swapped out in tests to avoid real waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewFal creates a fal.ai-backed synthesizer.
func NewFal(opts ...Option) (*Fal, error) {
	config := DefaultConfig()
	config.Apply(opts...)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Fal{
		config: config,
		client: httpc.NewClient(config.Timeout),
	}, nil
}

type falSubmitResponse struct {
	RequestID   string `json:"request_id"`
	StatusURL   string `json:"status_url"`
	ResponseURL string `json:"response_url"`
}

type falStatusResponse struct {
	Status string `json:"status"`
}

type falResultResponse struct {
	Audio struct {
		URL string `json:"url"`
	} `json:"audio"`
}

// Synthesize submits a synthesis job and blocks until it completes or
// the polling budget runs out. ErrSynthesisTimeout is returned when
// the job is still pending after the final attempt.
func (f *Fal) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	start := time.Now()

	job, err := f.submit(ctx, text)
	if err != nil {
		return nil, err
	}

	f.config.Logger.Debug("synthesis job submitted",
		"provider", providerFal,
		"request_id", job.RequestID)

	if err := f.waitForJob(ctx, job); err != nil {
		return nil, err
	}

	audio, err := f.fetchResult(ctx, job)
	if err != nil {
		return nil, err
	}

	return &AudioResult{
		Audio:     audio,
		Format:    FormatMP3,
		CharCount: len(text),
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

func (f *Fal) submit(ctx context.Context, text string) (*falSubmitResponse, error) {
	body, err := json.Marshal(map[string]any{
		"text": text,
		"voice_setting": map[string]any{
			"voice_id": f.config.VoiceID,
			"speed":    1.0,
		},
	})
	if err != nil {
		return nil, WrapError(providerFal, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(providerFal, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+f.config.APIKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, WrapError(providerFal, "submit", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, parseError(providerFal, resp)
	}

	var job falSubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if job.RequestID == "" || job.StatusURL == "" || job.ResponseURL == "" {
		return nil, fmt.Errorf("%w: incomplete job descriptor", ErrBadPayload)
	}

	return &job, nil
}

// waitForJob polls the job status until it completes. A failed status
// probe counts against the budget but does not abort the wait; the job
// may still complete on a later attempt.
func (f *Fal) waitForJob(ctx context.Context, job *falSubmitResponse) error {
	cfg := poll.Config{
		Interval:    f.config.PollInterval,
		MaxAttempts: f.config.PollAttempts,
		Sleep:       f.sleep,
	}

	err := poll.Wait(ctx, cfg, func(ctx context.Context) (bool, error) {
		status, err := f.jobStatus(ctx, job.StatusURL)
		if err != nil {
			f.config.Logger.Warn("status probe failed, will retry",
				"provider", providerFal,
				"request_id", job.RequestID,
				"error", err)
			return false, err
		}

		switch status {
		case "COMPLETED":
			return true, nil
		case "IN_QUEUE", "IN_PROGRESS":
			return false, nil
		default:
			return false, poll.Permanent(fmt.Errorf("%w: status %s", ErrJobFailed, status))
		}
	})

	if errors.Is(err, poll.ErrBudgetExhausted) {
		return fmt.Errorf("%w: request %s", ErrSynthesisTimeout, job.RequestID)
	}
	return err
}

func (f *Fal) jobStatus(ctx context.Context, statusURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return "", WrapError(providerFal, "create request", err)
	}
	req.Header.Set("Authorization", "Key "+f.config.APIKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", WrapError(providerFal, "poll status", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", parseError(providerFal, resp)
	}

	var status falStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return status.Status, nil
}

// fetchResult downloads the finished audio for a completed job.
func (f *Fal) fetchResult(ctx context.Context, job *falSubmitResponse) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.ResponseURL, nil)
	if err != nil {
		return nil, WrapError(providerFal, "create request", err)
	}
	req.Header.Set("Authorization", "Key "+f.config.APIKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, WrapError(providerFal, "fetch result", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseError(providerFal, resp)
	}

	var result falResultResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if result.Audio.URL == "" {
		return nil, fmt.Errorf("%w: missing audio URL", ErrBadPayload)
	}

	audioReq, err := http.NewRequestWithContext(ctx, http.MethodGet, result.Audio.URL, nil)
	if err != nil {
		return nil, WrapError(providerFal, "create request", err)
	}

	audioResp, err := f.client.Do(audioReq)
	if err != nil {
		return nil, WrapError(providerFal, "download audio", err)
	}
	defer audioResp.Body.Close()

	if audioResp.StatusCode != http.StatusOK {
		return nil, parseError(providerFal, audioResp)
	}

	audio, err := io.ReadAll(audioResp.Body)
	if err != nil {
		return nil, WrapError(providerFal, "download audio", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty audio", ErrBadPayload)
	}

	return audio, nil
}

func (f *Fal) endpoint() string {
	if f.config.BaseURL != "" {
		return f.config.BaseURL
	}
	return falQueueURL
}

// Health verifies the configuration is usable.
func (f *Fal) Health(ctx context.Context) error {
	if f.config.APIKey == "" {
		return ErrNoAPIKey
	}
	return nil
}

// Close releases provider resources.
func (f *Fal) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

var _ Synthesizer = (*Fal)(nil)
