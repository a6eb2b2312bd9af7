package tts

import (
	"log/slog"
	"time"
)

// Config holds TTS provider configuration.
// Use functional options (WithXxx) to set these values.
type Config struct {
	// Provider credentials
	APIKey  string
	BaseURL string

	// MiniMax requires a group ID alongside the API key.
	GroupID string

	// Voice settings
	ModelID      string
	VoiceID      string
	Instructions string

	// Audio encoding (MiniMax)
	SampleRate int
	Bitrate    int
	Channels   int
	Format     string

	// Job polling (fal.ai)
	PollInterval time.Duration
	PollAttempts int

	// Timeouts
	Timeout time.Duration

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring TTS providers.
type Option func(*Config)

// WithAPIKey sets the API key for the provider.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithGroupID sets the MiniMax group ID.
func WithGroupID(groupID string) Option {
	return func(c *Config) { c.GroupID = groupID }
}

// WithModel sets the synthesis model ID.
func WithModel(modelID string) Option {
	return func(c *Config) { c.ModelID = modelID }
}

// WithVoice sets the voice to synthesize with.
func WithVoice(voiceID string) Option {
	return func(c *Config) { c.VoiceID = voiceID }
}

// WithInstructions sets delivery instructions for providers that
// support them.
func WithInstructions(instructions string) Option {
	return func(c *Config) { c.Instructions = instructions }
}

// WithAudioSettings sets the encoding parameters for providers that
// accept them.
func WithAudioSettings(sampleRate, bitrate, channels int, format string) Option {
	return func(c *Config) {
		c.SampleRate = sampleRate
		c.Bitrate = bitrate
		c.Channels = channels
		c.Format = format
	}
}

// WithPolling sets the job polling budget for async providers.
func WithPolling(interval time.Duration, attempts int) Option {
	return func(c *Config) {
		c.PollInterval = interval
		c.PollAttempts = attempts
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) { c.Timeout = timeout }
}

// WithLogger sets the structured logger for the provider.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		SampleRate:   32000,
		Bitrate:      128000,
		Channels:     1,
		Format:       FormatMP3,
		PollInterval: time.Second,
		PollAttempts: 20,
		Timeout:      30 * time.Second,
		Logger:       slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	return nil
}
