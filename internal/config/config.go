// Package config provides configuration for the voice command service.
// Settings load from an optional YAML file and are overridden by
// environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider selection values.
const (
	ChatOpenAI = "openai"
	ChatRelay  = "relay"

	TTSOpenAI  = "openai"
	TTSMiniMax = "minimax"
	TTSFal     = "fal"
)

// Config is the full service configuration.
type Config struct {
	Port string `yaml:"port"`

	// Chat selects the reply generation backend: openai or relay.
	Chat struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		RelayURL string `yaml:"relay_url"`
	} `yaml:"chat"`

	// TTS selects the synthesis backend: openai, minimax, or fal.
	TTS struct {
		Provider string `yaml:"provider"`
		Voice    string `yaml:"voice"`

		// PollIntervalMS and PollAttempts bound the fal.ai job wait.
		PollIntervalMS int `yaml:"poll_interval_ms"`
		PollAttempts   int `yaml:"poll_attempts"`
	} `yaml:"tts"`

	Session struct {
		// MaxTurns bounds per-session history; 0 keeps everything.
		MaxTurns int `yaml:"max_turns"`
	} `yaml:"session"`

	SongURL string `yaml:"song_url"`

	Keys struct {
		Fireworks    string `yaml:"fireworks"`
		OpenAI       string `yaml:"openai"`
		MiniMax      string `yaml:"minimax"`
		MiniMaxGroup string `yaml:"minimax_group"`
		Fal          string `yaml:"fal"`
	} `yaml:"keys"`
}

// Default returns configuration with baked-in defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.Port = "8080"
	cfg.Chat.Provider = ChatOpenAI
	cfg.Chat.Model = "gpt-4.1"
	cfg.TTS.Provider = TTSOpenAI
	cfg.TTS.PollIntervalMS = 1000
	cfg.TTS.PollAttempts = 20
	cfg.Session.MaxTurns = 0
	return cfg
}

// PollInterval returns the fal.ai poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.TTS.PollIntervalMS) * time.Millisecond
}

// Load reads configuration from the given YAML file (if path is
// non-empty) and then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	setIfEnv(&c.Port, "PORT")
	setIfEnv(&c.Chat.Provider, "CHAT_PROVIDER")
	setIfEnv(&c.Chat.RelayURL, "RELAY_URL")
	setIfEnv(&c.TTS.Provider, "TTS_PROVIDER")
	setIfEnv(&c.SongURL, "SONG_URL")
	setIfEnv(&c.Keys.Fireworks, "FIREWORKS_API_KEY")
	setIfEnv(&c.Keys.OpenAI, "OPENAI_API_KEY")
	setIfEnv(&c.Keys.MiniMax, "MINIMAX_API_KEY")
	setIfEnv(&c.Keys.MiniMaxGroup, "MINIMAX_GROUP_ID")
	setIfEnv(&c.Keys.Fal, "FAL_KEY")
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that the selected providers have their credentials.
func (c *Config) Validate() error {
	if c.Keys.Fireworks == "" {
		return fmt.Errorf("config: FIREWORKS_API_KEY is required")
	}

	switch c.Chat.Provider {
	case ChatOpenAI:
		if c.Keys.OpenAI == "" {
			return fmt.Errorf("config: OPENAI_API_KEY is required for the openai chat provider")
		}
	case ChatRelay:
		if c.Chat.RelayURL == "" {
			return fmt.Errorf("config: RELAY_URL is required for the relay chat provider")
		}
	default:
		return fmt.Errorf("config: unknown chat provider %q", c.Chat.Provider)
	}

	switch c.TTS.Provider {
	case TTSOpenAI:
		if c.Keys.OpenAI == "" {
			return fmt.Errorf("config: OPENAI_API_KEY is required for the openai tts provider")
		}
	case TTSMiniMax:
		if c.Keys.MiniMax == "" || c.Keys.MiniMaxGroup == "" {
			return fmt.Errorf("config: MINIMAX_API_KEY and MINIMAX_GROUP_ID are required for the minimax tts provider")
		}
	case TTSFal:
		if c.Keys.Fal == "" {
			return fmt.Errorf("config: FAL_KEY is required for the fal tts provider")
		}
	default:
		return fmt.Errorf("config: unknown tts provider %q", c.TTS.Provider)
	}

	return nil
}
