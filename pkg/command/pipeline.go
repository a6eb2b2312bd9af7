package command

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	"github.com/eviworld/pixtoon-voice/pkg/chat"
	"github.com/eviworld/pixtoon-voice/pkg/reply"
	"github.com/eviworld/pixtoon-voice/pkg/stt"
	"github.com/eviworld/pixtoon-voice/pkg/tts"
)

// Default song played when the reply asks for one.
const DefaultSongURL = "https://pixtoon-media.eviworld.com/songs/weekend-song.mp3"

// User-facing messages for pipeline outcomes.
const (
	msgEmptyPrompt      = "empty prompt"
	msgBadReplyFormat   = "Invalid response format from LLM"
	msgSynthesisTimeout = "Speech synthesis timed out"
)

// Config holds pipeline configuration.
type Config struct {
	SongURL string

	// Per-stage timeouts. Zero disables the stage deadline.
	TranscribeTimeout time.Duration
	GenerateTimeout   time.Duration
	SynthesizeTimeout time.Duration

	Logger *slog.Logger
}

// Option is a functional option for configuring the pipeline.
type Option func(*Config)

// WithSongURL overrides the song shortcut URL.
func WithSongURL(url string) Option {
	return func(c *Config) { c.SongURL = url }
}

// WithStageTimeouts sets per-stage deadlines.
func WithStageTimeouts(transcribe, generate, synthesize time.Duration) Option {
	return func(c *Config) {
		c.TranscribeTimeout = transcribe
		c.GenerateTimeout = generate
		c.SynthesizeTimeout = synthesize
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		SongURL:           DefaultSongURL,
		TranscribeTimeout: 30 * time.Second,
		GenerateTimeout:   60 * time.Second,
		SynthesizeTimeout: 60 * time.Second,
		Logger:            slog.Default(),
	}
}

// Pipeline runs voice commands through transcription, reply
// generation, mode parsing, and speech synthesis.
type Pipeline struct {
	transcriber stt.Transcriber
	generator   chat.Generator
	synthesizer tts.Synthesizer
	config      *Config
}

// NewPipeline assembles a pipeline from its stage providers.
func NewPipeline(transcriber stt.Transcriber, generator chat.Generator, synthesizer tts.Synthesizer, opts ...Option) *Pipeline {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	return &Pipeline{
		transcriber: transcriber,
		generator:   generator,
		synthesizer: synthesizer,
		config:      config,
	}
}

// Run executes one voice command against the given session and always
// returns an envelope. Pipeline failures are reported inside the
// envelope, never as an error to the caller.
func (p *Pipeline) Run(ctx context.Context, session *Session, audio []byte, filename string) *Result {
	log := p.config.Logger.With("session_id", session.ID)

	transcript, err := p.transcribe(ctx, audio, filename)
	if err != nil {
		log.Error("transcription failed", "error", err)
		return errResult(err.Error())
	}

	if transcript == "" {
		log.Info("empty transcript, skipping generation")
		return okMessage(msgEmptyPrompt)
	}

	log.Info("transcribed command", "chars", len(transcript))

	turns := session.History.AppendAndSnapshot(chat.NewUserTurn(transcript))

	raw, err := p.generate(ctx, turns)
	if err != nil {
		log.Error("reply generation failed", "error", err)
		return errResult(err.Error())
	}

	parsed, err := reply.Parse(raw)
	if err != nil {
		log.Error("reply has no mode header", "error", err)
		return errResult(msgBadReplyFormat)
	}

	session.History.Append(chat.NewAssistantTurn(raw))

	if parsed.IsSongRequest {
		log.Info("song shortcut", "mode", parsed.Mode)
		return okSong(string(parsed.Mode), p.config.SongURL)
	}

	audioResult, err := p.synthesize(ctx, parsed.Text)
	if err != nil {
		log.Error("synthesis failed", "error", err)
		if errors.Is(err, tts.ErrSynthesisTimeout) {
			return errResult(msgSynthesisTimeout)
		}
		return errResult(err.Error())
	}

	log.Info("command complete",
		"mode", parsed.Mode,
		"audio_bytes", len(audioResult.Audio),
		"latency_ms", audioResult.LatencyMs)

	encoded := base64.StdEncoding.EncodeToString(audioResult.Audio)
	return okAudio(string(parsed.Mode), encoded)
}

func (p *Pipeline) transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	ctx, cancel := stageContext(ctx, p.config.TranscribeTimeout)
	defer cancel()
	return p.transcriber.Transcribe(ctx, audio, filename)
}

func (p *Pipeline) generate(ctx context.Context, turns []chat.Turn) (string, error) {
	ctx, cancel := stageContext(ctx, p.config.GenerateTimeout)
	defer cancel()
	return p.generator.Generate(ctx, turns)
}

func (p *Pipeline) synthesize(ctx context.Context, text string) (*tts.AudioResult, error) {
	ctx, cancel := stageContext(ctx, p.config.SynthesizeTimeout)
	defer cancel()
	return p.synthesizer.Synthesize(ctx, text)
}

func stageContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
