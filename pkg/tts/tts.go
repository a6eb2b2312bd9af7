// Package tts provides text-to-speech synthesis with pluggable providers.
// Synchronous providers return audio in a single round trip; the fal.ai
// provider submits a job and polls until the audio is ready.
package tts

import "context"

// Synthesizer converts text to speech audio.
type Synthesizer interface {
	// Synthesize converts text to audio bytes. The returned audio is
	// complete and playable; callers never see provider job IDs or
	// intermediate URLs.
	Synthesize(ctx context.Context, text string) (*AudioResult, error)

	// Health checks if the provider is available.
	Health(ctx context.Context) error

	// Close releases provider resources.
	Close() error
}

// AudioResult contains synthesized audio and its metadata.
type AudioResult struct {
	// Audio is the raw audio bytes.
	Audio []byte

	// Format describes the audio encoding (mp3, wav, pcm).
	Format string

	// CharCount is the number of characters synthesized.
	CharCount int

	// LatencyMs is the synthesis round trip time in milliseconds.
	LatencyMs int64
}

// Audio format identifiers.
const (
	FormatMP3 = "mp3"
	FormatWAV = "wav"
	FormatPCM = "pcm"
)
