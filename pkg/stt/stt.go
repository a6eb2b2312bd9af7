// Package stt provides a unified interface for speech-to-text providers.
//
// A Transcriber accepts one complete audio recording and returns the
// recognized text. The bundled Fireworks provider uploads the recording to
// the Fireworks Whisper endpoint with deterministic settings (temperature 0,
// voice activity detection enabled).
//
// Example usage:
//
//	provider, _ := stt.NewFireworks(
//	    stt.WithAPIKey(os.Getenv("FIREWORKS_API_KEY")),
//	)
//	defer provider.Close()
//
//	text, _ := provider.Transcribe(ctx, audioBytes, "command.webm")
package stt

import "context"

// Transcriber converts a finished audio recording to text.
// All implementations must satisfy this interface for seamless provider
// switching.
type Transcriber interface {
	// Transcribe uploads one complete recording and returns the recognized
	// text, trimmed of surrounding whitespace. An empty string is a valid
	// result, meaning no speech was recognized.
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)

	// Health checks provider connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}
