// Package command orchestrates the voice command pipeline: transcribe
// uploaded audio, generate a conversation-aware reply, parse its
// emotional mode, then either synthesize speech or short-circuit to a
// song URL. Every run produces exactly one JSON envelope.
package command

// Envelope status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Result is the envelope returned for every pipeline run. Exactly one
// of AudioBase64, PlaySongURL, or Message is populated alongside the
// status.
type Result struct {
	Status      string `json:"status"`
	Mode        string `json:"mode,omitempty"`
	AudioBase64 string `json:"audioBase64,omitempty"`
	PlaySongURL string `json:"playSongUrl,omitempty"`
	Message     string `json:"message,omitempty"`
}

// okAudio builds a successful spoken-reply envelope.
func okAudio(mode, audioBase64 string) *Result {
	return &Result{Status: StatusOK, Mode: mode, AudioBase64: audioBase64}
}

// okSong builds a successful song-shortcut envelope.
func okSong(mode, songURL string) *Result {
	return &Result{Status: StatusOK, Mode: mode, PlaySongURL: songURL}
}

// okMessage builds a soft-success envelope carrying only a message.
func okMessage(message string) *Result {
	return &Result{Status: StatusOK, Message: message}
}

// errResult builds an error envelope.
func errResult(message string) *Result {
	if message == "" {
		message = "unknown error occurred"
	}
	return &Result{Status: StatusError, Message: message}
}
