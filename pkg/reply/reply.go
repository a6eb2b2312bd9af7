// Package reply defines the wire contract between the response generator
// and the rest of the pipeline.
//
// A well-formed raw reply is a header line naming an emotional mode, one
// blank line, then the spoken payload:
//
//	MODE: explaining
//
//	The sky is blue because sunlight scatters.
//
// Parse rejects anything else with ErrBadFormat; it never guesses a mode.
package reply

import (
	"errors"
	"fmt"
	"strings"
)

// Mode tags a reply with its conversational tone. It is response metadata
// for client-side animation and carries no control-flow weight in the
// pipeline.
type Mode string

// The closed set of emotional modes the generator may emit.
const (
	ModeListening   Mode = "listening"
	ModeThinking    Mode = "thinking"
	ModeExplaining  Mode = "explaining"
	ModeEncouraging Mode = "encouraging"
	ModePatient     Mode = "patient"
	ModeFocused     Mode = "focused"
	ModeCurious     Mode = "curious"
	ModeCelebrating Mode = "celebrating"
	ModeClarifying  Mode = "clarifying"
	ModeSummarizing Mode = "summarizing"
)

// Modes returns the full mode vocabulary in a stable order.
func Modes() []Mode {
	return []Mode{
		ModeListening,
		ModeThinking,
		ModeExplaining,
		ModeEncouraging,
		ModePatient,
		ModeFocused,
		ModeCurious,
		ModeCelebrating,
		ModeClarifying,
		ModeSummarizing,
	}
}

// ParseMode validates a mode token against the closed vocabulary.
func ParseMode(s string) (Mode, bool) {
	for _, m := range Modes() {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

const (
	// ModeMarker opens the header line of a well-formed reply.
	ModeMarker = "MODE:"

	// SongSentinel is the payload token signalling a play-song intent.
	SongSentinel = "play-song"
)

// ErrBadFormat is returned when a raw reply does not match the wire
// contract.
var ErrBadFormat = errors.New("reply: malformed reply")

// Reply is a parsed generator response.
type Reply struct {
	// Mode is the emotional mode from the header line.
	Mode Mode

	// Text is the spoken payload. It may span multiple lines.
	Text string

	// IsSongRequest is true when the payload asks to play the pre-recorded
	// song instead of being spoken.
	IsSongRequest bool
}

// Parse validates raw against the header/blank-line/payload grammar and
// extracts the mode and spoken payload.
//
// The song intent matches loosely: the trimmed payload equal to the
// sentinel, or the payload containing it case-insensitively. This
// tolerates generation noise around the token.
func Parse(raw string) (Reply, error) {
	header, rest, found := strings.Cut(raw, "\n")
	if !found {
		return Reply{}, fmt.Errorf("%w: missing header line", ErrBadFormat)
	}

	if !strings.HasPrefix(header, ModeMarker) {
		return Reply{}, fmt.Errorf("%w: header does not start with %q", ErrBadFormat, ModeMarker)
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, ModeMarker))
	if token == "" || strings.ContainsAny(token, " \t") {
		return Reply{}, fmt.Errorf("%w: bad mode token %q", ErrBadFormat, token)
	}

	mode, ok := ParseMode(token)
	if !ok {
		return Reply{}, fmt.Errorf("%w: unknown mode %q", ErrBadFormat, token)
	}

	// The header must be followed by exactly one blank line.
	body, found := strings.CutPrefix(rest, "\n")
	if !found {
		return Reply{}, fmt.Errorf("%w: missing blank line after header", ErrBadFormat)
	}

	return Reply{
		Mode:          mode,
		Text:          body,
		IsSongRequest: isSongRequest(body),
	}, nil
}

func isSongRequest(text string) bool {
	if strings.TrimSpace(text) == SongSentinel {
		return true
	}
	return strings.Contains(strings.ToLower(text), SongSentinel)
}
