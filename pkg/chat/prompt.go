package chat

import (
	"fmt"
	"strings"

	"github.com/eviworld/pixtoon-voice/pkg/reply"
)

// DefaultSystemPrompt returns the fixed instruction preamble sent with
// every generation call. It pins the two-part output format the reply
// parser expects: a mode header line, a blank line, then the spoken text,
// with the play-song sentinel for song requests.
func DefaultSystemPrompt() string {
	names := make([]string, 0, len(reply.Modes()))
	for _, m := range reply.Modes() {
		names = append(names, string(m))
	}

	return fmt.Sprintf(`When responding ALWAYS make the first line reflect the most appropriate mode for your response, one of %s.

When the user asks to play a song you made, set the response text to %q (mode should still be one of the above).

<OUTPUT_FORMAT>
%s <mode>

response text
</OUTPUT_FORMAT>`, strings.Join(names, ", "), reply.SongSentinel, reply.ModeMarker)
}

// FallbackReply is returned when a provider answers without usable text,
// for example an empty completion or a tool-call-only response. It conforms
// to the output format so the pipeline can still speak an apology instead
// of failing on parse.
func FallbackReply() string {
	return fmt.Sprintf("%s %s\n\nSorry, there was a server error.", reply.ModeMarker, reply.ModeClarifying)
}
