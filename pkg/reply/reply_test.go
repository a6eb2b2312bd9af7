package reply_test

import (
	"errors"
	"testing"

	"github.com/eviworld/pixtoon-voice/pkg/reply"
)

func TestParseWellFormed(t *testing.T) {
	r, err := reply.Parse("MODE: explaining\n\nThe sky is blue because sunlight scatters.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Mode != reply.ModeExplaining {
		t.Errorf("expected explaining, got %s", r.Mode)
	}
	if r.Text != "The sky is blue because sunlight scatters." {
		t.Errorf("unexpected payload: %q", r.Text)
	}
	if r.IsSongRequest {
		t.Error("expected IsSongRequest false")
	}
}

func TestParseMultilinePayload(t *testing.T) {
	raw := "MODE: summarizing\n\nFirst point.\n\nSecond point.\nThird point."
	r, err := reply.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Mode != reply.ModeSummarizing {
		t.Errorf("expected summarizing, got %s", r.Mode)
	}
	if r.Text != "First point.\n\nSecond point.\nThird point." {
		t.Errorf("unexpected payload: %q", r.Text)
	}
}

func TestParseHeaderSpacing(t *testing.T) {
	t.Run("no space after marker", func(t *testing.T) {
		r, err := reply.Parse("MODE:curious\n\nWhat is that?")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Mode != reply.ModeCurious {
			t.Errorf("expected curious, got %s", r.Mode)
		}
	})

	t.Run("trailing spaces after token", func(t *testing.T) {
		r, err := reply.Parse("MODE: patient  \n\nTake your time.")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Mode != reply.ModePatient {
			t.Errorf("expected patient, got %s", r.Mode)
		}
	})
}

func TestParseBadFormat(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"plain text", "The sky is blue."},
		{"missing marker", "curious\n\nhello"},
		{"lowercase marker", "mode: curious\n\nhello"},
		{"unknown mode", "MODE: ecstatic\n\nhello"},
		{"empty mode token", "MODE:\n\nhello"},
		{"two tokens", "MODE: curious thinking\n\nhello"},
		{"no blank line", "MODE: curious\nhello"},
		{"header only", "MODE: curious"},
		{"empty input", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := reply.Parse(tc.raw)
			if !errors.Is(err, reply.ErrBadFormat) {
				t.Errorf("expected ErrBadFormat, got %v", err)
			}
		})
	}
}

func TestParseSongIntent(t *testing.T) {
	t.Run("exact sentinel", func(t *testing.T) {
		r, err := reply.Parse("MODE: curious\n\nplay-song")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !r.IsSongRequest {
			t.Error("expected IsSongRequest true")
		}
		if r.Mode != reply.ModeCurious {
			t.Errorf("expected curious, got %s", r.Mode)
		}
	})

	t.Run("sentinel with padding", func(t *testing.T) {
		r, _ := reply.Parse("MODE: celebrating\n\n  play-song  ")
		if !r.IsSongRequest {
			t.Error("expected IsSongRequest true")
		}
	})

	t.Run("sentinel embedded in noise", func(t *testing.T) {
		r, _ := reply.Parse("MODE: celebrating\n\nSure! Play-Song coming right up.")
		if !r.IsSongRequest {
			t.Error("expected case-insensitive substring match")
		}
	})

	t.Run("no sentinel", func(t *testing.T) {
		r, _ := reply.Parse("MODE: celebrating\n\nLet's sing together!")
		if r.IsSongRequest {
			t.Error("expected IsSongRequest false")
		}
	})
}

func TestParseMode(t *testing.T) {
	for _, m := range reply.Modes() {
		got, ok := reply.ParseMode(string(m))
		if !ok || got != m {
			t.Errorf("ParseMode(%q) = %q, %v", m, got, ok)
		}
	}

	if _, ok := reply.ParseMode("snarky"); ok {
		t.Error("expected unknown mode to be rejected")
	}
	if _, ok := reply.ParseMode("Listening"); ok {
		t.Error("mode tokens are case-sensitive")
	}
}

func TestModesComplete(t *testing.T) {
	if len(reply.Modes()) != 10 {
		t.Errorf("expected 10 modes, got %d", len(reply.Modes()))
	}
}
