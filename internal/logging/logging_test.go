package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("filters below level", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := New("warn", &buf)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		log.Info().Msg("quiet")
		log.Warn().Str("sender", "Alice").Msg("playback stalled")

		out := buf.String()
		if strings.Contains(out, "quiet") {
			t.Fatalf("expected info line to be filtered, got %q", out)
		}
		if !strings.Contains(out, "playback stalled") || !strings.Contains(out, "sender=Alice") {
			t.Fatalf("expected warn line with fields, got %q", out)
		}
	})

	t.Run("empty level defaults to info", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := New("", &buf)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		log.Debug().Msg("hidden")
		log.Info().Msg("shown")
		if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
			t.Fatalf("unexpected output %q", buf.String())
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		if _, err := New("loud", &bytes.Buffer{}); err == nil {
			t.Fatalf("expected error")
		}
	})
}
