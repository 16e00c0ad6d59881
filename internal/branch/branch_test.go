package branch

import (
	"testing"

	"chatline/internal/key"
)

func keys(raw ...string) []key.Key {
	out := make([]key.Key, 0, len(raw))
	for _, r := range raw {
		out = append(out, key.MustParse(r))
	}
	return out
}

func TestResolveAuthorConditional(t *testing.T) {
	tests := []struct {
		name     string
		history  []key.Key
		expected string
		ok       bool
	}{
		{name: "empty history", history: nil, ok: false},
		{name: "no player entries", history: keys("AM_1", "AM_2"), ok: false},
		{name: "latest player yes", history: keys("PM_1_Y", "AM_2"), expected: "AM_9_Y", ok: true},
		{name: "latest player no", history: keys("PM_1_Y", "AM_2", "PM_3_N", "AM_4"), expected: "AM_9_N", ok: true},
		{name: "latest player has no variant", history: keys("PM_1_Y", "PM_2"), ok: false},
		{name: "author variant is ignored", history: keys("PM_1_N", "AM_2_Y"), expected: "AM_9_N", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveAuthorConditional(tt.history, "9")
			if ok != tt.ok {
				t.Fatalf("resolved = %v, want %v", ok, tt.ok)
			}
			if ok && got.String() != tt.expected {
				t.Errorf("resolved to %q, want %q", got.String(), tt.expected)
			}
		})
	}
}

func TestExpandPlayerChoice(t *testing.T) {
	pair := ExpandPlayerChoice("3")
	if pair[0].String() != "PM_3_Y" || pair[1].String() != "PM_3_N" {
		t.Fatalf("unexpected pair: %s, %s", pair[0], pair[1])
	}
}
