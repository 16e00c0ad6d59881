// Package branch resolves the keys that depend on earlier player answers.
package branch

import "chatline/internal/key"

// ResolveAuthorConditional turns AC_<target> into AM_<target>_<Y|N> using the
// most recent player entry in history. It reports false when no player entry
// exists or when the latest one carries no Yes/No answer.
func ResolveAuthorConditional(history []key.Key, target string) (key.Key, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		entry := history[i]
		if entry.Kind != key.Player {
			continue
		}
		if entry.Variant == key.None {
			return key.Key{}, false
		}
		return key.Key{Kind: key.Author, Target: target, Variant: entry.Variant}, true
	}
	return key.Key{}, false
}

// ExpandPlayerChoice returns the two answers offered for PC_<target>, Yes first.
func ExpandPlayerChoice(target string) [2]key.Key {
	return [2]key.Key{
		{Kind: key.Player, Target: target, Variant: key.Yes},
		{Kind: key.Player, Target: target, Variant: key.No},
	}
}
