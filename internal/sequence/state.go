package sequence

import "chatline/internal/key"

// State is one sender's playback progress: the ordered history of emitted
// keys, the script cursor and whether a choice is outstanding.
//
// History is an ordered slice; the set only answers membership. Anything
// asking for "the latest" entry must scan the slice.
type State struct {
	history  []key.Key
	seen     map[string]struct{}
	cursor   int
	choosing bool
}

func New() *State {
	return &State{seen: make(map[string]struct{})}
}

// Append records an emitted key. Choice kinds are rejected.
func (s *State) Append(k key.Key) bool {
	if !k.Kind.Persistable() {
		return false
	}
	s.history = append(s.history, k)
	s.seen[k.String()] = struct{}{}
	return true
}

func (s *State) Contains(k key.Key) bool {
	_, ok := s.seen[k.String()]
	return ok
}

// LastOfKind returns the most recently appended key of the given kind.
func (s *State) LastOfKind(kind key.Kind) (key.Key, bool) {
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].Kind == kind {
			return s.history[i], true
		}
	}
	return key.Key{}, false
}

func (s *State) Last() (key.Key, bool) {
	if len(s.history) == 0 {
		return key.Key{}, false
	}
	return s.history[len(s.history)-1], true
}

// History returns a copy of the emitted keys in emission order.
func (s *State) History() []key.Key {
	return append([]key.Key(nil), s.history...)
}

// Strings returns the history in its persisted form.
func (s *State) Strings() []string {
	out := make([]string, 0, len(s.history))
	for _, k := range s.history {
		out = append(out, k.String())
	}
	return out
}

func (s *State) Len() int { return len(s.history) }

func (s *State) Cursor() int { return s.cursor }

func (s *State) AdvanceCursor() { s.cursor++ }

func (s *State) Choosing() bool { return s.choosing }

func (s *State) SetChoosing(v bool) { s.choosing = v }

// Restore replaces the history with one loaded from storage and moves the
// cursor to its end. Non-persistable entries are dropped.
func (s *State) Restore(history []key.Key) {
	s.Reset()
	for _, k := range history {
		s.Append(k)
	}
	s.cursor = len(s.history)
}

func (s *State) Reset() {
	s.history = nil
	s.seen = make(map[string]struct{})
	s.cursor = 0
	s.choosing = false
}
