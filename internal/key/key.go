package key

import (
	"errors"
	"strings"
)

// Kind identifies who speaks a dialogue entry and whether it still needs
// resolving before it can be shown.
type Kind int

const (
	Author Kind = iota + 1
	Player
	AuthorChoice
	PlayerChoice
)

// Variant is the Yes/No branch a key carries, if any.
type Variant int

const (
	None Variant = iota
	Yes
	No
)

// Table names the localization table a message body is looked up in.
type Table string

const (
	AuthorTable Table = "AuthorMessageTable"
	PlayerTable Table = "PlayerMessageTable"
)

var (
	ErrEmpty            = errors.New("empty key")
	ErrTooShort         = errors.New("key shorter than its prefix")
	ErrUnknownPrefix    = errors.New("unknown key prefix")
	ErrMissingSeparator = errors.New("key prefix must be followed by '_'")
	ErrMissingTarget    = errors.New("key has no target after its prefix")
)

const separator = "_"

var prefixes = map[string]Kind{
	"AM": Author,
	"PM": Player,
	"AC": AuthorChoice,
	"PC": PlayerChoice,
}

func (k Kind) Prefix() string {
	switch k {
	case Author:
		return "AM"
	case Player:
		return "PM"
	case AuthorChoice:
		return "AC"
	case PlayerChoice:
		return "PC"
	default:
		return ""
	}
}

func (k Kind) String() string {
	switch k {
	case Author:
		return "author"
	case Player:
		return "player"
	case AuthorChoice:
		return "author_choice"
	case PlayerChoice:
		return "player_choice"
	default:
		return "unknown"
	}
}

// Persistable reports whether entries of this kind may be stored in a
// history. Choice kinds are always resolved away first.
func (k Kind) Persistable() bool {
	return k == Author || k == Player
}

// Side is the edge of the conversation a speaker's avatar sits on.
func (k Kind) Side() string {
	if k == Player || k == PlayerChoice {
		return "right"
	}
	return "left"
}

func (v Variant) String() string {
	switch v {
	case Yes:
		return "Y"
	case No:
		return "N"
	default:
		return ""
	}
}

// TableFor returns the table message bodies of the given kind are bound to.
// Choice prompts are player lines, so PlayerChoice maps to the player table.
func TableFor(kind Kind) Table {
	if kind == Player || kind == PlayerChoice {
		return PlayerTable
	}
	return AuthorTable
}

// Key is a parsed dialogue key such as AM_1, PM_2_Y or PC_3.
type Key struct {
	Kind    Kind
	Target  string
	Variant Variant
}

func (k Key) IsZero() bool {
	return k.Kind == 0
}

func (k Key) String() string {
	if k.IsZero() {
		return ""
	}
	var b strings.Builder
	b.WriteString(k.Kind.Prefix())
	if k.Target != "" {
		b.WriteString(separator)
		b.WriteString(k.Target)
	}
	if k.Variant != None {
		b.WriteString(separator)
		b.WriteString(k.Variant.String())
	}
	return b.String()
}

// Parse reads a key string of the form PREFIX_target[_Y|_N]. Only message
// keys carry a variant; for choice keys the whole remainder is the target,
// so PC_3_Y offers PM_3_Y_Y and PM_3_Y_N.
func Parse(s string) (Key, error) {
	if s == "" {
		return Key{}, ErrEmpty
	}
	if len(s) < 2 {
		return Key{}, ErrTooShort
	}

	kind, ok := prefixes[s[:2]]
	if !ok {
		return Key{}, ErrUnknownPrefix
	}
	if len(s) == 2 {
		return Key{}, ErrMissingTarget
	}
	if s[2:3] != separator {
		return Key{}, ErrMissingSeparator
	}

	target := s[3:]
	if target == "" {
		return Key{}, ErrMissingTarget
	}
	if !kind.Persistable() {
		return Key{Kind: kind, Target: target}, nil
	}

	variant := None
	switch {
	case len(target) > 2 && strings.HasSuffix(target, "_Y"):
		variant = Yes
		target = target[:len(target)-2]
	case len(target) > 2 && strings.HasSuffix(target, "_N"):
		variant = No
		target = target[:len(target)-2]
	}

	return Key{Kind: kind, Target: target, Variant: variant}, nil
}

// MustParse is Parse for keys known to be valid, such as test fixtures.
func MustParse(s string) Key {
	k, err := Parse(s)
	if err != nil {
		panic("key: " + s + ": " + err.Error())
	}
	return k
}
