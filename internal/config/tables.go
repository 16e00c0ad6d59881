package config

import (
	"fmt"

	"chatline/internal/key"
)

// Tables holds the localized text for each message table. A table left out
// of the config means its kind has no rendering configuration.
type Tables struct {
	Author map[string]string `yaml:"author"`
	Player map[string]string `yaml:"player"`
}

// Has reports whether the table used by kind is configured.
func (t *Tables) Has(kind key.Kind) bool {
	if t == nil {
		return false
	}
	switch key.TableFor(kind) {
	case key.AuthorTable:
		return t.Author != nil
	case key.PlayerTable:
		return t.Player != nil
	}
	return false
}

func (t *Tables) Lookup(table key.Table, k string) (string, bool) {
	if t == nil {
		return "", false
	}
	var entries map[string]string
	switch table {
	case key.AuthorTable:
		entries = t.Author
	case key.PlayerTable:
		entries = t.Player
	}
	text, ok := entries[k]
	return text, ok
}

func validateTables(t *Tables) error {
	check := func(name string, entries map[string]string, want key.Kind) error {
		for raw := range entries {
			k, err := key.Parse(raw)
			if err != nil {
				return fmt.Errorf("%s table key %q: %w", name, raw, err)
			}
			if k.Kind != want {
				return fmt.Errorf("%s table key %q must use the %s prefix", name, raw, want.Prefix())
			}
		}
		return nil
	}
	if err := check("author", t.Author, key.Author); err != nil {
		return err
	}
	return check("player", t.Player, key.Player)
}
