package validate

import (
	"context"
	"fmt"
	"strings"

	"chatline/internal/config"
	"chatline/internal/key"
	"chatline/internal/scripts"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeInvalidKey        = "invalid_key"
	codeMissingTable      = "missing_table"
	codeMissingText       = "missing_text"
	codeDuplicateKey      = "duplicate_key"
	codeUnresolvable      = "unresolvable_conditional"
	codeChoiceSuffix      = "choice_suffix_in_target"
	codeStaleHistory      = "stale_history"
	codeHistoryPastScript = "history_past_script"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Sender   string
	Key      string
	Index    int
	FilePath string
}

type Report struct {
	Issues []Issue
}

// HistoryReader is the read side of the history store. Validation of stored
// progress is skipped when it is nil.
type HistoryReader interface {
	Load(ctx context.Context, sender string) ([]string, bool, error)
}

func Run(ctx context.Context, set []scripts.Script, tables *config.Tables, history HistoryReader) (*Report, error) {
	if tables == nil {
		return nil, fmt.Errorf("tables are required")
	}

	issues := make([]Issue, 0)
	for _, script := range set {
		issues = append(issues, validateScript(script, tables)...)

		if history == nil {
			continue
		}
		stored, found, err := history.Load(ctx, script.Sender)
		if err != nil {
			return nil, fmt.Errorf("load history for %s: %w", script.Sender, err)
		}
		if found {
			issues = append(issues, validateHistory(script, stored)...)
		}
	}

	return &Report{Issues: issues}, nil
}

func validateScript(script scripts.Script, tables *config.Tables) []Issue {
	var issues []Issue
	issue := func(severity Severity, code string, index int, raw, message string) {
		issues = append(issues, Issue{
			Severity: severity,
			Code:     code,
			Message:  message,
			Sender:   script.Sender,
			Key:      raw,
			Index:    index,
			FilePath: script.SourceFile,
		})
	}

	seen := make(map[string]int)
	missingTable := make(map[key.Table]bool)
	answered := false

	for i, raw := range script.Keys {
		k, err := key.Parse(raw)
		if err != nil {
			issue(SeverityError, codeInvalidKey, i, raw, err.Error())
			continue
		}

		if !tables.Has(k.Kind) {
			table := key.TableFor(k.Kind)
			if !missingTable[table] {
				missingTable[table] = true
				issue(SeverityError, codeMissingTable, i, raw, fmt.Sprintf("no %s configured, playback will stall here", table))
			}
		}

		if !k.Kind.Persistable() && (strings.HasSuffix(k.Target, "_Y") || strings.HasSuffix(k.Target, "_N")) {
			issue(SeverityWarn, codeChoiceSuffix, i, raw, fmt.Sprintf("the suffix is part of the target, this entry resolves to keys like %s", textKeys(k)[0]))
		}

		switch k.Kind {
		case key.PlayerChoice:
			answered = true
		case key.AuthorChoice:
			if !answered {
				issue(SeverityWarn, codeUnresolvable, i, raw, "no player answer precedes this conditional")
			}
		case key.Player:
			answered = k.Variant != key.None
		}

		for _, text := range textKeys(k) {
			if !tables.Has(text.Kind) {
				continue
			}
			if _, ok := tables.Lookup(key.TableFor(text.Kind), text.String()); !ok {
				issue(SeverityWarn, codeMissingText, i, raw, fmt.Sprintf("no text for %s", text))
			}
		}

		if k.Kind.Persistable() {
			if first, ok := seen[k.String()]; ok {
				issue(SeverityWarn, codeDuplicateKey, i, raw, fmt.Sprintf("already used at index %d, the repeat will never be shown", first))
				continue
			}
			seen[k.String()] = i
		}
	}

	return issues
}

// textKeys lists the keys whose text a script entry can display.
func textKeys(k key.Key) []key.Key {
	switch k.Kind {
	case key.PlayerChoice, key.AuthorChoice:
		kind := key.Player
		if k.Kind == key.AuthorChoice {
			kind = key.Author
		}
		return []key.Key{
			{Kind: kind, Target: k.Target, Variant: key.Yes},
			{Kind: kind, Target: k.Target, Variant: key.No},
		}
	default:
		return []key.Key{k}
	}
}

// validateHistory flags stored keys the current script can no longer
// produce, which usually means the script was edited after play began.
func validateHistory(script scripts.Script, stored []string) []Issue {
	reachable := make(map[string]struct{})
	for _, raw := range script.Keys {
		k, err := key.Parse(raw)
		if err != nil {
			continue
		}
		for _, text := range textKeys(k) {
			reachable[text.String()] = struct{}{}
		}
	}

	var issues []Issue
	for i, raw := range stored {
		if _, ok := reachable[raw]; ok {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeStaleHistory,
			Message:  "stored key is not produced by the current script",
			Sender:   script.Sender,
			Key:      raw,
			Index:    i,
			FilePath: script.SourceFile,
		})
	}
	if len(stored) > len(script.Keys) {
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeHistoryPastScript,
			Message:  fmt.Sprintf("stored history has %d entries but the script only %d", len(stored), len(script.Keys)),
			Sender:   script.Sender,
			Index:    len(script.Keys),
			FilePath: script.SourceFile,
		})
	}
	return issues
}
