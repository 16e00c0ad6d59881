package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is one script file: frontmatter naming the sender and its
// ordered keys, followed by free-form notes.
type Document struct {
	Frontmatter map[string]any
	Sender      string
	Script      []string
	Body        string
	SourceFile  string
}

var (
	ErrNoFrontmatter = errors.New("no frontmatter found")
	ErrInvalidYAML   = errors.New("invalid YAML in frontmatter")
	ErrMissingSender = errors.New("frontmatter missing required 'sender' field")
	ErrMissingScript = errors.New("frontmatter missing required 'script' field")
)

const marker = "---\n"

func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	doc.SourceFile = path
	return doc, nil
}

func Parse(content []byte) (*Document, error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	trimmed := bytes.TrimLeft(content, "\ufeff\n\t ")
	if !bytes.HasPrefix(trimmed, []byte(marker)) {
		return nil, ErrNoFrontmatter
	}

	rest := trimmed[len(marker):]
	end := bytes.Index(rest, []byte(marker))
	if end == -1 {
		return nil, ErrNoFrontmatter
	}

	var frontmatter map[string]any
	if err := yaml.Unmarshal(rest[:end], &frontmatter); err != nil {
		return nil, ErrInvalidYAML
	}

	sender, ok := frontmatter["sender"].(string)
	if !ok || strings.TrimSpace(sender) == "" {
		return nil, ErrMissingSender
	}

	raw, ok := frontmatter["script"]
	if !ok {
		return nil, ErrMissingScript
	}
	script, err := parseScript(raw)
	if err != nil {
		return nil, err
	}

	return &Document{
		Frontmatter: frontmatter,
		Sender:      strings.TrimSpace(sender),
		Script:      script,
		Body:        string(rest[end+len(marker):]),
	}, nil
}

// parseScript accepts a YAML list of keys or a single whitespace separated
// string. Keys are kept verbatim; checking them is the validator's job.
func parseScript(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return []string{}, nil
	case string:
		return strings.Fields(v), nil
	case []any:
		script := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("script entry %d must be a string", i)
			}
			script = append(script, strings.TrimSpace(s))
		}
		return script, nil
	default:
		return nil, fmt.Errorf("script must be a list of keys")
	}
}
