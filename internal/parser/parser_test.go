package parser

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	t.Run("full script", func(t *testing.T) {
		content := []byte("---\nsender: Alice\nchapter: 1\nscript:\n  - AM_1\n  - PC_2\n  - AC_3\n---\n\nAlice opens with a greeting.\n")
		doc, err := Parse(content)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if doc.Sender != "Alice" {
			t.Fatalf("expected sender, got %q", doc.Sender)
		}
		if !reflect.DeepEqual(doc.Script, []string{"AM_1", "PC_2", "AC_3"}) {
			t.Fatalf("unexpected script: %#v", doc.Script)
		}
		if doc.Body == "" {
			t.Fatalf("expected body")
		}
		if _, ok := doc.Frontmatter["chapter"]; !ok {
			t.Fatalf("expected chapter in frontmatter")
		}
	})

	t.Run("inline script string", func(t *testing.T) {
		doc, err := Parse([]byte("---\nsender: Bob\nscript: AM_1 PM_2\n---\n"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !reflect.DeepEqual(doc.Script, []string{"AM_1", "PM_2"}) {
			t.Fatalf("unexpected script: %#v", doc.Script)
		}
		if doc.Body != "" {
			t.Fatalf("expected empty body, got %q", doc.Body)
		}
	})

	t.Run("windows line endings", func(t *testing.T) {
		doc, err := Parse([]byte("---\r\nsender: Bob\r\nscript: [AM_1]\r\n---\r\n"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(doc.Script) != 1 {
			t.Fatalf("unexpected script: %#v", doc.Script)
		}
	})

	t.Run("no frontmatter", func(t *testing.T) {
		_, err := Parse([]byte("Just text"))
		if !errors.Is(err, ErrNoFrontmatter) {
			t.Fatalf("expected ErrNoFrontmatter, got %v", err)
		}
	})

	t.Run("missing closing marker", func(t *testing.T) {
		_, err := Parse([]byte("---\nsender: Alice\n"))
		if !errors.Is(err, ErrNoFrontmatter) {
			t.Fatalf("expected ErrNoFrontmatter, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("---\nsender: [\n---\n"))
		if !errors.Is(err, ErrInvalidYAML) {
			t.Fatalf("expected ErrInvalidYAML, got %v", err)
		}
	})

	t.Run("missing sender", func(t *testing.T) {
		_, err := Parse([]byte("---\nscript: [AM_1]\n---\n"))
		if !errors.Is(err, ErrMissingSender) {
			t.Fatalf("expected ErrMissingSender, got %v", err)
		}
	})

	t.Run("missing script", func(t *testing.T) {
		_, err := Parse([]byte("---\nsender: Alice\n---\n"))
		if !errors.Is(err, ErrMissingScript) {
			t.Fatalf("expected ErrMissingScript, got %v", err)
		}
	})

	t.Run("non string entry", func(t *testing.T) {
		_, err := Parse([]byte("---\nsender: Alice\nscript:\n  - AM_1\n  - {a: b}\n---\n"))
		if err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alice.md")
	if err := os.WriteFile(path, []byte("---\nsender: Alice\nscript: [AM_1]\n---\n"), 0o600); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if doc.SourceFile != path {
		t.Fatalf("expected source file %q, got %q", path, doc.SourceFile)
	}
}
