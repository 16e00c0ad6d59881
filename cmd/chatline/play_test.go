package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chatline/internal/config"
	"chatline/internal/engine"
	"chatline/internal/parser"
	"chatline/internal/present"
	"chatline/internal/store/file"
)

func newPlayEngine(t *testing.T, out *bytes.Buffer, path string) (*engine.Engine, *present.Console) {
	t.Helper()
	st, err := file.New(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	tables := &config.Tables{
		Author: map[string]string{"AM_1": "Coffee?", "AM_3_Y": "Ten it is", "AM_3_N": "Another time"},
		Player: map[string]string{"PM_2_Y": "Sure", "PM_2_N": "Busy"},
	}
	console := present.NewConsole(out, tables, "Alice", 0)
	eng, err := engine.New("Alice", []string{"AM_1", "PC_2", "AC_3"}, engine.Options{Store: st, Presenter: console})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := eng.LoadOnStartup(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return eng, console
}

func TestREPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")

	var out bytes.Buffer
	eng, console := newPlayEngine(t, &out, path)
	in := strings.NewReader("a\nn\nno\nn\nn\nbogus\nq\n")
	if err := repl(context.Background(), in, &out, eng, console); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	text := out.String()
	for _, want := range []string{"Coffee?", "[y] Sure", "[n] Busy", "(waiting for an answer: y or no)", "Another time", "(end of script)", "unknown command"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}

	var got []string
	for _, k := range eng.History() {
		got = append(got, k.String())
	}
	if diff := cmp.Diff([]string{"AM_1", "PM_2_N", "AM_3_N"}, got); diff != "" {
		t.Fatalf("unexpected history (-want +got):\n%s", diff)
	}

	var resumed bytes.Buffer
	again, _ := newPlayEngine(t, &resumed, path)
	if again.Cursor() != 3 || !strings.Contains(resumed.String(), "Another time") {
		t.Fatalf("expected resumed conversation, cursor %d:\n%s", again.Cursor(), resumed.String())
	}
}

func TestPlayActions(t *testing.T) {
	var out bytes.Buffer
	eng, console := newPlayEngine(t, &out, filepath.Join(t.TempDir(), "messages.json"))

	err := playActions(context.Background(), &out, eng, console, playOptions{index: -1, all: true, choose: "y"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if eng.Cursor() != 2 || eng.Choosing() {
		t.Fatalf("unexpected state: cursor %d choosing %v", eng.Cursor(), eng.Choosing())
	}

	err = playActions(context.Background(), &out, eng, console, playOptions{index: -1, choose: "n"})
	if err == nil {
		t.Fatalf("expected error without a pending choice")
	}
	if _, err := parseAnswer("maybe"); err == nil {
		t.Fatalf("expected error for invalid answer")
	}
}

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	if err := runInit("demo", dir); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cfg, err := config.LoadProjectConfig(filepath.Join(dir, "chatline.yaml"))
	if err != nil {
		t.Fatalf("expected scaffolded config to load, got %v", err)
	}
	if cfg.Project != "demo" {
		t.Fatalf("expected project demo, got %q", cfg.Project)
	}

	doc, err := parser.ParseFile(filepath.Join(dir, "scripts", "alice.md"))
	if err != nil {
		t.Fatalf("expected scaffolded script to parse, got %v", err)
	}
	if diff := cmp.Diff([]string{"AM_1", "PC_2", "AC_3"}, doc.Script); diff != "" {
		t.Fatalf("unexpected script (-want +got):\n%s", diff)
	}

	if err := runInit("demo", dir); err == nil {
		t.Fatalf("expected error when config already exists")
	}
}
