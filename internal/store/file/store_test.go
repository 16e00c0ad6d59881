package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chatline/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data", DefaultName))
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema failed: %v", err)
	}
	return s
}

func TestStoreSaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, found, err := s.Load(ctx, "A"); err != nil || found {
		t.Fatalf("expected no record before save, found=%v err=%v", found, err)
	}

	if err := s.Save(ctx, "A", []string{"AM_1", "PM_2_Y"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Save(ctx, "B", []string{"AM_9"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	keys, found, err := s.Load(ctx, "A")
	if err != nil || !found {
		t.Fatalf("expected record for A, found=%v err=%v", found, err)
	}
	if diff := cmp.Diff([]string{"AM_1", "PM_2_Y"}, keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	senders, err := s.ListSenders(ctx)
	if err != nil {
		t.Fatalf("list senders failed: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B"}, senders); diff != "" {
		t.Fatalf("senders mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreDeleteKeepsOtherSenders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "A", []string{"AM_1"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Save(ctx, "B", []string{"AM_2", "PM_3_N"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Delete(ctx, "A"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, found, _ := s.Load(ctx, "A"); found {
		t.Fatalf("expected A to be removed")
	}
	keys, found, err := s.Load(ctx, "B")
	if err != nil || !found {
		t.Fatalf("expected B to survive, found=%v err=%v", found, err)
	}
	if diff := cmp.Diff([]string{"AM_2", "PM_3_N"}, keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreDocumentLayout(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(context.Background(), "Alice", []string{"AM_1"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("reading document: %v", err)
	}
	var raw map[string][]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decoding document: %v", err)
	}
	senders := raw["allSenders"]
	if len(senders) != 1 || senders[0]["senderName"] != "Alice" {
		t.Fatalf("unexpected document layout: %s", data)
	}
}

func TestStoreConcurrentSaves(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	senders := []string{"A", "B", "C", "D", "E", "F"}

	var wg sync.WaitGroup
	for _, name := range senders {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if err := s.Save(ctx, name, []string{"AM_" + name}); err != nil {
				t.Errorf("save %s failed: %v", name, err)
			}
		}(name)
	}
	wg.Wait()

	got, err := s.ListSenders(ctx)
	if err != nil {
		t.Fatalf("list senders failed: %v", err)
	}
	if len(got) != len(senders) {
		t.Fatalf("expected %d senders, got %v", len(senders), got)
	}
}

func TestStoreCorruptDocument(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}
	_, _, err := s.Load(context.Background(), "A")
	if !errors.Is(err, store.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestNewUsesDefaultNameForDirectory(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if s.Path() != filepath.Join(dir, DefaultName) {
		t.Fatalf("unexpected path %q", s.Path())
	}
	if _, err := New("  "); err == nil {
		t.Fatalf("expected error for blank path")
	}
}
