// Package file keeps the shared history document as a single JSON file.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"chatline/internal/store"
)

// DefaultName is the file name used when a DSN names only a directory.
const DefaultName = "messages.json"

var _ store.Store = (*Store)(nil)

// Store rewrites the whole document on every change. The mutex serializes
// the read-modify-write so engines sharing one Store never lose each
// other's records.
type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history file path must be provided")
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultName)
	}
	return &Store{path: path}, nil
}

// Path is the location of the JSON document.
func (s *Store) Path() string { return s.path }

func (s *Store) Close(ctx context.Context) error { return nil }

func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return store.Wrap("creating history directory", err)
	}
	return nil
}

func (s *Store) Load(_ context.Context, sender string) ([]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, false, err
	}
	rec, ok := doc.Find(sender)
	if !ok {
		return nil, false, nil
	}
	return append([]string{}, rec.GeneratedKeys...), true, nil
}

func (s *Store) Save(_ context.Context, sender string, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Put(sender, keys)
	return s.write(doc)
}

func (s *Store) Delete(_ context.Context, sender string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Remove(sender)
	return s.write(doc)
}

func (s *Store) ListSenders(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return doc.Names(), nil
}

func (s *Store) read() (*store.Document, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &store.Document{}, nil
		}
		return nil, store.Wrap("opening history file", err)
	}
	defer f.Close()

	var doc store.Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &store.Document{}, nil
		}
		return nil, store.Wrap("decoding history file", err)
	}
	return &doc, nil
}

func (s *Store) write(doc *store.Document) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return store.Wrap("creating history directory", err)
	}

	tmp, err := os.CreateTemp(dir, "messages-*.json")
	if err != nil {
		return store.Wrap("creating temp history file", err)
	}

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return store.Wrap("encoding history", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return store.Wrap("closing temp history file", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return store.Wrap(fmt.Sprintf("persisting %s", s.path), err)
	}
	return nil
}
