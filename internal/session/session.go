// Package session keeps one dialogue engine per sender over a shared
// history store, so remote callers can drive several conversations at once.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"chatline/internal/config"
	"chatline/internal/engine"
	"chatline/internal/key"
	"chatline/internal/present"
	"chatline/internal/scripts"
)

var ErrUnknownSender = errors.New("unknown sender")

// State is a point-in-time view of one sender's playback.
type State struct {
	Sender    string   `json:"sender"`
	Cursor    int      `json:"cursor"`
	ScriptLen int      `json:"script_len"`
	Choosing  bool     `json:"choosing"`
	Pending   []string `json:"pending,omitempty"`
	History   []string `json:"history"`
}

// Result is what one control call did: the outcome, the rendering intents
// it produced and the state afterwards.
type Result struct {
	Outcome string          `json:"outcome,omitempty"`
	Events  []present.Event `json:"events"`
	State   State           `json:"state"`
}

type conversation struct {
	mu       sync.Mutex
	engine   *engine.Engine
	recorder *present.Recorder
}

type Manager struct {
	history engine.HistoryStore
	tables  *config.Tables
	log     zerolog.Logger

	mu            sync.Mutex
	scripts       map[string]scripts.Script
	senders       []string
	conversations map[string]*conversation
}

// NewManager builds a manager for the given scripts. Engines are created
// and restored from history on first use.
func NewManager(history engine.HistoryStore, set []scripts.Script, tables *config.Tables, logger zerolog.Logger) *Manager {
	m := &Manager{
		history:       history,
		tables:        tables,
		log:           logger,
		scripts:       make(map[string]scripts.Script, len(set)),
		conversations: make(map[string]*conversation),
	}
	for _, s := range set {
		m.scripts[strings.ToLower(s.Sender)] = s
		m.senders = append(m.senders, s.Sender)
	}
	return m
}

func (m *Manager) Senders() []string {
	return append([]string(nil), m.senders...)
}

func (m *Manager) Next(ctx context.Context, sender string) (*Result, error) {
	return m.do(ctx, sender, func(ctx context.Context, e *engine.Engine) (string, error) {
		return outcome(e.Next(ctx))
	})
}

func (m *Manager) PlayAll(ctx context.Context, sender string) (*Result, error) {
	return m.do(ctx, sender, func(ctx context.Context, e *engine.Engine) (string, error) {
		return outcome(e.PlayAll(ctx))
	})
}

func (m *Manager) ByIndex(ctx context.Context, sender string, index int) (*Result, error) {
	return m.do(ctx, sender, func(ctx context.Context, e *engine.Engine) (string, error) {
		return outcome(e.ByIndex(ctx, index))
	})
}

// Choose answers the pending choice and runs the deferred continuation
// before returning, so the result includes the chosen line.
func (m *Manager) Choose(ctx context.Context, sender string, answer key.Variant) (*Result, error) {
	return m.do(ctx, sender, func(ctx context.Context, e *engine.Engine) (string, error) {
		if err := e.Choose(answer); err != nil {
			return "", err
		}
		return "", e.Tick(ctx)
	})
}

func (m *Manager) Reset(ctx context.Context, sender string) (*Result, error) {
	return m.do(ctx, sender, func(ctx context.Context, e *engine.Engine) (string, error) {
		return "", e.Reset(ctx)
	})
}

// State reports the sender's playback without changing it. Events produced
// while restoring history are returned too.
func (m *Manager) State(ctx context.Context, sender string) (*Result, error) {
	return m.do(ctx, sender, nil)
}

type action func(ctx context.Context, e *engine.Engine) (string, error)

func outcome(o engine.Outcome, err error) (string, error) {
	return o.String(), err
}

func (m *Manager) do(ctx context.Context, sender string, act action) (*Result, error) {
	conv, err := m.open(ctx, sender)
	if err != nil {
		return nil, err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	result := &Result{}
	if act != nil {
		o, err := act(ctx, conv.engine)
		if err != nil {
			// Lines rendered before the failure stay queued and are
			// returned by the next call for this sender.
			return nil, err
		}
		result.Outcome = o
	}
	result.Events = conv.recorder.Drain()
	if result.Events == nil {
		result.Events = []present.Event{}
	}
	result.State = snapshot(conv.engine)
	return result, nil
}

func (m *Manager) open(ctx context.Context, sender string) (*conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := strings.ToLower(strings.TrimSpace(sender))
	if conv, ok := m.conversations[name]; ok {
		return conv, nil
	}
	script, ok := m.scripts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSender, sender)
	}

	rec := present.NewRecorder(m.tables)
	e, err := engine.New(script.Sender, script.Keys, engine.Options{
		Store:     m.history,
		Presenter: rec,
		Logger:    &m.log,
	})
	if err != nil {
		return nil, fmt.Errorf("create engine for %s: %w", script.Sender, err)
	}
	if err := e.LoadOnStartup(ctx); err != nil {
		return nil, err
	}

	conv := &conversation{engine: e, recorder: rec}
	m.conversations[name] = conv
	m.log.Debug().Str("sender", script.Sender).Int("cursor", e.Cursor()).Msg("conversation opened")
	return conv, nil
}

func snapshot(e *engine.Engine) State {
	s := State{
		Sender:    e.Sender(),
		Cursor:    e.Cursor(),
		ScriptLen: e.ScriptLen(),
		Choosing:  e.Choosing(),
		History:   make([]string, 0),
	}
	for _, k := range e.History() {
		s.History = append(s.History, k.String())
	}
	for _, k := range e.PendingChoices() {
		s.Pending = append(s.Pending, k.String())
	}
	return s
}
