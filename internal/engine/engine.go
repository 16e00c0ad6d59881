// Package engine plays one sender's dialogue script: it decides which key
// to show next, resolves branches against earlier answers, persists what
// was shown and replays it on the next session.
//
// An Engine is not safe for concurrent use. Callers serialize access per
// sender; see package session.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"chatline/internal/key"
	"chatline/internal/sequence"
)

var ErrNoPendingChoice = errors.New("no pending choice with that answer")

// HistoryStore is the part of store.Store the engine needs.
type HistoryStore interface {
	Load(ctx context.Context, sender string) ([]string, bool, error)
	Save(ctx context.Context, sender string, keys []string) error
	Delete(ctx context.Context, sender string) error
}

type Options struct {
	// Store persists history. Nil keeps progress in memory only.
	Store     HistoryStore
	Presenter Presenter
	// Scheduler runs the continuation of a choice selection. Defaults to a
	// TickQueue driven by Engine.Tick.
	Scheduler Scheduler
	Logger    *zerolog.Logger
}

type Engine struct {
	sender    string
	script    []string
	state     *sequence.State
	pending   []key.Key
	store     HistoryStore
	presenter Presenter
	scheduler Scheduler
	log       zerolog.Logger
}

func New(sender string, script []string, opts Options) (*Engine, error) {
	if strings.TrimSpace(sender) == "" {
		return nil, fmt.Errorf("sender name is required")
	}

	e := &Engine{
		sender:    sender,
		script:    append([]string(nil), script...),
		state:     sequence.New(),
		store:     opts.Store,
		presenter: opts.Presenter,
		scheduler: opts.Scheduler,
		log:       zerolog.Nop(),
	}
	if e.presenter == nil {
		e.presenter = nopPresenter{}
	}
	if e.scheduler == nil {
		e.scheduler = NewTickQueue()
	}
	if opts.Logger != nil {
		e.log = opts.Logger.With().Str("sender", sender).Logger()
	}
	return e, nil
}

func (e *Engine) Sender() string { return e.sender }

func (e *Engine) Cursor() int { return e.state.Cursor() }

func (e *Engine) Choosing() bool { return e.state.Choosing() }

func (e *Engine) ScriptLen() int { return len(e.script) }

func (e *Engine) History() []key.Key { return e.state.History() }

// PendingChoices returns the options currently offered, Yes first.
func (e *Engine) PendingChoices() []key.Key {
	return append([]key.Key(nil), e.pending...)
}

// Tick advances the engine's scheduler when it is tick driven. Engines built
// with an external Scheduler are ticked by its owner instead.
func (e *Engine) Tick(ctx context.Context) error {
	if q, ok := e.scheduler.(interface{ Tick(context.Context) error }); ok {
		return q.Tick(ctx)
	}
	return nil
}

func (e *Engine) canRender(kind key.Kind) bool {
	if s, ok := e.presenter.(KindSupporter); ok {
		return s.CanRender(kind)
	}
	return true
}

func (e *Engine) persist(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.Save(ctx, e.sender, e.state.Strings()); err != nil {
		e.log.Error().Err(err).Msg("saving history")
		return fmt.Errorf("saving history for %s: %w", e.sender, err)
	}
	return nil
}

func (e *Engine) noop(raw string, outcome Outcome) (Outcome, error) {
	e.log.Debug().Str("key", raw).Stringer("outcome", outcome).Msg("request skipped")
	return outcome, nil
}
