package engine

import (
	"context"
	"fmt"

	"chatline/internal/key"
)

// LoadOnStartup restores the sender's history from the store and rebuilds
// it on the presenter without reveal animations. Afterwards the cursor sits
// at the end of the restored history, so a caller replaying the script from
// index zero skips what is already on screen.
func (e *Engine) LoadOnStartup(ctx context.Context) error {
	e.state.Reset()
	e.pending = nil

	if e.store == nil {
		return nil
	}
	raw, found, err := e.store.Load(ctx, e.sender)
	if err != nil {
		return fmt.Errorf("loading history for %s: %w", e.sender, err)
	}
	if !found {
		return nil
	}

	history := make([]key.Key, 0, len(raw))
	for _, s := range raw {
		k, err := key.Parse(s)
		if err != nil || !k.Kind.Persistable() {
			e.log.Warn().Str("key", s).Msg("dropping unusable stored key")
			continue
		}
		history = append(history, k)
	}
	e.state.Restore(history)

	var prev key.Kind
	for _, k := range history {
		if !e.canRender(k.Kind) {
			continue
		}
		if prev != k.Kind {
			e.presenter.RenderAvatar(k.Kind)
		}
		e.presenter.RenderMessage(key.TableFor(k.Kind), k)
		prev = k.Kind
	}
	e.presenter.RefreshLayout()
	e.presenter.ScrollToBottom()

	e.log.Info().Int("entries", len(history)).Msg("history restored")
	return nil
}

// Next requests the script entry under the cursor.
func (e *Engine) Next(ctx context.Context) (Outcome, error) {
	if e.state.Choosing() {
		return Blocked, nil
	}
	if e.state.Cursor() >= len(e.script) {
		return Exhausted, nil
	}
	return e.RequestMessage(ctx, e.script[e.state.Cursor()], false)
}

// ByIndex requests script entry i regardless of the cursor. The cursor is
// not guaranteed to equal i afterwards.
func (e *Engine) ByIndex(ctx context.Context, i int) (Outcome, error) {
	if i < 0 || i >= len(e.script) {
		e.log.Debug().Int("index", i).Int("script_len", len(e.script)).Msg("index out of range")
		return Ignored, nil
	}
	return e.RequestMessage(ctx, e.script[i], false)
}

// PlayAll advances until the script ends or a choice is offered. It also
// stops when a step makes no progress (an unresolved conditional, a
// duplicate or an unrenderable key), returning that step's outcome.
func (e *Engine) PlayAll(ctx context.Context) (Outcome, error) {
	if e.state.Choosing() {
		return Blocked, nil
	}
	outcome := Exhausted
	for e.state.Cursor() < len(e.script) && !e.state.Choosing() {
		before := e.state.Cursor()
		var err error
		outcome, err = e.Next(ctx)
		if err != nil {
			return outcome, err
		}
		if e.state.Cursor() == before && !e.state.Choosing() {
			e.log.Warn().Int("cursor", before).Stringer("outcome", outcome).Msg("playback stalled")
			return outcome, nil
		}
	}
	return outcome, nil
}

// Reset forgets all progress, clears the presenter and removes the sender's
// record from the store.
func (e *Engine) Reset(ctx context.Context) error {
	e.state.Reset()
	e.pending = nil
	e.presenter.UnrenderAll()

	if e.store == nil {
		return nil
	}
	if err := e.store.Delete(ctx, e.sender); err != nil {
		e.log.Error().Err(err).Msg("deleting history")
		return fmt.Errorf("deleting history for %s: %w", e.sender, err)
	}
	e.log.Info().Msg("history reset")
	return nil
}
