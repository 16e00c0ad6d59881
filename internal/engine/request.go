package engine

import (
	"context"

	"chatline/internal/branch"
	"chatline/internal/key"
)

// RequestMessage is the single transition every control goes through.
// Unforced requests respect the choice block, resume-skip and duplicate
// suppression, and advance the cursor and persist when they emit. Forced
// requests bypass all three and only touch history.
func (e *Engine) RequestMessage(ctx context.Context, raw string, forced bool) (Outcome, error) {
	k, err := key.Parse(raw)
	if err != nil {
		e.log.Debug().Err(err).Str("key", raw).Msg("invalid key")
		return Ignored, nil
	}

	if !forced && e.state.Choosing() {
		return e.noop(raw, Blocked)
	}

	// Entries restored at startup are walked again from the top of the
	// script; skip them until the cursor catches up with history.
	if !forced && e.state.Cursor() < e.state.Len() {
		e.state.AdvanceCursor()
		return e.noop(raw, Skipped)
	}

	if !forced && e.state.Contains(k) {
		return e.noop(raw, Duplicate)
	}

	switch k.Kind {
	case key.PlayerChoice:
		e.spawnChoice(k.Target)
		return Spawned, nil
	case key.AuthorChoice:
		resolved, ok := branch.ResolveAuthorConditional(e.state.History(), k.Target)
		if !ok {
			return e.noop(raw, Unresolved)
		}
		k = resolved
	}

	return e.emit(ctx, k, forced)
}

func (e *Engine) emit(ctx context.Context, k key.Key, forced bool) (Outcome, error) {
	if last, ok := e.state.Last(); !ok || last.Kind != k.Kind {
		e.presenter.RenderAvatar(k.Kind)
	}

	if !e.canRender(k.Kind) {
		e.log.Warn().Str("key", k.String()).Stringer("kind", k.Kind).Msg("no rendering configuration, playback not advanced")
		return Unrenderable, nil
	}

	e.presenter.RenderMessage(key.TableFor(k.Kind), k)
	e.presenter.RefreshLayout()
	e.presenter.PlayRevealAnimation(k)
	e.presenter.ScrollToBottom()

	e.state.Append(k)
	e.log.Debug().Str("key", k.String()).Bool("forced", forced).Msg("emitted")
	if forced {
		return Emitted, nil
	}

	e.state.AdvanceCursor()
	return Emitted, e.persist(ctx)
}

func (e *Engine) spawnChoice(target string) {
	pair := branch.ExpandPlayerChoice(target)
	e.pending = e.pending[:0]
	for _, option := range pair {
		e.presenter.RenderChoicePrompt(option, func() { e.SelectChoice(option) })
		e.pending = append(e.pending, option)
	}
	e.presenter.RefreshLayout()
	e.presenter.ScrollToBottom()
	e.state.SetChoosing(true)
	e.log.Debug().Str("target", target).Msg("choice offered")
}

// SelectChoice answers an outstanding choice. Prompts are torn down now and
// the chosen key is requested on the next scheduler tick, once teardown has
// finished.
func (e *Engine) SelectChoice(option key.Key) {
	e.presenter.ClearChoicePrompts()
	e.pending = nil
	e.state.SetChoosing(false)

	e.scheduler.Defer(func(ctx context.Context) error {
		_, err := e.RequestMessage(ctx, option.String(), false)
		e.presenter.RefreshLayout()
		return err
	})
}

// Choose selects the pending option carrying the given answer.
func (e *Engine) Choose(v key.Variant) error {
	for _, option := range e.pending {
		if option.Variant == v {
			e.SelectChoice(option)
			return nil
		}
	}
	return ErrNoPendingChoice
}
