package engine

import "chatline/internal/key"

// Presenter consumes the engine's rendering intents. Calls are
// fire-and-forget; the engine never inspects what a presenter did.
type Presenter interface {
	RenderMessage(table key.Table, k key.Key)
	RenderChoicePrompt(option key.Key, onSelected func())
	RenderAvatar(kind key.Kind)
	RefreshLayout()
	PlayRevealAnimation(k key.Key)
	ScrollToBottom()
	ClearChoicePrompts()
	UnrenderAll()
}

// KindSupporter is implemented by presenters that may lack the rendering
// configuration for a kind. A resolved key of an unsupported kind is not
// emitted and does not count as progress.
type KindSupporter interface {
	CanRender(kind key.Kind) bool
}

type nopPresenter struct{}

func (nopPresenter) RenderMessage(key.Table, key.Key) {}
func (nopPresenter) RenderChoicePrompt(key.Key, func()) {}
func (nopPresenter) RenderAvatar(key.Kind) {}
func (nopPresenter) RefreshLayout() {}
func (nopPresenter) PlayRevealAnimation(key.Key) {}
func (nopPresenter) ScrollToBottom() {}
func (nopPresenter) ClearChoicePrompts() {}
func (nopPresenter) UnrenderAll() {}
