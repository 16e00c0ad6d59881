package present

import (
	"sync"

	"chatline/internal/config"
	"chatline/internal/key"
)

type EventType string

const (
	EventMessage  EventType = "message"
	EventPrompt   EventType = "prompt"
	EventAvatar   EventType = "avatar"
	EventLayout   EventType = "layout"
	EventReveal   EventType = "reveal"
	EventScroll   EventType = "scroll"
	EventClear    EventType = "clear_prompts"
	EventUnrender EventType = "unrender_all"
)

type Event struct {
	Type  EventType `json:"type"`
	Table string    `json:"table,omitempty"`
	Key   string    `json:"key,omitempty"`
	Kind  string    `json:"kind,omitempty"`
	Side  string    `json:"side,omitempty"`
	Text  string    `json:"text,omitempty"`
}

// Recorder collects rendering intents as events until they are drained.
// Tables is optional; without it every kind is renderable and events carry
// no text.
type Recorder struct {
	mu      sync.Mutex
	tables  *config.Tables
	events  []Event
	prompts []prompt
}

func NewRecorder(tables *config.Tables) *Recorder {
	return &Recorder{tables: tables}
}

func (r *Recorder) CanRender(kind key.Kind) bool {
	return r.tables == nil || r.tables.Has(kind)
}

func (r *Recorder) RenderMessage(table key.Table, k key.Key) {
	r.record(Event{Type: EventMessage, Table: string(table), Key: k.String(), Kind: k.Kind.String(), Side: k.Kind.Side(), Text: r.text(table, k)})
}

func (r *Recorder) RenderChoicePrompt(option key.Key, onSelected func()) {
	table := key.TableFor(option.Kind)
	r.mu.Lock()
	r.prompts = append(r.prompts, prompt{option: option, onSelected: onSelected})
	r.mu.Unlock()
	r.record(Event{Type: EventPrompt, Table: string(table), Key: option.String(), Kind: option.Kind.String(), Text: r.text(table, option)})
}

func (r *Recorder) RenderAvatar(kind key.Kind) {
	r.record(Event{Type: EventAvatar, Kind: kind.String(), Side: kind.Side()})
}

func (r *Recorder) RefreshLayout() { r.record(Event{Type: EventLayout}) }

func (r *Recorder) PlayRevealAnimation(k key.Key) {
	r.record(Event{Type: EventReveal, Key: k.String()})
}

func (r *Recorder) ScrollToBottom() { r.record(Event{Type: EventScroll}) }

func (r *Recorder) ClearChoicePrompts() {
	r.mu.Lock()
	r.prompts = nil
	r.mu.Unlock()
	r.record(Event{Type: EventClear})
}

func (r *Recorder) UnrenderAll() {
	r.mu.Lock()
	r.prompts = nil
	r.mu.Unlock()
	r.record(Event{Type: EventUnrender})
}

// Drain returns the events recorded since the last drain.
func (r *Recorder) Drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.events
	r.events = nil
	return events
}

// Select invokes the callback of the prompt carrying answer v.
func (r *Recorder) Select(v key.Variant) error {
	r.mu.Lock()
	var selected func()
	for _, p := range r.prompts {
		if p.option.Variant == v {
			selected = p.onSelected
			break
		}
	}
	r.mu.Unlock()

	if selected == nil {
		return ErrNoPrompt
	}
	selected()
	return nil
}

func (r *Recorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) text(table key.Table, k key.Key) string {
	if r.tables == nil {
		return ""
	}
	s, _ := r.tables.Lookup(table, k.String())
	return s
}
