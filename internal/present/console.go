// Package present holds the concrete presenters shipped with chatline: a
// terminal renderer for interactive play and a recorder that turns
// rendering intents into events for remote callers.
package present

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"chatline/internal/config"
	"chatline/internal/key"
)

var ErrNoPrompt = errors.New("no choice prompt for that answer")

const playerName = "You"

type prompt struct {
	option     key.Key
	onSelected func()
}

// Console writes the conversation as plain text. Author lines sit on the
// left under the sender's name, player lines are indented to the right.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	tables  *config.Tables
	sender  string
	reveal  time.Duration
	prompts []prompt
}

// NewConsole returns a presenter writing to w. reveal is the pause after a
// newly revealed line; zero disables it.
func NewConsole(w io.Writer, tables *config.Tables, sender string, reveal time.Duration) *Console {
	return &Console{w: w, tables: tables, sender: sender, reveal: reveal}
}

func (c *Console) CanRender(kind key.Kind) bool {
	return c.tables.Has(kind)
}

func (c *Console) RenderMessage(table key.Table, k key.Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s%s\n", indent(k.Kind.Side()), text(c.tables, table, k))
}

func (c *Console) RenderChoicePrompt(option key.Key, onSelected func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt{option: option, onSelected: onSelected})
	label := strings.ToLower(option.Variant.String())
	fmt.Fprintf(c.w, "%s[%s] %s\n", indent("right"), label, text(c.tables, key.TableFor(option.Kind), option))
}

func (c *Console) RenderAvatar(kind key.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := c.sender
	if kind.Side() == "right" {
		name = playerName
	}
	fmt.Fprintf(c.w, "\n%s%s:\n", indent(kind.Side()), name)
}

func (c *Console) RefreshLayout() {}

func (c *Console) PlayRevealAnimation(key.Key) {
	if c.reveal > 0 {
		time.Sleep(c.reveal)
	}
}

func (c *Console) ScrollToBottom() {}

func (c *Console) ClearChoicePrompts() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = nil
}

func (c *Console) UnrenderAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = nil
	fmt.Fprintln(c.w, "--- conversation cleared ---")
}

// Prompting reports whether choice prompts are on screen.
func (c *Console) Prompting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts) > 0
}

// Select invokes the callback of the prompt carrying answer v.
func (c *Console) Select(v key.Variant) error {
	c.mu.Lock()
	var selected func()
	for _, p := range c.prompts {
		if p.option.Variant == v {
			selected = p.onSelected
			break
		}
	}
	c.mu.Unlock()

	if selected == nil {
		return ErrNoPrompt
	}
	// The callback clears prompts, so it runs without the lock held.
	selected()
	return nil
}

func indent(side string) string {
	if side == "right" {
		return "                    "
	}
	return ""
}

// text resolves the localized line for k, falling back to the key itself.
func text(tables *config.Tables, table key.Table, k key.Key) string {
	if s, ok := tables.Lookup(table, k.String()); ok {
		return s
	}
	return k.String()
}
