// Package assistant renders the dashboard assistant panel: a fixed
// transcript, suggested prompts and a typing indicator. Nothing typed into
// the panel leaves the process.
package assistant

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// TypingDuration is how long the typing indicator stays on after a send.
const TypingDuration = 2 * time.Second

// Timer is the handle returned by a scheduler.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Panel holds the interactive state of one assistant panel.
type Panel struct {
	mu         sync.Mutex
	input      string
	typing     bool
	generation uint64
	timer      Timer
	afterFunc  AfterFunc
}

// View is a point-in-time copy of a Panel for rendering.
type View struct {
	Messages []Message
	Prompts  []Prompt
	Insights []Insight
	Actions  []string
	Input    string
	Typing   bool
}

// NewPanel returns a panel with an empty input. A nil afterFunc uses real
// timers.
func NewPanel(afterFunc AfterFunc) *Panel {
	if afterFunc == nil {
		afterFunc = realAfterFunc
	}
	return &Panel{afterFunc: afterFunc}
}

// SetInput replaces the pending input text.
func (p *Panel) SetInput(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.input = text
}

// Send submits message. Blank messages are ignored and report false.
// Otherwise the input is cleared and the typing indicator runs for
// TypingDuration; the message itself is discarded.
func (p *Panel) Send(message string) bool {
	if strings.TrimSpace(message) == "" {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.input = ""
	p.typing = true
	p.generation++
	gen := p.generation
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = p.afterFunc(TypingDuration, func() { p.stopTyping(gen) })
	return true
}

func (p *Panel) stopTyping(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation != gen {
		return
	}
	p.typing = false
	p.timer = nil
}

// SelectPrompt copies the title of the prompt at index into the input
// without sending it.
func (p *Panel) SelectPrompt(index int) (Prompt, error) {
	if index < 0 || index >= len(prompts) {
		return Prompt{}, fmt.Errorf("prompt index %d out of range [0,%d)", index, len(prompts))
	}
	prompt := prompts[index]
	p.SetInput(prompt.Title)
	return prompt, nil
}

// Typing reports whether the indicator is on.
func (p *Panel) Typing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.typing
}

// Input returns the pending input text.
func (p *Panel) Input() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input
}

// Snapshot copies the panel for rendering.
func (p *Panel) Snapshot() View {
	p.mu.Lock()
	input, typing := p.input, p.typing
	p.mu.Unlock()
	return View{
		Messages: Transcript(),
		Prompts:  Prompts(),
		Insights: append([]Insight(nil), insights...),
		Actions:  append([]string(nil), recentActions...),
		Input:    input,
		Typing:   typing,
	}
}

// Close stops a pending typing timer.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.typing = false
}
