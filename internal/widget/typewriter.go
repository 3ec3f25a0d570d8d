// Package widget holds the hero section's animated widgets. Each widget
// instance owns its own state and at most one pending timer; Stop releases
// it.
package widget

import (
	"context"
	"sync"
	"time"
)

// TypewriterState is the phase of the rotator.
type TypewriterState int

const (
	Typing TypewriterState = iota
	PausedAtFull
	Deleting
	PausedAtEmpty
)

func (s TypewriterState) String() string {
	switch s {
	case Typing:
		return "typing"
	case PausedAtFull:
		return "paused-at-full"
	case Deleting:
		return "deleting"
	case PausedAtEmpty:
		return "paused-at-empty"
	default:
		return "unknown"
	}
}

// Timing holds the delay scheduled after each kind of step.
type Timing struct {
	Type   time.Duration
	Hold   time.Duration
	Delete time.Duration
	Pause  time.Duration
}

// DefaultTiming types at 150ms per character, holds a full word for 2s,
// deletes at 100ms per character and pauses 500ms on an empty line.
var DefaultTiming = Timing{
	Type:   150 * time.Millisecond,
	Hold:   2000 * time.Millisecond,
	Delete: 100 * time.Millisecond,
	Pause:  500 * time.Millisecond,
}

// Typewriter types each word, holds it, deletes it and moves on to the
// next, wrapping around the list.
type Typewriter struct {
	mu     sync.Mutex
	words  [][]rune
	timing Timing
	state  TypewriterState
	index  int
	length int

	cancel context.CancelFunc
	done   chan struct{}
}

func NewTypewriter(words []string, timing Timing) *Typewriter {
	t := &Typewriter{timing: timing}
	for _, w := range words {
		t.words = append(t.words, []rune(w))
	}
	return t
}

// Text is the currently visible text.
func (t *Typewriter) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text()
}

func (t *Typewriter) text() string {
	if len(t.words) == 0 {
		return ""
	}
	return string(t.words[t.index][:t.length])
}

func (t *Typewriter) State() TypewriterState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Index is the position of the current word.
func (t *Typewriter) Index() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index
}

// Step advances one tick and returns the delay before the next one. With
// no words it is a no-op and returns zero.
func (t *Typewriter) Step() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.words) == 0 {
		return 0
	}

	word := t.words[t.index]
	switch t.state {
	case Typing, PausedAtEmpty:
		if t.length < len(word) {
			t.length++
			t.state = Typing
			return t.timing.Type
		}
		t.state = PausedAtFull
		return t.timing.Hold

	default:
		if t.length > 0 {
			t.length--
			t.state = Deleting
			return t.timing.Delete
		}
		t.state = PausedAtEmpty
		t.index = (t.index + 1) % len(t.words)
		return t.timing.Pause
	}
}

// Start runs the rotator until ctx ends or Stop is called, calling emit
// with the visible text after every step. Starting a running rotator
// restarts it, so there is never more than one pending timer.
func (t *Typewriter) Start(ctx context.Context, emit func(text string)) {
	t.Stop()

	t.mu.Lock()
	if len(t.words) == 0 {
		t.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel, t.done = cancel, done
	first := t.timing.Type
	t.mu.Unlock()

	go func() {
		defer close(done)

		timer := time.NewTimer(first)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				next := t.Step()
				emit(t.Text())
				timer.Reset(next)
			}
		}
	}()
}

// Stop cancels the pending timer and waits for the loop to exit.
func (t *Typewriter) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
