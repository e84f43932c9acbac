package transcript

import (
	"errors"
	"sync"
)

// State is the submission status of a View.
type State int

const (
	StateIdle State = iota
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

var (
	ErrEmptyPrompt   = errors.New("transcript: empty prompt")
	ErrBusy          = errors.New("transcript: submission in progress")
	ErrNotSubmitting = errors.New("transcript: no submission in progress")
)

// AppendFunc is called after a turn is appended. index is the turn's position.
type AppendFunc func(index int, turn Turn)

// View owns a Transcript and the submission state machine:
//
//	idle --Begin(prompt)--> submitting   appends the user turn
//	submitting --Complete--> idle        appends the assistant turn
//	submitting --Fail------> idle        appends nothing
//
// All methods are safe for concurrent use.
type View struct {
	mu         sync.Mutex
	transcript Transcript
	state      State
	hooks      []AppendFunc
}

// NewView returns an idle view with an empty transcript.
func NewView() *View {
	return &View{}
}

// OnAppend registers fn to run after every append, outside the view's lock.
func (v *View) OnAppend(fn AppendFunc) {
	if fn == nil {
		return
	}
	v.mu.Lock()
	v.hooks = append(v.hooks, fn)
	v.mu.Unlock()
}

// Begin records the user's prompt and moves to submitting.
func (v *View) Begin(prompt string) (Turn, error) {
	if prompt == "" {
		return Turn{}, ErrEmptyPrompt
	}

	v.mu.Lock()
	if v.state == StateSubmitting {
		v.mu.Unlock()
		return Turn{}, ErrBusy
	}
	turn := Turn{Speaker: SpeakerUser, Text: prompt}
	idx := v.transcript.append(turn) - 1
	v.state = StateSubmitting
	hooks := v.hooks
	v.mu.Unlock()

	notify(hooks, idx, turn)
	return turn, nil
}

// Complete records the assistant reply and returns to idle.
func (v *View) Complete(text string) (Turn, error) {
	v.mu.Lock()
	if v.state != StateSubmitting {
		v.mu.Unlock()
		return Turn{}, ErrNotSubmitting
	}
	turn := Turn{Speaker: SpeakerAssistant, Text: text}
	idx := v.transcript.append(turn) - 1
	v.state = StateIdle
	hooks := v.hooks
	v.mu.Unlock()

	notify(hooks, idx, turn)
	return turn, nil
}

// Fail abandons the outstanding submission and returns to idle.
// The user's turn stays in the transcript.
func (v *View) Fail() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateSubmitting {
		return ErrNotSubmitting
	}
	v.state = StateIdle
	return nil
}

// State returns the current submission state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Pending reports whether a round trip is outstanding.
func (v *View) Pending() bool {
	return v.State() == StateSubmitting
}

// Len returns the number of turns.
func (v *View) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.transcript.Len()
}

// Turns returns a copy of the transcript.
func (v *View) Turns() []Turn {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.transcript.Turns()
}

func notify(hooks []AppendFunc, idx int, turn Turn) {
	for _, fn := range hooks {
		fn(idx, turn)
	}
}
