// Package transcript holds the append-only conversation shown to the user and
// the idle/submitting state machine that guards it.
package transcript

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one message in the transcript. It is never modified after creation.
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Transcript is an ordered, append-only list of turns.
// The zero value is empty and ready to use.
type Transcript struct {
	turns []Turn
}

func (t *Transcript) append(turn Turn) int {
	t.turns = append(t.turns, turn)
	return len(t.turns)
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Turns returns a copy of the turns in display order.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}
