package chatwidget

import (
	"errors"
	"sync"
)

var (
	ErrUnknownMessage  = errors.New("unknown message id")
	ErrAlreadyResolved = errors.New("message already resolved")
)

// Transcript is the append-only message list behind the chat view. Messages
// are never removed; a pending message is resolved exactly once. All state is
// explicit here instead of living in ambient page globals.
type Transcript struct {
	mu       sync.Mutex
	messages []Message
	index    map[MessageID]int
	onChange func(Message)
}

// NewTranscript creates an empty transcript. onChange fires after every
// append and resolution; the web view uses it to re-render and scroll to the
// bottom. It may be nil.
func NewTranscript(onChange func(Message)) *Transcript {
	return &Transcript{
		index:    make(map[MessageID]int),
		onChange: onChange,
	}
}

func (t *Transcript) Append(msg Message) {
	t.mu.Lock()
	t.index[msg.ID] = len(t.messages)
	t.messages = append(t.messages, msg)
	t.mu.Unlock()

	if t.onChange != nil {
		t.onChange(msg)
	}
}

// Resolve replaces a pending message's text with its final content. The
// sender label is preserved. A second resolve of the same id is rejected so
// late or duplicate replies can never clobber a final answer.
func (t *Transcript) Resolve(id MessageID, text string) error {
	t.mu.Lock()

	i, ok := t.index[id]
	if !ok {
		t.mu.Unlock()
		return ErrUnknownMessage
	}
	if !t.messages[i].Pending {
		t.mu.Unlock()
		return ErrAlreadyResolved
	}

	t.messages[i].Text = text
	t.messages[i].Pending = false
	updated := t.messages[i]
	t.mu.Unlock()

	if t.onChange != nil {
		t.onChange(updated)
	}
	return nil
}

func (t *Transcript) Get(id MessageID) (Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, ok := t.index[id]
	if !ok {
		return Message{}, false
	}
	return t.messages[i], true
}

// Messages returns a snapshot in append order.
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}
