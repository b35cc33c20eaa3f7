package chatwidget

import (
	"errors"
	"testing"
)

func TestTranscriptAppendKeepsOrder(t *testing.T) {
	tr := NewTranscript(nil)

	tr.Append(Message{ID: "1", Sender: SenderUser, Text: "hello"})
	tr.Append(Message{ID: "2", Sender: SenderBot, Text: PlaceholderText, Pending: true})

	msgs := tr.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Sender != SenderUser || msgs[1].Sender != SenderBot {
		t.Fatalf("unexpected sender order: %s then %s", msgs[0].Sender, msgs[1].Sender)
	}
}

func TestTranscriptResolveReplacesTextOnce(t *testing.T) {
	tr := NewTranscript(nil)
	tr.Append(Message{ID: "bot-1", Sender: SenderBot, Text: PlaceholderText, Pending: true})

	if err := tr.Resolve("bot-1", "final answer"); err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}

	msg, ok := tr.Get("bot-1")
	if !ok {
		t.Fatal("message disappeared after resolve")
	}
	if msg.Text != "final answer" || msg.Pending {
		t.Fatalf("resolve did not finalize message: %+v", msg)
	}
	if msg.Sender != SenderBot {
		t.Fatalf("resolve changed sender to %s", msg.Sender)
	}

	err := tr.Resolve("bot-1", "late duplicate")
	if !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}

	msg, _ = tr.Get("bot-1")
	if msg.Text != "final answer" {
		t.Fatalf("late resolve clobbered the answer: %q", msg.Text)
	}
}

func TestTranscriptResolveUnknownID(t *testing.T) {
	tr := NewTranscript(nil)

	if err := tr.Resolve("missing", "text"); !errors.Is(err, ErrUnknownMessage) {
		t.Fatalf("expected ErrUnknownMessage, got %v", err)
	}
}

func TestTranscriptOnChangeFires(t *testing.T) {
	var seen []Message
	tr := NewTranscript(func(msg Message) {
		seen = append(seen, msg)
	})

	tr.Append(Message{ID: "1", Sender: SenderBot, Text: PlaceholderText, Pending: true})
	if err := tr.Resolve("1", "done"); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("expected 2 change events, got %d", len(seen))
	}
	if seen[1].Text != "done" || seen[1].Pending {
		t.Fatalf("change event carries stale state: %+v", seen[1])
	}
}
