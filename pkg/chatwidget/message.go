package chatwidget

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Fixed display strings. A placeholder always ends up as the answer text,
// the fallback, or the error string; never anything else.
const (
	PlaceholderText = "Thinking..."
	FallbackText    = "Sorry, I don't have an answer for that yet."
	ErrorText       = "Could not reach the server. Please try again."
)

type MessageID string

type Message struct {
	ID      MessageID `json:"id"`
	Sender  Sender    `json:"sender"`
	Text    string    `json:"text"`
	Pending bool      `json:"pending"`
}
