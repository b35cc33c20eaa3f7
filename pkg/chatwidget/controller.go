package chatwidget

import (
	"crypto/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/net/context"
)

// Controller drives the chat exchange loop: optimistic user-message append,
// bot placeholder, one asynchronous ask, one resolution. It owns no UI; the
// transcript's onChange hook is where rendering happens.
type Controller struct {
	transcript *Transcript
	asker      Asker
	newID      func(time.Time) MessageID
	wg         sync.WaitGroup
}

func NewController(asker Asker, transcript *Transcript) *Controller {
	return &Controller{
		transcript: transcript,
		asker:      asker,
		newID:      newMessageID,
	}
}

// newMessageID builds a timestamp-plus-random-suffix identifier. Collisions
// within a session are possible in principle but would only misroute a text
// update, never lose data.
func newMessageID(t time.Time) MessageID {
	id, err := ulid.New(ulid.Timestamp(t), rand.Reader)
	if err != nil {
		return MessageID(strconv.FormatInt(t.UnixNano(), 10))
	}
	return MessageID(id.String())
}

// Submit starts one exchange. Empty or whitespace-only input is a silent
// no-op: nothing is appended and no request goes out. Otherwise the user
// message and the bot placeholder are appended synchronously, in that order,
// and the returned id names the placeholder that will be resolved.
//
// Concurrent submits are independent; each placeholder is resolved on its
// own, whichever reply arrives first. A pending ask cannot be cancelled by
// the user and no timeout is imposed here; it resolves or fails whenever the
// transport decides.
func (c *Controller) Submit(ctx context.Context, question string) (MessageID, bool) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", false
	}

	now := time.Now()
	c.transcript.Append(Message{
		ID:     c.newID(now),
		Sender: SenderUser,
		Text:   question,
	})

	botID := c.newID(now)
	c.transcript.Append(Message{
		ID:      botID,
		Sender:  SenderBot,
		Text:    PlaceholderText,
		Pending: true,
	})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.resolve(ctx, botID, question)
	}()

	return botID, true
}

// resolve performs the ask and applies exactly one of the three final
// outcomes to the placeholder.
func (c *Controller) resolve(ctx context.Context, id MessageID, question string) {
	answer, hasAnswer, err := c.asker.Ask(ctx, question)

	switch {
	case err != nil:
		c.transcript.Resolve(id, ErrorText)
	case !hasAnswer:
		c.transcript.Resolve(id, FallbackText)
	default:
		c.transcript.Resolve(id, answer)
	}
}

// Wait blocks until every in-flight exchange has resolved its placeholder.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) Transcript() *Transcript {
	return c.transcript
}
