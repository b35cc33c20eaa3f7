package chatHandler

import (
	"ServiceBot/internal/api/chat"
	contextPkg "ServiceBot/pkg/context"
	"ServiceBot/pkg/log"
	"time"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

type wsAskFrame struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

type wsReplyFrame struct {
	ID         string  `json:"id"`
	Answer     string  `json:"answer,omitempty"`
	Source     string  `json:"source,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// ChatSocket answers question frames over a websocket connection. Each frame
// runs through the same pipeline as POST /ask; the client-chosen id is echoed
// back so the widget can resolve the matching placeholder.
func (h *ChatHandler) ChatSocket(conn *websocket.Conn) {
	defer conn.Close()

	for {
		var frame wsAskFrame
		if err := conn.ReadJSON(&frame); err != nil {
			h.log.WithFields(log.Fields{
				"error": err.Error(),
			}).Debug("Websocket read ended")
			return
		}

		if frame.Question == "" {
			continue
		}

		c, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), frame.ID), 30*time.Second)
		response, err := h.chatService.Ask(c, chat.AskRequest{Question: frame.Question})
		cancel()

		reply := wsReplyFrame{ID: frame.ID}
		if err != nil {
			reply.Error = err.Error()
		} else {
			reply.Answer = response.Answer
			reply.Source = response.Source
			reply.Confidence = response.Confidence
		}

		if err := conn.WriteJSON(reply); err != nil {
			h.log.WithFields(log.Fields{
				"error": err.Error(),
			}).Warn("Websocket write failed")
			return
		}
	}
}
