package chatHandler

import (
	chatService "ServiceBot/internal/api/chat/service"
	"ServiceBot/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type ChatHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	chatService chatService.IChatService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs chatService.IChatService,
) *ChatHandler {
	return &ChatHandler{
		log:         log,
		validator:   validate,
		middleware:  middleware,
		chatService: cs,
	}
}

// The widget posts to /ask at the application root, so the chat routes are
// registered on the root router rather than the versioned API group.
func (h *ChatHandler) Start(srv fiber.Router) {
	srv.Post("/ask", h.middleware.NewRateLimiter, h.AskQuestion)
	srv.Get("/history", h.GetHistory)

	srv.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	srv.Get("/ws/chat", websocket.New(h.ChatSocket))
}
