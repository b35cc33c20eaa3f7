package knowledgeHandler

import (
	knowledgeService "ServiceBot/internal/api/knowledge/service"
	"ServiceBot/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type KnowledgeHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	knowledgeService knowledgeService.IKnowledgeService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ks knowledgeService.IKnowledgeService,
) *KnowledgeHandler {
	return &KnowledgeHandler{
		log:              log,
		validator:        validate,
		middleware:       middleware,
		knowledgeService: ks,
	}
}

func (h *KnowledgeHandler) Start(srv fiber.Router) {
	records := srv.Group("/knowledge")

	records.Get("/records", h.GetAllRecords)
	records.Get("/records/:id", h.GetRecordByID)
	records.Post("/records", h.CreateRecord)
	records.Delete("/records/:id", h.DeleteRecord)
}
