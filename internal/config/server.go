package config

import (
	"ServiceBot/database/postgres"
	chatHandler "ServiceBot/internal/api/chat/handler"
	chatRepository "ServiceBot/internal/api/chat/repository"
	chatService "ServiceBot/internal/api/chat/service"
	knowledgeHandler "ServiceBot/internal/api/knowledge/handler"
	knowledgeRepository "ServiceBot/internal/api/knowledge/repository"
	knowledgeService "ServiceBot/internal/api/knowledge/service"
	"ServiceBot/internal/middleware"
	"ServiceBot/pkg/gemini"
	"ServiceBot/pkg/groq"
	"ServiceBot/pkg/nlp"
	"ServiceBot/pkg/redis"
	"ServiceBot/pkg/utils"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine       *fiber.App
	db           *sqlx.DB
	log          *logrus.Logger
	middleware   middleware.Middleware
	validator    *validator.Validate
	utils        utils.IUtils
	handlers     []handler
	rootHandlers []handler
	redisServer  redis.IRedis
	matcher      nlp.IMatcher
	generator    chatService.AnswerGenerator
	chatSvc      chatService.IChatService
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithMatcher() ServerOption {
	return func(s *Server) error {
		s.matcher = nlp.NewMatcher(nil)
		return nil
	}
}

// WithAnswerGenerator selects the LLM backend from LLM_PROVIDER ("groq" or
// "gemini", default groq). A missing API key is not fatal; the chat service
// degrades to knowledge-store-only answers.
func WithAnswerGenerator() ServerOption {
	return func(s *Server) error {
		provider := os.Getenv("LLM_PROVIDER")
		if provider == "" {
			provider = "groq"
		}

		switch provider {
		case "gemini":
			client, err := gemini.NewGeminiClient()
			if err != nil {
				if s.log != nil {
					s.log.Warnf("Gemini client unavailable, answer generation disabled: %v", err)
				}
				return nil
			}
			s.generator = client
		case "groq":
			client, err := groq.New()
			if err != nil {
				if s.log != nil {
					s.log.Warnf("Groq client unavailable, answer generation disabled: %v", err)
				}
				return nil
			}
			s.generator = client
		default:
			return fmt.Errorf("unknown LLM provider %q", provider)
		}

		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Chat Domain
	chatRepo := chatRepository.New(s.db, s.log)
	knowledgeRepo := knowledgeRepository.New(s.db, s.log)
	chatServices := chatService.New(s.log, chatRepo, knowledgeRepo, s.redisServer, s.matcher, s.generator, s.utils)
	chatHandlers := chatHandler.New(s.log, s.validator, s.middleware, chatServices)

	// Knowledge Domain
	knowledgeServices := knowledgeService.New(s.log, knowledgeRepo, chatServices, s.utils)
	knowledgeHandlers := knowledgeHandler.New(s.log, s.validator, s.middleware, knowledgeServices)

	s.chatSvc = chatServices

	s.setupHealthCheck()
	s.handlers = append(s.handlers, knowledgeHandlers)
	s.rootHandlers = append(s.rootHandlers, chatHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	s.engine.Static("/", "./web/static")

	router := s.engine.Group("/api/v1")

	for _, h := range s.rootHandlers {
		h.Start(s.engine)
	}
	for _, h := range s.handlers {
		h.Start(router)
	}

	s.warmTopicMappings()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// warmTopicMappings loads the keyword matcher from the knowledge store at
// startup. Best effort: an empty or unreachable store just means every
// question falls through to the generator until the next refresh.
func (s *Server) warmTopicMappings() {
	if s.chatSvc == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.chatSvc.RefreshTopicMappings(ctx); err != nil {
		s.log.Warnf("Failed to warm topic mappings: %v", err)
	}
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
