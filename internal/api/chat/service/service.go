package chatService

import (
	"ServiceBot/internal/api/chat"
	chatRepository "ServiceBot/internal/api/chat/repository"
	knowledgeRepository "ServiceBot/internal/api/knowledge/repository"
	"ServiceBot/pkg/nlp"
	redisPkg "ServiceBot/pkg/redis"
	"ServiceBot/pkg/utils"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// AnswerGenerator is the LLM fallback for questions the knowledge store
// cannot answer. Both pkg/groq and pkg/gemini satisfy it.
type AnswerGenerator interface {
	ClassifyAnswerType(ctx context.Context, question string) (string, float64, error)
	GenerateAnswer(ctx context.Context, question string, answerContext string, answerType string) (string, error)
	SummarizeAnswer(ctx context.Context, answer string) (string, error)
}

type IChatService interface {
	Ask(ctx context.Context, req chat.AskRequest) (*chat.AskResponse, error)
	GetHistory(ctx context.Context, page, limit int) (*chat.HistoryResponse, error)
	RefreshTopicMappings(ctx context.Context) error
}

type chatService struct {
	log           *logrus.Logger
	chatRepo      chatRepository.Repository
	knowledgeRepo knowledgeRepository.Repository
	redisServer   redisPkg.IRedis
	matcher       nlp.IMatcher
	generator     AnswerGenerator
	utils         utils.IUtils
	cacheTTL      time.Duration
}

func New(
	log *logrus.Logger,
	chatRepo chatRepository.Repository,
	knowledgeRepo knowledgeRepository.Repository,
	redisServer redisPkg.IRedis,
	matcher nlp.IMatcher,
	generator AnswerGenerator,
	utils utils.IUtils,
) IChatService {
	return &chatService{
		log:           log,
		chatRepo:      chatRepo,
		knowledgeRepo: knowledgeRepo,
		redisServer:   redisServer,
		matcher:       matcher,
		generator:     generator,
		utils:         utils,
		cacheTTL:      15 * time.Minute,
	}
}
