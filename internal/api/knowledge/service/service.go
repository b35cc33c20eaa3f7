package knowledgeService

import (
	"ServiceBot/internal/api/knowledge"
	knowledgeRepository "ServiceBot/internal/api/knowledge/repository"
	"ServiceBot/pkg/utils"
	"context"

	"github.com/sirupsen/logrus"
)

// TopicRefresher rebuilds whatever in-memory matching state depends on the
// knowledge store; the chat service implements it.
type TopicRefresher interface {
	RefreshTopicMappings(ctx context.Context) error
}

type IKnowledgeService interface {
	CreateRecord(ctx context.Context, req knowledge.CreateRecordRequest) (*knowledge.RecordResponse, error)
	GetRecordByID(ctx context.Context, id string) (*knowledge.RecordResponse, error)
	GetAllRecords(ctx context.Context, page, limit int) (*knowledge.RecordListResponse, error)
	DeleteRecord(ctx context.Context, id string) error
}

type knowledgeService struct {
	log           *logrus.Logger
	knowledgeRepo knowledgeRepository.Repository
	refresher     TopicRefresher
	utils         utils.IUtils
}

func New(
	log *logrus.Logger,
	knowledgeRepo knowledgeRepository.Repository,
	refresher TopicRefresher,
	utils utils.IUtils,
) IKnowledgeService {
	return &knowledgeService{
		log:           log,
		knowledgeRepo: knowledgeRepo,
		refresher:     refresher,
		utils:         utils,
	}
}
