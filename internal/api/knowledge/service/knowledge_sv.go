package knowledgeService

import (
	"ServiceBot/internal/api/knowledge"
	"ServiceBot/internal/entity"
	contextPkg "ServiceBot/pkg/context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *knowledgeService) CreateRecord(ctx context.Context, req knowledge.CreateRecordRequest) (*knowledge.RecordResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.knowledgeRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}
	defer repo.Rollback()

	questionNorm := s.utils.NormalizeQuestion(req.Question)

	existing, err := repo.Records.GetRecordByQuestion(ctx, questionNorm)
	if err == nil && existing.Answer == req.Answer {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"question":   questionNorm,
		}).Warn("Knowledge record already exists")
		return nil, knowledge.ErrRecordAlreadyExists
	}
	if err != nil && !errors.Is(err, knowledge.ErrRecordNotFound) {
		return nil, err
	}

	recordID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return nil, err
	}

	answerType := req.AnswerType
	if answerType == "" {
		answerType = "short"
	}

	now := time.Now()
	record := entity.KnowledgeRecord{
		ID:         recordID,
		Topic:      req.Topic,
		Question:   questionNorm,
		Keywords:   s.utils.JoinKeywords(req.Keywords),
		Synonyms:   s.utils.JoinKeywords(req.Synonyms),
		Answer:     req.Answer,
		AnswerType: answerType,
		Confidence: 1.0,
		Source:     "seed",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err == nil {
		record.VariantOf = existing.ID
	}

	if err := repo.Records.CreateRecord(ctx, record); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create knowledge record")
		return nil, knowledge.ErrCreateRecord
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return nil, knowledge.ErrCreateRecord
	}

	s.refreshMappings(ctx)

	response := s.makeResponse(record)
	return &response, nil
}

func (s *knowledgeService) GetRecordByID(ctx context.Context, id string) (*knowledge.RecordResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.knowledgeRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	record, err := repo.Records.GetRecordByID(ctx, id)
	if err != nil {
		if errors.Is(err, knowledge.ErrRecordNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
			}).Warn("Knowledge record not found")
		} else {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
				"error":      err.Error(),
			}).Error("Failed to get knowledge record")
		}
		return nil, err
	}

	response := s.makeResponse(record)
	return &response, nil
}

func (s *knowledgeService) GetAllRecords(ctx context.Context, page, limit int) (*knowledge.RecordListResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.knowledgeRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	offset := (page - 1) * limit

	records, total, err := repo.Records.GetAllRecords(ctx, limit, offset)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"page":       page,
			"limit":      limit,
			"error":      err.Error(),
		}).Error("Failed to get knowledge records")
		return nil, err
	}

	response := &knowledge.RecordListResponse{
		Records: make([]knowledge.RecordResponse, 0, len(records)),
		Total:   total,
	}

	for _, record := range records {
		response.Records = append(response.Records, s.makeResponse(record))
	}

	return response, nil
}

func (s *knowledgeService) DeleteRecord(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.knowledgeRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}
	defer repo.Rollback()

	if err := repo.Records.DeleteRecord(ctx, id); err != nil {
		return err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return err
	}

	s.refreshMappings(ctx)

	return nil
}

func (s *knowledgeService) refreshMappings(ctx context.Context) {
	if s.refresher == nil {
		return
	}
	if err := s.refresher.RefreshTopicMappings(ctx); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Failed to refresh topic mappings")
	}
}

func (s *knowledgeService) makeResponse(record entity.KnowledgeRecord) knowledge.RecordResponse {
	return knowledge.RecordResponse{
		ID:         record.ID,
		Topic:      record.Topic,
		Question:   record.Question,
		Keywords:   s.utils.SplitKeywords(record.Keywords),
		Synonyms:   s.utils.SplitKeywords(record.Synonyms),
		Answer:     record.Answer,
		Summary:    record.Summary,
		AnswerType: record.AnswerType,
		Confidence: record.Confidence,
		Source:     record.Source,
		VariantOf:  record.VariantOf,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}
