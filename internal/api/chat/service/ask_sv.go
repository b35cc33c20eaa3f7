package chatService

import (
	"ServiceBot/internal/api/chat"
	"ServiceBot/internal/api/knowledge"
	"ServiceBot/internal/entity"
	contextPkg "ServiceBot/pkg/context"
	"ServiceBot/pkg/nlp"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// Below this confidence the intent matcher result is discarded and the
// question falls through to the LLM.
const matchConfidenceThreshold = 0.3

// Enforced here as well as in the DTO validation so transports without a
// validator (the websocket loop) reject overlong questions too.
const maxQuestionLength = 500

const (
	sourceCache  = "cache"
	sourceMemory = "memory"
	sourceIntent = "intent"
	sourceLLM    = "online+llm"
)

func (s *chatService) Ask(ctx context.Context, req chat.AskRequest) (*chat.AskResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	questionRaw := strings.TrimSpace(req.Question)
	questionNorm := s.utils.NormalizeQuestion(questionRaw)

	if utf8.RuneCountInString(questionRaw) > maxQuestionLength {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"length":     utf8.RuneCountInString(questionRaw),
		}).Warn("Question exceeds maximum length")
		return nil, chat.ErrQuestionTooLong
	}

	if word := s.moderationCheck(questionRaw); word != "" {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"word":       word,
		}).Warn("Question blocked by moderation filter")
		return nil, chat.ErrQuestionBlocked
	}

	// Answer cache first, keyed by the normalized question. Only the answer
	// text is cached, so the response carries no answer type.
	if cached, err := s.redisServer.GetAnswer(ctx, questionNorm); err == nil && cached != "" {
		s.logChatEntry(ctx, questionRaw, cached, sourceCache)
		return &chat.AskResponse{
			Answer:     cached,
			Source:     sourceCache,
			Confidence: 1.0,
		}, nil
	}

	repo, err := s.knowledgeRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	// Memory lookup: an exact normalized-question hit wins outright.
	existing, err := repo.Records.GetRecordByQuestion(ctx, questionNorm)
	if err == nil {
		s.cacheAnswer(ctx, questionNorm, existing.Answer)
		s.logChatEntry(ctx, questionRaw, existing.Answer, sourceMemory)

		return &chat.AskResponse{
			Answer:     existing.Answer,
			AnswerType: existing.AnswerType,
			Source:     sourceMemory,
			Confidence: existing.Confidence,
		}, nil
	}
	if !errors.Is(err, knowledge.ErrRecordNotFound) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Knowledge store lookup failed")
		return nil, err
	}

	// Keyword/intent matching against the seeded FAQ topics.
	result, err := s.matcher.MatchQuestion(questionRaw)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Intent matching failed")
		return nil, err
	}

	if result.Intent == "answer" && result.Confidence >= matchConfidenceThreshold {
		s.cacheAnswer(ctx, questionNorm, result.Answer)
		s.logChatEntry(ctx, questionRaw, result.Answer, sourceIntent)

		return &chat.AskResponse{
			Answer:     result.Answer,
			AnswerType: "short",
			Source:     sourceIntent,
			Confidence: result.Confidence,
		}, nil
	}

	return s.generateAndLearn(ctx, questionRaw, questionNorm, req.ForceShort)
}

// generateAndLearn is the miss path: ask the LLM, persist what it said as a
// new knowledge record, and reply. Without a configured generator the
// response simply carries no answer, which the widget shows as its fixed
// fallback text.
func (s *chatService) generateAndLearn(ctx context.Context, questionRaw, questionNorm string, forceShort bool) (*chat.AskResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.generator == nil {
		s.logChatEntry(ctx, questionRaw, "", "none")
		return &chat.AskResponse{Source: "none"}, nil
	}

	answerType, confidence, err := s.generator.ClassifyAnswerType(ctx, questionRaw)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Answer type classification failed, defaulting to short")
		answerType, confidence = "short", 0.8
	}
	if forceShort {
		answerType = "short"
	}

	answer, err := s.generator.GenerateAnswer(ctx, questionRaw, "", answerType)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Answer generation failed")
		s.logChatEntry(ctx, questionRaw, "", "none")
		return &chat.AskResponse{Source: "none"}, nil
	}

	summary := answer
	if answerType == "long" {
		if sum, err := s.generator.SummarizeAnswer(ctx, answer); err == nil {
			summary = sum
		}
	}

	s.saveMemory(ctx, questionRaw, questionNorm, answer, summary, answerType, confidence)
	s.cacheAnswer(ctx, questionNorm, answer)
	s.logChatEntry(ctx, questionRaw, answer, sourceLLM)

	return &chat.AskResponse{
		Answer:     answer,
		AnswerType: answerType,
		Source:     sourceLLM,
		Confidence: confidence,
	}, nil
}

// saveMemory persists a generated answer. When the question already exists
// with a different answer, the new record links back via variant_of instead
// of replacing it.
func (s *chatService) saveMemory(ctx context.Context, questionRaw, questionNorm, answer, summary, answerType string, confidence float64) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.knowledgeRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to create repository client for saveMemory")
		return
	}
	defer repo.Rollback()

	variantOf := ""
	existing, err := repo.Records.GetRecordByQuestion(ctx, questionNorm)
	if err == nil {
		if existing.Answer == answer {
			return
		}
		variantOf = existing.ID
	} else if !errors.Is(err, knowledge.ErrRecordNotFound) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("saveMemory lookup failed")
		return
	}

	recordID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to generate ULID for knowledge record")
		return
	}

	now := time.Now()
	record := entity.KnowledgeRecord{
		ID:         recordID,
		Question:   questionNorm,
		Answer:     answer,
		Summary:    summary,
		AnswerType: answerType,
		Confidence: confidence,
		Source:     sourceLLM,
		VariantOf:  variantOf,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := repo.Records.CreateRecord(ctx, record); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to save learned knowledge record")
		return
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to commit learned knowledge record")
	}
}

func (s *chatService) cacheAnswer(ctx context.Context, questionNorm, answer string) {
	if answer == "" {
		return
	}
	if err := s.redisServer.SetAnswer(ctx, questionNorm, answer, s.cacheTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Failed to cache answer")
	}
}

// logChatEntry is best effort; a chat log failure never fails the request.
func (s *chatService) logChatEntry(ctx context.Context, question, answer, source string) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.chatRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to create chat log client")
		return
	}

	entryID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to generate ULID for chat log entry")
		return
	}

	entry := entity.ChatLogEntry{
		ID:        entryID,
		Question:  question,
		Answer:    answer,
		Source:    source,
		CreatedAt: time.Now(),
	}

	if err := repo.ChatLog.CreateEntry(ctx, entry); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to write chat log entry")
	}
}

func (s *chatService) GetHistory(ctx context.Context, page, limit int) (*chat.HistoryResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.chatRepo.NewClient(false)
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

	entries, total, err := repo.ChatLog.GetEntries(ctx, limit, offset)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"page":       page,
			"limit":      limit,
			"error":      err.Error(),
		}).Error("Failed to get chat history")
		return nil, err
	}

	response := &chat.HistoryResponse{
		Entries: make([]chat.HistoryEntry, 0, len(entries)),
		Total:   total,
		Page:    page,
		Limit:   limit,
	}

	for _, entry := range entries {
		response.Entries = append(response.Entries, chat.HistoryEntry{
			ID:        entry.ID,
			Question:  entry.Question,
			Answer:    entry.Answer,
			Source:    entry.Source,
			CreatedAt: entry.CreatedAt,
		})
	}

	return response, nil
}

// RefreshTopicMappings rebuilds the in-memory intent matcher from the
// knowledge store. Called at startup and whenever records change.
func (s *chatService) RefreshTopicMappings(ctx context.Context) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.knowledgeRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	records, err := repo.Records.GetMatchableRecords(ctx)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to load matchable records")
		return err
	}

	mappings := make(map[string]nlp.TopicMapping, len(records))
	for _, record := range records {
		topic := record.Topic
		if topic == "" {
			topic = record.ID
		}

		mappings[topic] = nlp.TopicMapping{
			Topic:    topic,
			Keywords: s.utils.SplitKeywords(record.Keywords),
			Synonyms: s.utils.SplitKeywords(record.Synonyms),
			Subject:  record.Topic,
			Answer:   record.Answer,
		}
	}

	s.matcher.SetTopicMappings(mappings)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"topics":     len(mappings),
	}).Info("Topic mappings refreshed")

	return nil
}
