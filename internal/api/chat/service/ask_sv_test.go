package chatService

import (
	"ServiceBot/internal/api/chat"
	chatRepository "ServiceBot/internal/api/chat/repository"
	"ServiceBot/internal/api/knowledge"
	knowledgeRepository "ServiceBot/internal/api/knowledge/repository"
	"ServiceBot/internal/entity"
	"ServiceBot/pkg/nlp"
	redisPkg "ServiceBot/pkg/redis"
	"ServiceBot/pkg/utils"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

type fakeRedis struct {
	store map[string]string
	sets  int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{store: make(map[string]string)}
}

func (f *fakeRedis) SetAnswer(ctx context.Context, question, answer string, expiration time.Duration) error {
	f.store[question] = answer
	f.sets++
	return nil
}

func (f *fakeRedis) GetAnswer(ctx context.Context, question string) (string, error) {
	if answer, ok := f.store[question]; ok {
		return answer, nil
	}
	return "", redisPkg.ErrCacheMiss
}

func (f *fakeRedis) DeleteAnswer(ctx context.Context, question string) error {
	delete(f.store, question)
	return nil
}

type fakeRecords struct {
	byQuestion map[string]entity.KnowledgeRecord
	matchable  []entity.KnowledgeRecord
	created    []entity.KnowledgeRecord
}

func (f *fakeRecords) CreateRecord(ctx context.Context, record entity.KnowledgeRecord) error {
	f.created = append(f.created, record)
	if f.byQuestion == nil {
		f.byQuestion = make(map[string]entity.KnowledgeRecord)
	}
	f.byQuestion[record.Question] = record
	return nil
}

func (f *fakeRecords) GetRecordByID(ctx context.Context, id string) (entity.KnowledgeRecord, error) {
	for _, record := range f.byQuestion {
		if record.ID == id {
			return record, nil
		}
	}
	return entity.KnowledgeRecord{}, knowledge.ErrRecordNotFound
}

func (f *fakeRecords) GetRecordByQuestion(ctx context.Context, question string) (entity.KnowledgeRecord, error) {
	if record, ok := f.byQuestion[question]; ok {
		return record, nil
	}
	return entity.KnowledgeRecord{}, knowledge.ErrRecordNotFound
}

func (f *fakeRecords) GetAllRecords(ctx context.Context, limit, offset int) ([]entity.KnowledgeRecord, int, error) {
	return nil, 0, nil
}

func (f *fakeRecords) GetMatchableRecords(ctx context.Context) ([]entity.KnowledgeRecord, error) {
	return f.matchable, nil
}

func (f *fakeRecords) DeleteRecord(ctx context.Context, id string) error { return nil }

func (f *fakeRecords) ClearRecords(ctx context.Context) error { return nil }

type fakeKnowledgeRepo struct {
	records *fakeRecords
}

func (f *fakeKnowledgeRepo) NewClient(tx bool) (knowledgeRepository.Client, error) {
	return knowledgeRepository.Client{
		Records:  f.records,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

type fakeChatLog struct {
	entries []entity.ChatLogEntry
}

func (f *fakeChatLog) CreateEntry(ctx context.Context, entry entity.ChatLogEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeChatLog) GetEntries(ctx context.Context, limit, offset int) ([]entity.ChatLogEntry, int, error) {
	total := len(f.entries)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return f.entries[offset:end], total, nil
}

type fakeChatRepo struct {
	chatLog *fakeChatLog
}

func (f *fakeChatRepo) NewClient(tx bool) (chatRepository.Client, error) {
	return chatRepository.Client{
		ChatLog:  f.chatLog,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

type fakeGenerator struct {
	answer      string
	answerType  string
	generateErr error
	calls       int
}

func (f *fakeGenerator) ClassifyAnswerType(ctx context.Context, question string) (string, float64, error) {
	if f.answerType == "" {
		return "short", 0.8, nil
	}
	return f.answerType, 0.9, nil
}

func (f *fakeGenerator) GenerateAnswer(ctx context.Context, question, answerContext, answerType string) (string, error) {
	f.calls++
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return f.answer, nil
}

func (f *fakeGenerator) SummarizeAnswer(ctx context.Context, answer string) (string, error) {
	return "summary of: " + answer, nil
}

type serviceFixture struct {
	service   IChatService
	redis     *fakeRedis
	records   *fakeRecords
	chatLog   *fakeChatLog
	matcher   nlp.IMatcher
	generator *fakeGenerator
}

func newFixture(generator *fakeGenerator) *serviceFixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	redis := newFakeRedis()
	records := &fakeRecords{byQuestion: make(map[string]entity.KnowledgeRecord)}
	chatLog := &fakeChatLog{}
	matcher := nlp.NewMatcher(nil)

	var gen AnswerGenerator
	if generator != nil {
		gen = generator
	}

	service := New(
		logger,
		&fakeChatRepo{chatLog: chatLog},
		&fakeKnowledgeRepo{records: records},
		redis,
		matcher,
		gen,
		utils.New(),
	)

	return &serviceFixture{
		service:   service,
		redis:     redis,
		records:   records,
		chatLog:   chatLog,
		matcher:   matcher,
		generator: generator,
	}
}

func TestAskBlocksBannedWords(t *testing.T) {
	f := newFixture(nil)

	_, err := f.service.Ask(context.Background(), chat.AskRequest{Question: "how to attack a server"})
	require.ErrorIs(t, err, chat.ErrQuestionBlocked)

	assert.Empty(t, f.chatLog.entries, "blocked questions must not reach the chat log")
}

func TestAskReturnsCachedAnswer(t *testing.T) {
	f := newFixture(nil)
	f.redis.store["when is the exam"] = "Next Friday."

	resp, err := f.service.Ask(context.Background(), chat.AskRequest{Question: "  When is  THE exam "})
	require.NoError(t, err)

	assert.Equal(t, "Next Friday.", resp.Answer)
	assert.Equal(t, "cache", resp.Source)
	assert.Empty(t, resp.AnswerType, "the cache stores no answer type")
}

func TestAskRejectsOverlongQuestion(t *testing.T) {
	f := newFixture(nil)

	long := strings.Repeat("a", 501)
	_, err := f.service.Ask(context.Background(), chat.AskRequest{Question: long})
	require.ErrorIs(t, err, chat.ErrQuestionTooLong)

	assert.Empty(t, f.chatLog.entries, "rejected questions must not reach the chat log")
}

func TestAskReturnsMemoryHit(t *testing.T) {
	f := newFixture(nil)

	// Normalization lowercases and collapses whitespace but keeps
	// punctuation, so the stored key carries the question mark.
	f.records.byQuestion["what is normalization?"] = entity.KnowledgeRecord{
		ID:         "rec-1",
		Question:   "what is normalization?",
		Answer:     "It reduces redundancy.",
		AnswerType: "short",
		Confidence: 0.9,
	}

	resp, err := f.service.Ask(context.Background(), chat.AskRequest{Question: "What is  Normalization?"})
	require.NoError(t, err)

	assert.Equal(t, "It reduces redundancy.", resp.Answer)
	assert.Equal(t, "memory", resp.Source)
	assert.Equal(t, "It reduces redundancy.", f.redis.store["what is normalization?"], "memory hits populate the cache")
}

func TestAskMatchesIntent(t *testing.T) {
	f := newFixture(nil)
	f.matcher.SetTopicMappings(map[string]nlp.TopicMapping{
		"exam_dates": {
			Topic:    "exam_dates",
			Keywords: []string{"exam", "semester", "schedule"},
			Answer:   "Semester exams run in the last two weeks of the term.",
		},
	})

	resp, err := f.service.Ask(context.Background(), chat.AskRequest{Question: "when is the semester exam schedule"})
	require.NoError(t, err)

	assert.Equal(t, "intent", resp.Source)
	assert.Equal(t, "Semester exams run in the last two weeks of the term.", resp.Answer)
}

func TestAskWithoutGeneratorReturnsNoAnswer(t *testing.T) {
	f := newFixture(nil)

	resp, err := f.service.Ask(context.Background(), chat.AskRequest{Question: "something nobody knows"})
	require.NoError(t, err)

	assert.Empty(t, resp.Answer)
	assert.Equal(t, "none", resp.Source)

	require.Len(t, f.chatLog.entries, 1)
	assert.Equal(t, "none", f.chatLog.entries[0].Source)
}

func TestAskGeneratesAndLearns(t *testing.T) {
	gen := &fakeGenerator{answer: "A mutex serializes access to shared state."}
	f := newFixture(gen)

	resp, err := f.service.Ask(context.Background(), chat.AskRequest{Question: "What is a mutex?"})
	require.NoError(t, err)

	assert.Equal(t, "online+llm", resp.Source)
	assert.Equal(t, gen.answer, resp.Answer)

	require.Len(t, f.records.created, 1)
	saved := f.records.created[0]
	assert.Equal(t, "what is a mutex?", saved.Question)
	assert.Equal(t, gen.answer, saved.Answer)
	assert.Equal(t, "online+llm", saved.Source)
	assert.Empty(t, saved.VariantOf)

	assert.Equal(t, gen.answer, f.redis.store["what is a mutex?"])
}

func TestAskSkipsSaveWhenAnswerUnchanged(t *testing.T) {
	gen := &fakeGenerator{answer: "same answer"}
	f := newFixture(gen)

	first, err := f.service.Ask(context.Background(), chat.AskRequest{Question: "repeatable question"})
	require.NoError(t, err)
	assert.Equal(t, "online+llm", first.Source)
	require.Len(t, f.records.created, 1)

	// Drop the cache so the second ask reaches the memory lookup.
	require.NoError(t, f.redis.DeleteAnswer(context.Background(), "repeatable question"))

	second, err := f.service.Ask(context.Background(), chat.AskRequest{Question: "repeatable question"})
	require.NoError(t, err)
	assert.Equal(t, "memory", second.Source)
	assert.Len(t, f.records.created, 1, "an unchanged answer must not create a duplicate record")
}

func TestAskGeneratorFailureDegradesGracefully(t *testing.T) {
	gen := &fakeGenerator{generateErr: errors.New("rate limited")}
	f := newFixture(gen)

	resp, err := f.service.Ask(context.Background(), chat.AskRequest{Question: "anything"})
	require.NoError(t, err)

	assert.Empty(t, resp.Answer)
	assert.Equal(t, "none", resp.Source)
	assert.Empty(t, f.records.created)
}

func TestAskForceShortOverridesClassification(t *testing.T) {
	gen := &fakeGenerator{answer: "short form", answerType: "long"}
	f := newFixture(gen)

	resp, err := f.service.Ask(context.Background(), chat.AskRequest{Question: "explain paging", ForceShort: true})
	require.NoError(t, err)

	assert.Equal(t, "short", resp.AnswerType)
}

func TestGetHistoryPaginates(t *testing.T) {
	f := newFixture(nil)
	for i := 0; i < 5; i++ {
		f.chatLog.entries = append(f.chatLog.entries, entity.ChatLogEntry{
			ID:       string(rune('a' + i)),
			Question: "q",
			Answer:   "a",
			Source:   "memory",
		})
	}

	resp, err := f.service.GetHistory(context.Background(), 2, 2)
	require.NoError(t, err)

	assert.Equal(t, 5, resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Len(t, resp.Entries, 2)
}

func TestRefreshTopicMappingsFeedsMatcher(t *testing.T) {
	f := newFixture(nil)
	f.records.matchable = []entity.KnowledgeRecord{
		{
			ID:       "rec-1",
			Topic:    "exams",
			Question: "when are the semester exams",
			Keywords: "exam,semester,schedule",
			Synonyms: "examination",
			Answer:   "Last two weeks of the term.",
		},
	}

	require.NoError(t, f.service.RefreshTopicMappings(context.Background()))

	resp, err := f.service.Ask(context.Background(), chat.AskRequest{Question: "semester exam schedule please"})
	require.NoError(t, err)
	assert.Equal(t, "intent", resp.Source)
	assert.Equal(t, "Last two weeks of the term.", resp.Answer)
}
