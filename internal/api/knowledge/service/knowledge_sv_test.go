package knowledgeService

import (
	"ServiceBot/internal/api/knowledge"
	knowledgeRepository "ServiceBot/internal/api/knowledge/repository"
	"ServiceBot/internal/entity"
	"ServiceBot/pkg/utils"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

type fakeRecords struct {
	byQuestion map[string]entity.KnowledgeRecord
	byID       map[string]entity.KnowledgeRecord
	created    []entity.KnowledgeRecord
	deleted    []string
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{
		byQuestion: make(map[string]entity.KnowledgeRecord),
		byID:       make(map[string]entity.KnowledgeRecord),
	}
}

func (f *fakeRecords) CreateRecord(ctx context.Context, record entity.KnowledgeRecord) error {
	f.created = append(f.created, record)
	f.byQuestion[record.Question] = record
	f.byID[record.ID] = record
	return nil
}

func (f *fakeRecords) GetRecordByID(ctx context.Context, id string) (entity.KnowledgeRecord, error) {
	if record, ok := f.byID[id]; ok {
		return record, nil
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
	all := make([]entity.KnowledgeRecord, 0, len(f.byID))
	for _, record := range f.byID {
		all = append(all, record)
	}
	return all, len(all), nil
}

func (f *fakeRecords) GetMatchableRecords(ctx context.Context) ([]entity.KnowledgeRecord, error) {
	return nil, nil
}

func (f *fakeRecords) DeleteRecord(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.byID, id)
	return nil
}

func (f *fakeRecords) ClearRecords(ctx context.Context) error { return nil }

type fakeRepo struct {
	records *fakeRecords
	commits int
}

func (f *fakeRepo) NewClient(tx bool) (knowledgeRepository.Client, error) {
	return knowledgeRepository.Client{
		Records: f.records,
		Commit: func() error {
			f.commits++
			return nil
		},
		Rollback: func() error { return nil },
	}, nil
}

type fakeRefresher struct {
	calls int
}

func (f *fakeRefresher) RefreshTopicMappings(ctx context.Context) error {
	f.calls++
	return nil
}

func newService(records *fakeRecords, refresher *fakeRefresher) (IKnowledgeService, *fakeRepo) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := &fakeRepo{records: records}
	return New(logger, repo, refresher, utils.New()), repo
}

func TestCreateRecordNormalizesAndRefreshes(t *testing.T) {
	records := newFakeRecords()
	refresher := &fakeRefresher{}
	svc, repo := newService(records, refresher)

	resp, err := svc.CreateRecord(context.Background(), knowledge.CreateRecordRequest{
		Topic:    "exams",
		Question: "  When ARE the  semester exams ",
		Keywords: []string{"exam", "semester"},
		Answer:   "Last two weeks of the term.",
	})
	require.NoError(t, err)

	assert.Equal(t, "when are the semester exams", resp.Question)
	assert.Equal(t, "short", resp.AnswerType)
	assert.Equal(t, []string{"exam", "semester"}, resp.Keywords)
	assert.Equal(t, 1, repo.commits)
	assert.Equal(t, 1, refresher.calls)
}

func TestCreateRecordRejectsExactDuplicate(t *testing.T) {
	records := newFakeRecords()
	records.byQuestion["when are the exams"] = entity.KnowledgeRecord{
		ID:     "rec-1",
		Answer: "Last two weeks.",
	}
	svc, _ := newService(records, &fakeRefresher{})

	_, err := svc.CreateRecord(context.Background(), knowledge.CreateRecordRequest{
		Question: "When are the exams?",
		Keywords: []string{"exam"},
		Answer:   "Last two weeks.",
	})
	assert.NoError(t, err, "different normalized question should not collide")

	_, err = svc.CreateRecord(context.Background(), knowledge.CreateRecordRequest{
		Question: "when are the exams",
		Keywords: []string{"exam"},
		Answer:   "Last two weeks.",
	})
	assert.ErrorIs(t, err, knowledge.ErrRecordAlreadyExists)
}

func TestCreateRecordLinksVariantOnDifferentAnswer(t *testing.T) {
	records := newFakeRecords()
	records.byQuestion["when are the exams"] = entity.KnowledgeRecord{
		ID:     "rec-1",
		Answer: "Old answer.",
	}
	svc, _ := newService(records, &fakeRefresher{})

	resp, err := svc.CreateRecord(context.Background(), knowledge.CreateRecordRequest{
		Question: "when are the exams",
		Keywords: []string{"exam"},
		Answer:   "New answer.",
	})
	require.NoError(t, err)

	assert.Equal(t, "rec-1", resp.VariantOf)
}

func TestDeleteRecordRefreshesMappings(t *testing.T) {
	records := newFakeRecords()
	records.byID["rec-1"] = entity.KnowledgeRecord{ID: "rec-1"}
	refresher := &fakeRefresher{}
	svc, repo := newService(records, refresher)

	require.NoError(t, svc.DeleteRecord(context.Background(), "rec-1"))

	assert.Equal(t, []string{"rec-1"}, records.deleted)
	assert.Equal(t, 1, repo.commits)
	assert.Equal(t, 1, refresher.calls)
}

func TestGetRecordByIDNotFound(t *testing.T) {
	svc, _ := newService(newFakeRecords(), &fakeRefresher{})

	_, err := svc.GetRecordByID(context.Background(), "missing")
	assert.ErrorIs(t, err, knowledge.ErrRecordNotFound)
}
