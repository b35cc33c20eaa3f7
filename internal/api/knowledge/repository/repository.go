package knowledgeRepository

import (
	"ServiceBot/internal/entity"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Records:  &recordsRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Records interface {
		CreateRecord(ctx context.Context, record entity.KnowledgeRecord) error
		GetRecordByID(ctx context.Context, id string) (entity.KnowledgeRecord, error)
		GetRecordByQuestion(ctx context.Context, question string) (entity.KnowledgeRecord, error)
		GetAllRecords(ctx context.Context, limit, offset int) ([]entity.KnowledgeRecord, int, error)
		GetMatchableRecords(ctx context.Context) ([]entity.KnowledgeRecord, error)
		DeleteRecord(ctx context.Context, id string) error
		ClearRecords(ctx context.Context) error
	}

	Commit   func() error
	Rollback func() error
}

type recordsRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
