package knowledgeRepository

import (
	"ServiceBot/internal/api/knowledge"
	"ServiceBot/internal/entity"
	contextPkg "ServiceBot/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type KnowledgeRecordDB struct {
	ID         sql.NullString  `db:"id"`
	Topic      sql.NullString  `db:"topic"`
	Question   sql.NullString  `db:"question"`
	Keywords   sql.NullString  `db:"keywords"`
	Synonyms   sql.NullString  `db:"synonyms"`
	Answer     sql.NullString  `db:"answer"`
	Summary    sql.NullString  `db:"summary"`
	AnswerType sql.NullString  `db:"answer_type"`
	Confidence sql.NullFloat64 `db:"confidence"`
	Source     sql.NullString  `db:"source"`
	VariantOf  sql.NullString  `db:"variant_of"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

func (r *recordsRepository) CreateRecord(ctx context.Context, record entity.KnowledgeRecord) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":          record.ID,
		"topic":       record.Topic,
		"question":    record.Question,
		"keywords":    record.Keywords,
		"synonyms":    record.Synonyms,
		"answer":      record.Answer,
		"summary":     record.Summary,
		"answer_type": record.AnswerType,
		"confidence":  record.Confidence,
		"source":      record.Source,
		"variant_of":  record.VariantOf,
		"created_at":  record.CreatedAt,
		"updated_at":  record.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateRecord, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateRecord")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating knowledge record")
		return err
	}

	return nil
}

func (r *recordsRepository) GetRecordByID(ctx context.Context, id string) (entity.KnowledgeRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var record KnowledgeRecordDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetRecordByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecordByID named query preparation err")
		return entity.KnowledgeRecord{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.KnowledgeRecord{}, knowledge.ErrRecordNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecordByID execution err")
		return entity.KnowledgeRecord{}, err
	}

	return r.makeRecord(record), nil
}

func (r *recordsRepository) GetRecordByQuestion(ctx context.Context, question string) (entity.KnowledgeRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var record KnowledgeRecordDB

	argsKV := map[string]interface{}{
		"question": question,
	}

	query, args, err := sqlx.Named(queryGetRecordByQuestion, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecordByQuestion named query preparation err")
		return entity.KnowledgeRecord{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.KnowledgeRecord{}, knowledge.ErrRecordNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecordByQuestion execution err")
		return entity.KnowledgeRecord{}, err
	}

	return r.makeRecord(record), nil
}

func (r *recordsRepository) GetAllRecords(ctx context.Context, limit, offset int) ([]entity.KnowledgeRecord, int, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var recordsList []KnowledgeRecordDB
	var total int

	countQuery, countArgs, err := sqlx.Named(queryCountAllRecords, map[string]interface{}{})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountAllRecords named query preparation err")
		return nil, 0, err
	}

	countQuery = r.q.Rebind(countQuery)

	if err := r.q.QueryRowxContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountAllRecords execution err")
		return nil, 0, err
	}

	argsKV := map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	}

	query, args, err := sqlx.Named(queryGetAllRecords, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAllRecords named query preparation err")
		return nil, 0, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &recordsList, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAllRecords execution err")
		return nil, 0, err
	}

	var records []entity.KnowledgeRecord
	for _, recordDB := range recordsList {
		records = append(records, r.makeRecord(recordDB))
	}

	return records, total, nil
}

func (r *recordsRepository) GetMatchableRecords(ctx context.Context) ([]entity.KnowledgeRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var recordsList []KnowledgeRecordDB

	query, args, err := sqlx.Named(queryGetMatchableRecords, map[string]interface{}{})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetMatchableRecords named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &recordsList, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetMatchableRecords execution err")
		return nil, err
	}

	var records []entity.KnowledgeRecord
	for _, recordDB := range recordsList {
		records = append(records, r.makeRecord(recordDB))
	}

	return records, nil
}

func (r *recordsRepository) DeleteRecord(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryDeleteRecord, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteRecord named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteRecord execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteRecord rows affected err")
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"id":         id,
		}).Warn("DeleteRecord no rows affected")
		return knowledge.ErrRecordNotFound
	}

	return nil
}

func (r *recordsRepository) ClearRecords(ctx context.Context) error {
	requestID := contextPkg.GetRequestID(ctx)

	query := r.q.Rebind(queryClearRecords)
	if _, err := r.q.ExecContext(ctx, query); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ClearRecords execution err")
		return err
	}

	return nil
}

func (r *recordsRepository) makeRecord(record KnowledgeRecordDB) entity.KnowledgeRecord {
	return entity.KnowledgeRecord{
		ID:         record.ID.String,
		Topic:      record.Topic.String,
		Question:   record.Question.String,
		Keywords:   record.Keywords.String,
		Synonyms:   record.Synonyms.String,
		Answer:     record.Answer.String,
		Summary:    record.Summary.String,
		AnswerType: record.AnswerType.String,
		Confidence: record.Confidence.Float64,
		Source:     record.Source.String,
		VariantOf:  record.VariantOf.String,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}
