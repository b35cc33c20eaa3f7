package chatRepository

import (
	"ServiceBot/internal/entity"
	contextPkg "ServiceBot/pkg/context"
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ChatLogEntryDB struct {
	ID        sql.NullString `db:"id"`
	Question  sql.NullString `db:"question"`
	Answer    sql.NullString `db:"answer"`
	Source    sql.NullString `db:"source"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r *chatLogRepository) CreateEntry(ctx context.Context, entry entity.ChatLogEntry) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":         entry.ID,
		"question":   entry.Question,
		"answer":     entry.Answer,
		"source":     entry.Source,
		"created_at": entry.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateChatLogEntry, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateEntry")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating chat log entry")
		return err
	}

	return nil
}

func (r *chatLogRepository) GetEntries(ctx context.Context, limit, offset int) ([]entity.ChatLogEntry, int, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var entriesList []ChatLogEntryDB
	var total int

	countQuery, countArgs, err := sqlx.Named(queryCountChatLogEntries, map[string]interface{}{})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountChatLogEntries named query preparation err")
		return nil, 0, err
	}

	countQuery = r.q.Rebind(countQuery)

	if err := r.q.QueryRowxContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountChatLogEntries execution err")
		return nil, 0, err
	}

	argsKV := map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	}

	query, args, err := sqlx.Named(queryGetChatLogEntries, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetChatLogEntries named query preparation err")
		return nil, 0, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &entriesList, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetChatLogEntries execution err")
		return nil, 0, err
	}

	var entries []entity.ChatLogEntry
	for _, entryDB := range entriesList {
		entries = append(entries, r.makeEntry(entryDB))
	}

	return entries, total, nil
}

func (r *chatLogRepository) makeEntry(entry ChatLogEntryDB) entity.ChatLogEntry {
	return entity.ChatLogEntry{
		ID:        entry.ID.String,
		Question:  entry.Question.String,
		Answer:    entry.Answer.String,
		Source:    entry.Source.String,
		CreatedAt: entry.CreatedAt,
	}
}
