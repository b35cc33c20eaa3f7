package knowledgeRepository

const (
	queryCreateRecord = `
		INSERT INTO knowledge_records (
			id,
			topic,
			question,
			keywords,
			synonyms,
			answer,
			summary,
			answer_type,
			confidence,
			source,
			variant_of,
			created_at,
			updated_at
		) VALUES (
			:id,
			:topic,
			:question,
			:keywords,
			:synonyms,
			:answer,
			:summary,
			:answer_type,
			:confidence,
			:source,
			:variant_of,
			:created_at,
			:updated_at
		)
	`

	queryGetRecordByID = `
		SELECT
			id,
			topic,
			question,
			keywords,
			synonyms,
			answer,
			summary,
			answer_type,
			confidence,
			source,
			variant_of,
			created_at,
			updated_at
		FROM knowledge_records
		WHERE id = :id
	`

	queryGetRecordByQuestion = `
		SELECT
			id,
			topic,
			question,
			keywords,
			synonyms,
			answer,
			summary,
			answer_type,
			confidence,
			source,
			variant_of,
			created_at,
			updated_at
		FROM knowledge_records
		WHERE question = :question
		ORDER BY created_at DESC
		LIMIT 1
	`

	queryGetAllRecords = `
		SELECT
			id,
			topic,
			question,
			keywords,
			synonyms,
			answer,
			summary,
			answer_type,
			confidence,
			source,
			variant_of,
			created_at,
			updated_at
		FROM knowledge_records
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountAllRecords = `
		SELECT COUNT(*)
		FROM knowledge_records
	`

	queryGetMatchableRecords = `
		SELECT
			id,
			topic,
			question,
			keywords,
			synonyms,
			answer,
			summary,
			answer_type,
			confidence,
			source,
			variant_of,
			created_at,
			updated_at
		FROM knowledge_records
		WHERE keywords <> ''
		ORDER BY created_at ASC
	`

	queryDeleteRecord = `
		DELETE FROM knowledge_records
		WHERE id = :id
	`

	queryClearRecords = `
		DELETE FROM knowledge_records
	`
)
