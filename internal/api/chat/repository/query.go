package chatRepository

const (
	queryCreateChatLogEntry = `
		INSERT INTO chat_log (
			id,
			question,
			answer,
			source,
			created_at
		) VALUES (
			:id,
			:question,
			:answer,
			:source,
			:created_at
		)
	`

	queryGetChatLogEntries = `
		SELECT
			id,
			question,
			answer,
			source,
			created_at
		FROM chat_log
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountChatLogEntries = `
		SELECT COUNT(*)
		FROM chat_log
	`
)
