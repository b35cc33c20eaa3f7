package chat

import "ServiceBot/pkg/response"

var (
	ErrQuestionBlocked        = response.NewError(400, "blocked by moderation filter")
	ErrQuestionTooLong        = response.NewError(400, "question exceeds maximum length")
	ErrAnswerGenerationFailed = response.NewError(500, "failed to generate answer")
)
