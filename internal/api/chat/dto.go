package chat

import "time"

type AskRequest struct {
	Question   string `json:"question" validate:"required,min=1,max=500"`
	ForceShort bool   `json:"ask_forceshort"`
}

// A response whose answer field is empty means "no answer available"; the
// widget substitutes its fixed fallback text.
type AskResponse struct {
	Answer     string  `json:"answer,omitempty"`
	AnswerType string  `json:"answer_type,omitempty"`
	Source     string  `json:"source,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

type HistoryEntry struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
}
