package knowledge

import "time"

type CreateRecordRequest struct {
	Topic      string   `json:"topic" validate:"required,min=1,max=100"`
	Question   string   `json:"question" validate:"required,min=1,max=500"`
	Keywords   []string `json:"keywords" validate:"required,min=1,dive,min=1"`
	Synonyms   []string `json:"synonyms" validate:"dive,min=1"`
	Answer     string   `json:"answer" validate:"required,min=1"`
	AnswerType string   `json:"answer_type" validate:"omitempty,oneof=short long"`
}

type RecordResponse struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	Question   string    `json:"question"`
	Keywords   []string  `json:"keywords"`
	Synonyms   []string  `json:"synonyms"`
	Answer     string    `json:"answer"`
	Summary    string    `json:"summary,omitempty"`
	AnswerType string    `json:"answer_type"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source"`
	VariantOf  string    `json:"variant_of,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type RecordListResponse struct {
	Records []RecordResponse `json:"records"`
	Total   int              `json:"total"`
}
