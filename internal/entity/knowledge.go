package entity

import "time"

type KnowledgeRecord struct {
	ID         string    `db:"id"`
	Topic      string    `db:"topic"`
	Question   string    `db:"question"`
	Keywords   string    `db:"keywords"`
	Synonyms   string    `db:"synonyms"`
	Answer     string    `db:"answer"`
	Summary    string    `db:"summary"`
	AnswerType string    `db:"answer_type"`
	Confidence float64   `db:"confidence"`
	Source     string    `db:"source"`
	VariantOf  string    `db:"variant_of"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
