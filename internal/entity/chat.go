package entity

import "time"

type ChatLogEntry struct {
	ID        string    `db:"id"`
	Question  string    `db:"question"`
	Answer    string    `db:"answer"`
	Source    string    `db:"source"`
	CreatedAt time.Time `db:"created_at"`
}
