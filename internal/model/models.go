// Package model defines the data models for the Telegram run bot.
package model

import "time"

// User represents a chat member registered in the running ledger.
// A user is scoped to the chat it was first seen in; the same Telegram
// account appearing in two chats is two distinct users. The tuple
// (chat_id, telegram_id, username) carries a uniqueness constraint.
type User struct {
	ID         int64     `db:"id"`
	ChatID     string    `db:"chat_id"`
	TelegramID int64     `db:"telegram_id"`
	Username   string    `db:"username"`
	CreatedAt  time.Time `db:"created_at"`
}

// Run is one recorded distance entry owned by a user.
// RecordedAt is assigned by the database on insert. It is a pointer
// because rows imported from the legacy ledger may carry no timestamp.
type Run struct {
	ID         int64      `db:"id"`
	Distance   float64    `db:"distance"`
	RecordedAt *time.Time `db:"recorded_at"`
	UserID     int64      `db:"user_id"`
}

// Score is one line of the chat tally: a user's run count ("medals")
// and summed distance. Scores are computed per request, never stored.
type Score struct {
	Username string  `db:"username"`
	Medals   int64   `db:"medals"`
	Distance float64 `db:"distance"`
}
