package models

import (
	"strconv"
	"time"
)

// User is the per-user session: registration data plus complaint state.
type User struct {
	ID           int64     `db:"id"            json:"id"`
	ChatID       int64     `db:"chat_id"       json:"chat_id"`
	Username     string    `db:"username"      json:"username,omitempty"` // "" -> no public handle
	State        State     `db:"-"             json:"state"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"` // zero -> never sent /start
	LastSeenAt   time.Time `db:"last_seen_at"  json:"last_seen_at"`
}

// Registered reports whether the user has gone through /start.
func (u User) Registered() bool { return !u.RegisteredAt.IsZero() }

// ComplaintRecord is built only to notify the operator and is never stored.
type ComplaintRecord struct {
	Ref      string
	UserID   int64
	Username string
	Text     string
}

// DisplayIdentifier prefers the public @handle and falls back to the numeric id.
func (c ComplaintRecord) DisplayIdentifier() string {
	if c.Username != "" {
		return "@" + c.Username
	}
	return "ID:" + strconv.FormatInt(c.UserID, 10)
}
