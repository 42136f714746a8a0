package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"combain-support-bot/internal/models"
)

//go:embed schema.sql
var ddl embed.FS

// DB mirrors the registration set into sqlite so it survives restarts.
type DB struct{ *sql.DB }

func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err = migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite %s: %w", path, err)
	}
	return &DB{db}, nil
}

func migrate(db *sql.DB) error {
	b, err := ddl.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(string(b))
	return err
}

// ---------- users -----------------------------------------------------------

// UpsertUser inserts a registered user or refreshes chat, handle and activity.
// registered_at is written once and never changed afterwards.
func (d *DB) UpsertUser(u *models.User) error {
	_, err := d.Exec(`
        INSERT INTO users (id, chat_id, username, registered_at, last_seen_at)
        VALUES (?,?,?,?,?)
        ON CONFLICT(id) DO UPDATE SET chat_id=excluded.chat_id,
            username=excluded.username,
            last_seen_at=excluded.last_seen_at
    `, u.ID, u.ChatID, u.Username, unixOrZero(u.RegisteredAt), unixOrZero(u.LastSeenAt))
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", u.ID, err)
	}
	return nil
}

func (d *DB) ListUsers() ([]models.User, error) {
	rows, err := d.Query(`SELECT id, chat_id, username, registered_at, last_seen_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var res []models.User
	for rows.Next() {
		var (
			u                      models.User
			registered, lastSeenAt int64
		)
		if err := rows.Scan(&u.ID, &u.ChatID, &u.Username, &registered, &lastSeenAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.RegisteredAt = fromUnix(registered)
		u.LastSeenAt = fromUnix(lastSeenAt)
		res = append(res, u)
	}
	return res, rows.Err()
}

// DeleteInactive drops users not seen since before and reports how many went.
func (d *DB) DeleteInactive(before time.Time) (int64, error) {
	res, err := d.Exec(`DELETE FROM users WHERE last_seen_at < ?`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("delete inactive users: %w", err)
	}
	return res.RowsAffected()
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func fromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
