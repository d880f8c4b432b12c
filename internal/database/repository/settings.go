package repository

import (
	"context"
	"database/sql"
)

// SettingRepo is a key/value store for the settings table; values are
// small JSON or scalar strings owned by the caller.
type SettingRepo struct {
	db *sql.DB
}

func NewSettingRepo(db *sql.DB) *SettingRepo { return &SettingRepo{db: db} }

// Get returns the value for key, with found=false when absent.
func (r *SettingRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set upserts a value.
func (r *SettingRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO settings(key, value) VALUES(?, ?)
	ON CONFLICT(key) DO UPDATE SET value=excluded.value;
	`, key, value)
	return err
}

// Delete removes a key; deleting an absent key is not an error.
func (r *SettingRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	return err
}
