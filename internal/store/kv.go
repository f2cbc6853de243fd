package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// kvTable implements kv.Storage on the kv table. Values are stored as TEXT
// since everything written through it is JSON.
type kvTable struct {
	db *sql.DB
}

func (t *kvTable) Get(key string) ([]byte, bool, error) {
	var value string
	err := t.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return []byte(value), true, nil
}

func (t *kvTable) Set(key string, value []byte) error {
	_, err := t.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(value), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (t *kvTable) Delete(key string) error {
	if _, err := t.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
