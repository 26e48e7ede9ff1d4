package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	pkgerrors "github.com/pkg/errors"
)

// KV stores values in the kv_store table created by Migrate.
type KV struct {
	db DB
}

func NewKV(db DB) *KV {
	return &KV{db: db}
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := k.db.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, pkgerrors.Wrapf(err, "failed to read key %s", key)
	}
	return []byte(value), true, nil
}

func (k *KV) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	_, err := k.db.Exec(ctx, query, key, string(value))
	return pkgerrors.Wrapf(err, "failed to write key %s", key)
}

func (k *KV) Delete(ctx context.Context, key string) error {
	_, err := k.db.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	return pkgerrors.Wrapf(err, "failed to delete key %s", key)
}

func (k *KV) Close() error {
	k.db.Close()
	return nil
}
