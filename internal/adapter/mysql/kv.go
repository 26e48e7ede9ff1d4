package mysql

import (
	"context"
	"database/sql"

	// registers the "mysql" driver
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_store
(
    ` + "`key`" + `     VARCHAR(191) NOT NULL,
    value      LONGTEXT     NOT NULL,
    updated_at DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
    PRIMARY KEY (` + "`key`" + `)
) ENGINE = InnoDB
  DEFAULT CHARSET = utf8mb4
  COLLATE = utf8mb4_unicode_ci
`

// KV stores values in the kv_store table of a MySQL database.
type KV struct {
	db *sqlx.DB
}

// Open connects to dsn and makes sure the kv_store table exists.
func Open(ctx context.Context, dsn string) (*KV, error) {
	db, err := sqlx.ConnectContext(ctx, "mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to mysql")
	}

	kv, err := NewKV(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return kv, nil
}

// NewKV wraps an open connection and ensures the schema.
func NewKV(ctx context.Context, db *sqlx.DB) (*KV, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, errors.Wrap(err, "failed to create kv_store table")
	}
	return &KV{db: db}, nil
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := k.db.GetContext(ctx, &value, "SELECT value FROM kv_store WHERE `key` = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to read key %s", key)
	}
	return []byte(value), true, nil
}

func (k *KV) Put(ctx context.Context, key string, value []byte) error {
	_, err := k.db.ExecContext(ctx,
		"INSERT INTO kv_store (`key`, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)",
		key, string(value),
	)
	return errors.Wrapf(err, "failed to write key %s", key)
}

func (k *KV) Delete(ctx context.Context, key string) error {
	_, err := k.db.ExecContext(ctx, "DELETE FROM kv_store WHERE `key` = ?", key)
	return errors.Wrapf(err, "failed to delete key %s", key)
}

func (k *KV) Close() error {
	return k.db.Close()
}
