package cache

import (
	"context"
	"database/sql"
	"net/url"

	"github.com/xuenqlve/checkkit/errors"
	"github.com/xuenqlve/checkkit/log"

	_ "modernc.org/sqlite" // register the sqlite driver
)

const (
	createTable = `CREATE TABLE IF NOT EXISTS cache (
	key       TEXT NOT NULL,
	value     TEXT NOT NULL,
	timestamp INT NOT NULL
)`
	createIndex  = `CREATE UNIQUE INDEX IF NOT EXISTS idx_cache_key ON cache (key)`
	replaceRow   = `REPLACE INTO cache (key, value, timestamp) VALUES (?, ?, ?)`
	selectRow    = `SELECT value, timestamp FROM cache WHERE key = ?`
	purgeExpired = `DELETE FROM cache WHERE timestamp != 0 AND timestamp < ?`
)

// SQLiteStore keeps the cache in a single SQLite file, so separate check
// runs on the same host share it. SQLite serialises concurrent writers.
type SQLiteStore struct {
	db   *sql.DB
	file string
}

func OpenSQLite(ctx context.Context, file string) (*SQLiteStore, error) {
	u := url.URL{
		Scheme: `file`,
		Opaque: file,
		RawQuery: url.Values{
			"_pragma": {
				"busy_timeout(1000)",
			},
		}.Encode(),
	}
	db, err := sql.Open(`sqlite`, u.String())
	if err != nil {
		return nil, errors.Annotatef(ErrStore, "open %s: %v", file, err)
	}
	for _, stmt := range []string{createTable, createIndex} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, errors.Annotatef(ErrStore, "prepare %s: %v", file, err)
		}
	}
	return &SQLiteStore{db: db, file: file}, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string, expire int64) bool {
	if _, err := s.db.ExecContext(ctx, replaceRow, key, value, expire); err != nil {
		log.Warnf("cache set %q in %s failed: %v", key, s.file, err)
		return false
	}
	return true
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool) {
	var (
		value  string
		expire int64
	)
	err := s.db.QueryRowContext(ctx, selectRow, key).Scan(&value, &expire)
	switch {
	case err == sql.ErrNoRows:
		return "", false
	case err != nil:
		log.Warnf("cache get %q from %s failed: %v", key, s.file, err)
		return "", false
	}
	at := now()
	if expired(expire, at) {
		// 命中过期数据时顺便清理所有过期的 key
		if _, err := s.db.ExecContext(ctx, purgeExpired, at); err != nil {
			log.Debugf("cache purge in %s failed: %v", s.file, err)
		}
		return "", false
	}
	return value, true
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
