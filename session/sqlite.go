package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	_ "github.com/mattn/go-sqlite3"
)

type (
	sqliteStore struct {
		db *sql.DB
	}
)

// OpenSQLite opens (creating if needed) a sqlite database at path.
func OpenSQLite(ctx context.Context, path string) (Store, error) {
	if path == "" {
		return nil, errors.New("session: sqlite store requires a path")
	}
	err := os.MkdirAll(filepath.Dir(path), 0700)
	if err != nil {
		return nil, fmt.Errorf("unable to create directory for %v, cause %w", path, err)
	}
	connstr := fmt.Sprintf("file:%v?_journal=wal&mode=rwc", path)
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %v", path, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping session store %v, cause %v", path, err)
	}
	s := &sqliteStore{db: conn}
	if err := s.init(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to init session store %v, cause %v", path, err)
	}
	return s, nil
}

func (s *sqliteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `select value from markers where key_hash64 = ? and key = ?`, keyHash(key), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("unable to load %v from session store, cause %w", key, err)
	}
	return value, nil
}

func (s *sqliteStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `insert into markers(key, key_hash64, value, updated_at) values (?, ?, ?, ?)
		on conflict (key) do update set value = excluded.value, updated_at = excluded.updated_at`,
		key, keyHash(key), value, time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("unable to save %v to session store, cause %w", key, err)
	}
	return nil
}

func (s *sqliteStore) Clear(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `delete from markers where key_hash64 = ? and key = ?`, keyHash(key), key)
	if err != nil {
		return fmt.Errorf("unable to clear %v from session store, cause %w", key, err)
	}
	return nil
}

func (s *sqliteStore) init(ctx context.Context) error {
	for _, cmd := range []string{
		`create table if not exists markers(
			key text not null primary key,
			key_hash64 integer not null,
			value blob not null,
			updated_at integer not null
		)`,
		`create index if not exists idx_markers_key_hash64
			on markers(key_hash64)
		`,
	} {
		_, err := s.db.ExecContext(ctx, cmd)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func keyHash(key string) int64 {
	return int64(xxhash.Sum64String(key))
}
