package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var bucketSessions = []byte("sessions")

type (
	boltStore struct {
		db *bbolt.DB
	}
)

// OpenBolt opens (creating if needed) a bbolt file at path.
func OpenBolt(path string) (Store, error) {
	if path == "" {
		return nil, errors.New("session: bolt store requires a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("unable to create directory for %v, cause %w", path, err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSessions)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to create sessions bucket in %v, cause %w", path, err)
	}
	return &boltStore{db: db}, nil
}

func (b *boltStore) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSessions).Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		// data is only valid during the transaction
		out = append([]byte(nil), data...)
		return nil
	})
	return out, err
}

func (b *boltStore) Set(_ context.Context, key string, value []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSessions).Put([]byte(key), value)
	})
}

func (b *boltStore) Clear(_ context.Context, key string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSessions).Delete([]byte(key))
	})
}

func (b *boltStore) Close() error {
	return b.db.Close()
}
