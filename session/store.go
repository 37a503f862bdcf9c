// Package session provides small key/value stores used to persist local
// session markers. All stores are safe for concurrent use.
package session

import (
	"context"
	"errors"
	"fmt"
)

const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
	KindBolt   = "bolt"
)

var (
	ErrNotFound = errors.New("session: key not found")
)

type (
	// Store is the get/set/clear capability the credential verifier
	// persists its session marker with. Clear on a missing key is not an
	// error.
	Store interface {
		Get(ctx context.Context, key string) ([]byte, error)
		Set(ctx context.Context, key string, value []byte) error
		Clear(ctx context.Context, key string) error
		Close() error
	}

	UnknownKind struct {
		Kind string
	}
)

func (u UnknownKind) Error() string {
	return fmt.Sprintf("session: unknown store kind %q (valid kinds: %v, %v, %v)", u.Kind, KindMemory, KindSQLite, KindBolt)
}

// Open returns a store of the given kind. path is ignored for memory
// stores and required for the others.
func Open(ctx context.Context, kind, path string) (Store, error) {
	switch kind {
	case KindMemory:
		return Memory()
	case KindSQLite:
		return OpenSQLite(ctx, path)
	case KindBolt:
		return OpenBolt(path)
	default:
		return nil, UnknownKind{Kind: kind}
	}
}
