// Package kvstore provides the durable key/value backends behind the
// history and preference stores.
package kvstore

import (
	"context"
	"fmt"

	"github.com/ix-ath/shelf-sense/internal/domain"
)

// Backend types accepted by Open
const (
	TypeMemory = "memory"
	TypeSQLite = "sqlite"
	TypeRedis  = "redis"
)

// Store is a KeyValueStore that owns a closable resource
type Store interface {
	domain.KeyValueStore
	Close() error
}

// Options selects and configures a backend
type Options struct {
	Type     string
	Path     string
	RedisURL string
}

// Open builds the backend named by opts.Type
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Type {
	case TypeMemory:
		return NewMemoryStore(), nil
	case TypeSQLite:
		return OpenSQLite(opts.Path)
	case TypeRedis:
		return OpenRedis(ctx, opts.RedisURL)
	default:
		return nil, fmt.Errorf("unknown storage type %q", opts.Type)
	}
}
