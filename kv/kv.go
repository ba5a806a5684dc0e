package kv

import (
	"context"
	"time"
)

// DB is a transactional key value database
type DB interface {
	// Tx executes fn inside a transaction. If isUpdate is true and fn returns nil, every write is committed
	// atomically. If fn or the commit fails, no write is applied.
	Tx(ctx context.Context, isUpdate bool, fn func(Tx) error) error
	// Close closes the database
	Close() error
}

// IterOpts configures an iterator
type IterOpts struct {
	Prefix []byte `json:"prefix"`
	Seek   []byte `json:"seek"`
}

// Tx is a key value transaction
type Tx interface {
	// Get returns the value of the key, or nil if the key does not exist
	Get(ctx context.Context, key []byte) ([]byte, error)
	Set(ctx context.Context, key, value []byte) error
	Delete(ctx context.Context, key []byte) error
	// NewIterator iterates keys in ascending order
	NewIterator(ctx context.Context, opts IterOpts) (Iterator, error)
	// Now returns the database's clock for this transaction
	Now(ctx context.Context) (time.Time, error)
}

// Iterator iterates over keys in a transaction
type Iterator interface {
	Valid() bool
	Key() []byte
	Value() ([]byte, error)
	Next() error
	Close()
}
