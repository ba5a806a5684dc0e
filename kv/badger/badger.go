package badger

import (
	"context"

	"github.com/autom8ter/docseed/kv"
	"github.com/autom8ter/docseed/store/kvstore"
	"github.com/dgraph-io/badger/v3"
	"github.com/spf13/cast"
)

func init() {
	kvstore.Register("badger", func(ctx context.Context, params map[string]any) (kv.DB, error) {
		return Open(cast.ToString(params["storage_path"]))
	})
}

type badgerKV struct {
	db       *badger.DB
	inMemory bool
}

// Open opens a badger database at storagePath. An empty path opens an in-memory database.
func Open(storagePath string) (kv.DB, error) {
	opts := badger.DefaultOptions(storagePath)
	if storagePath == "" {
		opts.InMemory = true
		opts.Dir = ""
		opts.ValueDir = ""
	}
	opts = opts.WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &badgerKV{
		db:       db,
		inMemory: opts.InMemory,
	}, nil
}

func (b *badgerKV) Tx(ctx context.Context, isUpdate bool, fn func(kv.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if isUpdate {
		return b.db.Update(func(txn *badger.Txn) error {
			return fn(newTx(txn))
		})
	}
	return b.db.View(func(txn *badger.Txn) error {
		return fn(newTx(txn))
	})
}

func (b *badgerKV) Close() error {
	if !b.inMemory {
		if err := b.db.Sync(); err != nil {
			return err
		}
	}
	return b.db.Close()
}
