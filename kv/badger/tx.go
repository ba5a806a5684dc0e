package badger

import (
	"context"
	"time"

	"github.com/autom8ter/docseed/kv"
	"github.com/dgraph-io/badger/v3"
)

type badgerTx struct {
	txn   *badger.Txn
	start time.Time
}

// badger is embedded, so the database clock is the clock of the process hosting it
func newTx(txn *badger.Txn) *badgerTx {
	return &badgerTx{txn: txn, start: time.Now().UTC()}
}

func (b *badgerTx) NewIterator(ctx context.Context, kopts kv.IterOpts) (kv.Iterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	opts.PrefetchSize = 10
	opts.Prefix = kopts.Prefix
	iter := b.txn.NewIterator(opts)
	if kopts.Seek == nil {
		iter.Rewind()
	} else {
		iter.Seek(kopts.Seek)
	}
	return &badgerIterator{iter: iter, opts: kopts}, nil
}

func (b *badgerTx) Get(ctx context.Context, key []byte) ([]byte, error) {
	i, err := b.txn.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	return i.ValueCopy(nil)
}

func (b *badgerTx) Set(ctx context.Context, key, value []byte) error {
	return b.txn.SetEntry(badger.NewEntry(key, value))
}

func (b *badgerTx) Delete(ctx context.Context, key []byte) error {
	return b.txn.Delete(key)
}

func (b *badgerTx) Now(ctx context.Context) (time.Time, error) {
	return b.start, nil
}
