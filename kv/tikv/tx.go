package tikv

import (
	"context"
	"fmt"
	"time"

	"github.com/autom8ter/docseed/kv"
	"github.com/autom8ter/docseed/kv/kvutil"
	tikvErr "github.com/tikv/client-go/v2/error"
	"github.com/tikv/client-go/v2/oracle"
	"github.com/tikv/client-go/v2/txnkv/transaction"
)

type tikvTx struct {
	txn      *transaction.KVTxn
	readOnly bool
}

func (t *tikvTx) NewIterator(ctx context.Context, kopts kv.IterOpts) (kv.Iterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := kopts.Prefix
	if kopts.Seek != nil {
		start = kopts.Seek
	}
	var upper []byte
	if kopts.Prefix != nil {
		upper = kvutil.NextPrefix(kopts.Prefix)
	}
	iter, err := t.txn.Iter(start, upper)
	if err != nil {
		return nil, err
	}
	return &tikvIterator{iter: iter, opts: kopts}, nil
}

func (t *tikvTx) Get(ctx context.Context, key []byte) ([]byte, error) {
	val, err := t.txn.Get(ctx, key)
	if err != nil {
		if tikvErr.IsErrNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return val, nil
}

func (t *tikvTx) Set(ctx context.Context, key, value []byte) error {
	if t.readOnly {
		return fmt.Errorf("writes forbidden in read-only transaction")
	}
	return t.txn.Set(key, value)
}

func (t *tikvTx) Delete(ctx context.Context, key []byte) error {
	if t.readOnly {
		return fmt.Errorf("writes forbidden in read-only transaction")
	}
	return t.txn.Delete(key)
}

// Now derives the time from the transaction's start timestamp, which is allocated by the placement driver
func (t *tikvTx) Now(ctx context.Context) (time.Time, error) {
	return oracle.GetTimeFromTS(t.txn.StartTS()).UTC(), nil
}
