package tikv

import (
	"context"
	"strings"

	"github.com/autom8ter/docseed/errors"
	"github.com/autom8ter/docseed/kv"
	"github.com/autom8ter/docseed/store/kvstore"
	"github.com/spf13/cast"
	"github.com/tikv/client-go/v2/txnkv"
)

func init() {
	kvstore.Register("tikv", func(ctx context.Context, params map[string]any) (kv.DB, error) {
		if params["pd_addr"] == nil {
			return nil, errors.New(errors.Validation, "'pd_addr' is a required paramater")
		}
		return Open(strings.Split(cast.ToString(params["pd_addr"]), ",")...)
	})
}

type tikvKV struct {
	db *txnkv.Client
}

// Open connects to a tikv cluster through its placement driver(s)
func Open(pdAddrs ...string) (kv.DB, error) {
	if len(pdAddrs) == 0 || pdAddrs[0] == "" {
		return nil, errors.New(errors.Validation, "empty pd address")
	}
	client, err := txnkv.NewClient(pdAddrs)
	if err != nil {
		return nil, err
	}
	return &tikvKV{
		db: client,
	}, nil
}

func (b *tikvKV) Tx(ctx context.Context, isUpdate bool, fn func(kv.Tx) error) error {
	txn, err := b.db.Begin()
	if err != nil {
		return err
	}
	tx := &tikvTx{txn: txn, readOnly: !isUpdate}
	if err := fn(tx); err != nil {
		_ = txn.Rollback()
		return err
	}
	if !isUpdate {
		return txn.Rollback()
	}
	return txn.Commit(ctx)
}

func (b *tikvKV) Close() error {
	return b.db.Close()
}
