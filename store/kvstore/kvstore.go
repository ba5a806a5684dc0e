// Package kvstore exposes a transactional key value database as a hierarchical document store. Documents are stored
// as json under their slash separated address, and every batch is applied inside a single kv transaction.
package kvstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/autom8ter/docseed/errors"
	"github.com/autom8ter/docseed/kv"
	"github.com/autom8ter/docseed/kv/kvutil"
	"github.com/autom8ter/docseed/model"
	"github.com/autom8ter/docseed/store"
	"github.com/segmentio/ksuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Opener opens a key value database from provider specific params
type Opener func(ctx context.Context, params map[string]any) (kv.DB, error)

// Register registers a key value provider as a document store provider
func Register(name string, opener Opener) {
	store.Register(name, func(ctx context.Context, params map[string]any) (store.Store, error) {
		db, err := opener(ctx, params)
		if err != nil {
			return nil, err
		}
		return New(db), nil
	})
}

// Store is a document store backed by a kv.DB
type Store struct {
	db    kv.DB
	newID func() string
}

// Opt configures a Store
type Opt func(s *Store)

// WithIDGenerator overrides the generator of auto document ids
func WithIDGenerator(fn func() string) Opt {
	return func(s *Store) {
		s.newID = fn
	}
}

// New wraps the key value database
func New(db kv.DB, opts ...Opt) *Store {
	s := &Store{
		db: db,
		newID: func() string {
			return ksuid.New().String()
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// envelope is the stored value of a document. Timestamps lists the paths of time values so that they decode back
// into time.Time.
type envelope struct {
	Data       json.RawMessage `json:"data"`
	Timestamps []string        `json:"timestamps,omitempty"`
}

func (s *Store) encode(doc model.Document, now time.Time) ([]byte, error) {
	bits, err := doc.Bytes()
	if err != nil {
		return nil, err
	}
	for _, path := range doc.ServerTimestampPaths() {
		bits, err = sjson.SetBytes(bits, path, now.Format(time.RFC3339Nano))
		if err != nil {
			return nil, errors.Wrap(err, errors.Internal, "failed to set server timestamp %s", path)
		}
	}
	return json.Marshal(envelope{Data: bits, Timestamps: doc.TimestampPaths()})
}

func (s *Store) decode(value []byte) (model.Document, error) {
	var env envelope
	if err := json.Unmarshal(value, &env); err != nil {
		return nil, errors.Wrap(err, errors.Internal, "corrupt document")
	}
	doc, err := model.NewDocumentFromBytes(env.Data)
	if err != nil {
		return nil, err
	}
	for _, path := range env.Timestamps {
		t, err := time.Parse(time.RFC3339Nano, gjson.GetBytes(env.Data, path).String())
		if err != nil {
			return nil, errors.Wrap(err, errors.Internal, "corrupt timestamp %s", path)
		}
		doc.SetPath(path, t)
	}
	return doc, nil
}

func (s *Store) resolve(address model.Address) model.Address {
	if address.IsAuto() {
		return address.WithID(s.newID())
	}
	return address
}

// Batch starts an empty batch
func (s *Store) Batch() store.Batch {
	return &batch{store: s}
}

// Set writes a single document in its own transaction
func (s *Store) Set(ctx context.Context, address model.Address, doc model.Document) (model.Address, error) {
	b := s.Batch()
	resolved, err := b.Set(address, doc)
	if err != nil {
		return model.Address{}, err
	}
	return resolved, b.Commit(ctx)
}

// Get returns the document at the address
func (s *Store) Get(ctx context.Context, address model.Address) (model.Document, error) {
	if err := store.ValidateDocumentAddress(address); err != nil {
		return nil, err
	}
	var doc model.Document
	err := s.db.Tx(ctx, false, func(tx kv.Tx) error {
		value, err := tx.Get(ctx, kvutil.DocumentKey(address))
		if err != nil {
			return err
		}
		if value == nil {
			return errors.New(errors.NotFound, "document %s does not exist", address.String())
		}
		doc, err = s.decode(value)
		return err
	})
	return doc, err
}

// List returns the direct children of the collection
func (s *Store) List(ctx context.Context, collection model.Address) ([]model.Address, error) {
	if err := store.ValidateCollectionAddress(collection); err != nil {
		return nil, err
	}
	var addresses []model.Address
	err := s.db.Tx(ctx, false, func(tx kv.Tx) error {
		iter, err := tx.NewIterator(ctx, kv.IterOpts{Prefix: kvutil.ChildPrefix(collection)})
		if err != nil {
			return err
		}
		defer iter.Close()
		for iter.Valid() {
			if child, ok := kvutil.ChildAddress(collection, iter.Key()); ok {
				addresses = append(addresses, child)
			}
			if err := iter.Next(); err != nil {
				return err
			}
		}
		return nil
	})
	return addresses, err
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

type batch struct {
	store *Store
	ops   []store.Op
}

func (b *batch) Set(address model.Address, doc model.Document) (model.Address, error) {
	if err := store.ValidateDocumentAddress(address); err != nil {
		return model.Address{}, err
	}
	resolved := b.store.resolve(address)
	b.ops = append(b.ops, store.Op{Kind: store.OpSet, Address: resolved, Document: doc.Clone()})
	return resolved, nil
}

func (b *batch) Delete(address model.Address) error {
	if err := store.ValidateDocumentAddress(address); err != nil {
		return err
	}
	if address.IsAuto() {
		return errors.New(errors.Validation, "cannot delete an auto address")
	}
	b.ops = append(b.ops, store.Op{Kind: store.OpDelete, Address: address})
	return nil
}

func (b *batch) Len() int {
	return len(b.ops)
}

func (b *batch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}
	return b.store.db.Tx(ctx, true, func(tx kv.Tx) error {
		now, err := tx.Now(ctx)
		if err != nil {
			return err
		}
		for _, op := range b.ops {
			key := kvutil.DocumentKey(op.Address)
			switch op.Kind {
			case store.OpDelete:
				if err := tx.Delete(ctx, key); err != nil {
					return err
				}
			default:
				value, err := b.store.encode(op.Document, now)
				if err != nil {
					return err
				}
				if err := tx.Set(ctx, key, value); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
