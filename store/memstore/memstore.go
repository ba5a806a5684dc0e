// Package memstore is an in-memory document store. It is registered as the "memory" provider and supports injected
// failures so that callers can exercise commit and write error paths.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/autom8ter/docseed/errors"
	"github.com/autom8ter/docseed/model"
	"github.com/autom8ter/docseed/store"
	"github.com/segmentio/ksuid"
)

func init() {
	store.Register("memory", func(ctx context.Context, params map[string]any) (store.Store, error) {
		return New(), nil
	})
}

// Store is an in-memory document store
type Store struct {
	mu      sync.RWMutex
	docs    map[string]model.Document
	clock   func() time.Time
	newID   func() string
	commits int
	writes  int
	failOn  map[int]error
	failSet map[int]error
}

// Opt configures a Store
type Opt func(s *Store)

// WithClock overrides the store's clock used for server timestamps
func WithClock(clock func() time.Time) Opt {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithIDGenerator overrides the generator of auto document ids
func WithIDGenerator(fn func() string) Opt {
	return func(s *Store) {
		s.newID = fn
	}
}

// New creates an empty store
func New(opts ...Opt) *Store {
	s := &Store{
		docs: map[string]model.Document{},
		clock: func() time.Time {
			return time.Now().UTC()
		},
		newID: func() string {
			return ksuid.New().String()
		},
		failOn:  map[int]error{},
		failSet: map[int]error{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FailCommit makes the nth batch commit (1-based, counted from store creation) fail with err
func (s *Store) FailCommit(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[n] = err
}

// FailSet makes the nth single document write (1-based) fail with err
func (s *Store) FailSet(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSet[n] = err
}

// Commits returns the number of attempted batch commits
func (s *Store) Commits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits
}

// Writes returns the number of attempted single document writes
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Len returns the number of stored documents
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Addresses returns every stored document address in ascending order
func (s *Store) Addresses() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var paths []string
	for path := range s.docs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (s *Store) Batch() store.Batch {
	return &batch{store: s}
}

func (s *Store) Set(ctx context.Context, address model.Address, doc model.Document) (model.Address, error) {
	if err := ctx.Err(); err != nil {
		return model.Address{}, err
	}
	if err := store.ValidateDocumentAddress(address); err != nil {
		return model.Address{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if err, ok := s.failSet[s.writes]; ok {
		return model.Address{}, err
	}
	resolved := s.resolve(address)
	s.docs[resolved.String()] = doc.ResolveServerTimestamps(s.clock())
	return resolved, nil
}

func (s *Store) Get(ctx context.Context, address model.Address) (model.Document, error) {
	if err := store.ValidateDocumentAddress(address); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[address.String()]
	if !ok {
		return nil, errors.New(errors.NotFound, "document %s does not exist", address.String())
	}
	return doc.Clone(), nil
}

func (s *Store) List(ctx context.Context, collection model.Address) ([]model.Address, error) {
	if err := store.ValidateCollectionAddress(collection); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefix := collection.String() + "/"
	var ids []string
	for path := range s.docs {
		id := strings.TrimPrefix(path, prefix)
		if id == path || strings.Contains(id, "/") {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	addresses := make([]model.Address, 0, len(ids))
	for _, id := range ids {
		addresses = append(addresses, collection.Doc(id))
	}
	return addresses, nil
}

func (s *Store) Close() error {
	return nil
}

// resolve must be called with the lock held
func (s *Store) resolve(address model.Address) model.Address {
	if address.IsAuto() {
		return address.WithID(s.newID())
	}
	return address
}

type batch struct {
	store *Store
	ops   []store.Op
}

func (b *batch) Set(address model.Address, doc model.Document) (model.Address, error) {
	if err := store.ValidateDocumentAddress(address); err != nil {
		return model.Address{}, err
	}
	b.store.mu.Lock()
	resolved := b.store.resolve(address)
	b.store.mu.Unlock()
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

// Commit applies all operations under the store lock, or none if an injected failure matches this commit
func (b *batch) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commits++
	if err, ok := s.failOn[s.commits]; ok {
		return err
	}
	now := s.clock()
	for _, op := range b.ops {
		switch op.Kind {
		case store.OpDelete:
			delete(s.docs, op.Address.String())
		default:
			s.docs[op.Address.String()] = op.Document.ResolveServerTimestamps(now)
		}
	}
	return nil
}
