// Package firestore is a Cloud Firestore document store. Batches map onto native firestore write batches, auto
// addresses onto NewDoc ids and ServerTimestamp onto firestore.ServerTimestamp.
package firestore

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/autom8ter/docseed/errors"
	"github.com/autom8ter/docseed/model"
	"github.com/autom8ter/docseed/store"
	"github.com/spf13/cast"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func init() {
	store.Register("firestore", func(ctx context.Context, params map[string]any) (store.Store, error) {
		projectID := cast.ToString(params["project_id"])
		if projectID == "" {
			projectID = firestore.DetectProjectID
		}
		var opts []option.ClientOption
		if path := cast.ToString(params["credentials_file"]); path != "" {
			opts = append(opts, option.WithCredentialsFile(path))
		}
		return Open(ctx, projectID, opts...)
	})
}

// Store is a firestore backed document store
type Store struct {
	client *firestore.Client
}

// Open creates a firestore client. FIRESTORE_EMULATOR_HOST is honored by the client library.
func Open(ctx context.Context, projectID string, opts ...option.ClientOption) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, err
	}
	return New(client), nil
}

// New wraps an existing firestore client
func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) ref(address model.Address) *firestore.DocumentRef {
	if address.IsAuto() {
		return s.client.Collection(address.Parent().String()).NewDoc()
	}
	return s.client.Doc(address.String())
}

func (s *Store) Batch() store.Batch {
	return &batch{store: s, batch: s.client.Batch()}
}

func (s *Store) Set(ctx context.Context, address model.Address, doc model.Document) (model.Address, error) {
	if err := store.ValidateDocumentAddress(address); err != nil {
		return model.Address{}, err
	}
	ref := s.ref(address)
	if _, err := ref.Set(ctx, toFirestore(doc)); err != nil {
		return model.Address{}, err
	}
	return address.WithID(ref.ID), nil
}

func (s *Store) Get(ctx context.Context, address model.Address) (model.Document, error) {
	if err := store.ValidateDocumentAddress(address); err != nil {
		return nil, err
	}
	snap, err := s.client.Doc(address.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.New(errors.NotFound, "document %s does not exist", address.String())
		}
		return nil, err
	}
	return model.Document(snap.Data()), nil
}

// List returns the existing documents of the collection. Documents that only exist as parents of sub-collections are
// not included.
func (s *Store) List(ctx context.Context, collection model.Address) ([]model.Address, error) {
	if err := store.ValidateCollectionAddress(collection); err != nil {
		return nil, err
	}
	snaps, err := s.client.Collection(collection.String()).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(snaps))
	for _, snap := range snaps {
		ids = append(ids, snap.Ref.ID)
	}
	sort.Strings(ids)
	addresses := make([]model.Address, 0, len(ids))
	for _, id := range ids {
		addresses = append(addresses, collection.Doc(id))
	}
	return addresses, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

type batch struct {
	store *Store
	batch *firestore.WriteBatch
	n     int
}

func (b *batch) Set(address model.Address, doc model.Document) (model.Address, error) {
	if err := store.ValidateDocumentAddress(address); err != nil {
		return model.Address{}, err
	}
	ref := b.store.ref(address)
	b.batch.Set(ref, toFirestore(doc.Clone()))
	b.n++
	return address.WithID(ref.ID), nil
}

func (b *batch) Delete(address model.Address) error {
	if err := store.ValidateDocumentAddress(address); err != nil {
		return err
	}
	if address.IsAuto() {
		return errors.New(errors.Validation, "cannot delete an auto address")
	}
	b.batch.Delete(b.store.ref(address))
	b.n++
	return nil
}

func (b *batch) Len() int {
	return b.n
}

// Commit commits the write batch. Firestore rejects empty batches, so an empty batch is a no-op.
func (b *batch) Commit(ctx context.Context) error {
	if b.n == 0 {
		return nil
	}
	_, err := b.batch.Commit(ctx)
	return err
}

func toFirestore(doc model.Document) map[string]any {
	return convertMap(doc)
}

func convertMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = convertValue(v)
	}
	return out
}

func convertValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return convertMap(v)
	case model.Document:
		return convertMap(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = convertValue(e)
		}
		return out
	default:
		if model.IsServerTimestamp(v) {
			return firestore.ServerTimestamp
		}
		return v
	}
}
