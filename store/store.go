package store

import (
	"context"

	"github.com/autom8ter/docseed/model"
)

// Store is a hierarchical document store
type Store interface {
	// Batch starts an empty batch of writes
	Batch() Batch
	// Set writes a single document outside of a batch and returns its resolved address
	Set(ctx context.Context, address model.Address, doc model.Document) (model.Address, error)
	// Get returns the document at the address, or a NotFound error
	Get(ctx context.Context, address model.Address) (model.Document, error)
	// List returns the addresses of the documents directly inside the collection in ascending id order
	List(ctx context.Context, collection model.Address) ([]model.Address, error)
	// Close releases the store's resources
	Close() error
}

// Batch is an ordered set of pending writes committed as one atomic unit
type Batch interface {
	// Set queues a document write. Auto addresses are resolved to a store allocated id.
	Set(address model.Address, doc model.Document) (model.Address, error)
	// Delete queues a document delete
	Delete(address model.Address) error
	// Len returns the number of queued operations
	Len() int
	// Commit applies every queued operation or none of them
	Commit(ctx context.Context) error
}

// OpKind is the kind of a queued batch operation
type OpKind string

const (
	OpSet    OpKind = "set"
	OpDelete OpKind = "delete"
)

// Op is a queued batch operation. Backends without a native batch type use it to buffer writes.
type Op struct {
	Kind     OpKind
	Address  model.Address
	Document model.Document
}
