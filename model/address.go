package model

import (
	"strings"

	"github.com/autom8ter/docseed/errors"
)

const pathSeparator = "/"

// Address is a path of alternating collection-name/document-id segments. An odd number of segments addresses a
// collection, an even number addresses a document. A document address whose final id is empty is an auto address:
// the store allocates the id when the write is queued.
type Address struct {
	segments []string
}

// Collection returns the address of a root collection
func Collection(name string) Address {
	return Address{segments: []string{name}}
}

// ParseAddress parses a slash separated path such as "quizzes/tier1/questions/q1"
func ParseAddress(path string) (Address, error) {
	path = strings.Trim(path, pathSeparator)
	if path == "" {
		return Address{}, errors.New(errors.Validation, "empty address")
	}
	a := Address{segments: strings.Split(path, pathSeparator)}
	if err := a.Validate(); err != nil {
		return Address{}, err
	}
	return a, nil
}

// Doc returns the address of the document with the given id inside the collection
func (a Address) Doc(id string) Address {
	return a.child(id)
}

// NewDoc returns an auto address inside the collection
func (a Address) NewDoc() Address {
	return a.child("")
}

// Collection returns the address of a sub-collection of the document
func (a Address) Collection(name string) Address {
	return a.child(name)
}

func (a Address) child(segment string) Address {
	segments := make([]string, len(a.segments), len(a.segments)+1)
	copy(segments, a.segments)
	return Address{segments: append(segments, segment)}
}

// Segments returns a copy of the address segments
func (a Address) Segments() []string {
	segments := make([]string, len(a.segments))
	copy(segments, a.segments)
	return segments
}

// IsZero returns true if the address has no segments
func (a Address) IsZero() bool {
	return len(a.segments) == 0
}

// IsCollection returns true if the address points at a collection
func (a Address) IsCollection() bool {
	return len(a.segments)%2 == 1
}

// IsDocument returns true if the address points at a document
func (a Address) IsDocument() bool {
	return !a.IsZero() && len(a.segments)%2 == 0
}

// IsAuto returns true if the address is a document address waiting for a store allocated id
func (a Address) IsAuto() bool {
	return a.IsDocument() && a.segments[len(a.segments)-1] == ""
}

// ID returns the final segment: the document id of a document address or the name of a collection
func (a Address) ID() string {
	if a.IsZero() {
		return ""
	}
	return a.segments[len(a.segments)-1]
}

// Parent returns the enclosing collection of a document, or the enclosing document of a sub-collection
func (a Address) Parent() Address {
	if len(a.segments) <= 1 {
		return Address{}
	}
	return Address{segments: a.Segments()[:len(a.segments)-1]}
}

// WithID resolves an auto address to a concrete document id
func (a Address) WithID(id string) Address {
	return a.Parent().Doc(id)
}

// String returns the slash separated path
func (a Address) String() string {
	return strings.Join(a.segments, pathSeparator)
}

// Validate returns a validation error if a segment is empty or contains a separator. The final id of a document
// address may be empty (auto).
func (a Address) Validate() error {
	if a.IsZero() {
		return errors.New(errors.Validation, "empty address")
	}
	for i, s := range a.segments {
		if strings.Contains(s, pathSeparator) {
			return errors.New(errors.Validation, "address segment %q contains %q", s, pathSeparator)
		}
		if s == "" && !(a.IsDocument() && i == len(a.segments)-1) {
			return errors.New(errors.Validation, "address %q has an empty segment at position %d", a.String(), i)
		}
	}
	return nil
}

// Equal returns true if both addresses have identical segments
func (a Address) Equal(other Address) bool {
	if len(a.segments) != len(other.segments) {
		return false
	}
	for i := range a.segments {
		if a.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// MarshalText encodes the address as its slash separated path
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
