package docseed

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/autom8ter/docseed/errors"
	"github.com/autom8ter/docseed/model"
)

// Record is a fixture entry mapped to its target address
type Record struct {
	// Index is the record's position in the fixture, in source order
	Index int
	// Group identifies the logical group the record belongs to, such as a quiz tier. Records of a flat fixture share
	// the empty group.
	Group string
	// Address is the target address. Auto addresses receive a store allocated id.
	Address  model.Address
	Document model.Document
}

// Mapper maps a fixture onto target addresses
type Mapper interface {
	Map(f *Fixture) ([]Record, error)
}

// MapperFunc adapts a function to a Mapper
type MapperFunc func(f *Fixture) ([]Record, error)

// Map calls fn
func (fn MapperFunc) Map(f *Fixture) ([]Record, error) {
	return fn(f)
}

// MapFunc maps a single fixture entry to an address and document
type MapFunc func(entry Entry) (model.Address, model.Document, error)

// EntriesMapper returns a mapper that applies fn to every element (array) or member (object) at the gjson path, in source
// order. An empty path is the fixture root.
func EntriesMapper(path string, fn MapFunc) Mapper {
	return MapperFunc(func(f *Fixture) ([]Record, error) {
		entries, err := Entries(f.Get(path), path)
		if err != nil {
			return nil, err
		}
		records := make([]Record, 0, len(entries))
		for _, entry := range entries {
			address, doc, err := fn(entry)
			if err != nil {
				return nil, err
			}
			if err := address.Validate(); err != nil {
				return nil, errors.Wrap(err, 0, "record %d", entry.Index)
			}
			if !address.IsDocument() {
				return nil, errors.New(errors.Validation, "record %d maps to collection %s", entry.Index, address.String())
			}
			records = append(records, Record{
				Index:    len(records),
				Address:  address,
				Document: doc,
			})
		}
		return records, nil
	})
}

// FlatList maps a json array of objects into the collection, assigning every record a store allocated id
func FlatList(collection model.Address, path string) Mapper {
	return EntriesMapper(path, func(entry Entry) (model.Address, model.Document, error) {
		if entry.Key != "" {
			return model.Address{}, nil, errors.New(errors.FixtureParse, "%s is not an array", pathLabel(path))
		}
		doc, err := entry.Document()
		if err != nil {
			return model.Address{}, nil, err
		}
		return collection.NewDoc(), doc, nil
	})
}

// NestedOpts configures a Nested mapper
type NestedOpts struct {
	// Root is the collection holding one document per group
	Root model.Address
	// GroupsPath is the gjson path of the object whose keys are group ids
	GroupsPath string
	// LeafPath is the gjson path, relative to a group, of the object whose keys are leaf ids
	LeafPath string
	// SubCollection is the collection, inside each group document, that holds the leaves
	SubCollection string
}

// Nested maps a group id -> leaf id -> fields fixture onto Root/{group}/SubCollection/{leaf}. Ids are taken from the
// fixture keys and records are returned in source order.
func Nested(opts NestedOpts) Mapper {
	return MapperFunc(func(f *Fixture) ([]Record, error) {
		groups, err := Entries(f.Get(opts.GroupsPath), opts.GroupsPath)
		if err != nil {
			return nil, err
		}
		var records []Record
		for _, group := range groups {
			if group.Key == "" {
				return nil, errors.New(errors.FixtureParse, "%s is not an object", pathLabel(opts.GroupsPath))
			}
			leafValue, leafPath := group.Value, group.Key
			if opts.LeafPath != "" {
				leafValue, leafPath = group.Value.Get(opts.LeafPath), group.Key+"."+opts.LeafPath
			}
			leaves, err := Entries(leafValue, leafPath)
			if err != nil {
				return nil, err
			}
			for _, leaf := range leaves {
				if leaf.Key == "" {
					return nil, errors.New(errors.FixtureParse, "%s is not an object", leafPath)
				}
				doc, err := leaf.Document()
				if err != nil {
					return nil, err
				}
				address := opts.Root.Doc(group.Key).Collection(opts.SubCollection).Doc(leaf.Key)
				if err := address.Validate(); err != nil {
					return nil, errors.Wrap(err, errors.FixtureParse, "")
				}
				records = append(records, Record{
					Index:    len(records),
					Group:    group.Key,
					Address:  address,
					Document: doc,
				})
			}
		}
		return records, nil
	})
}

// Template maps every entry at path through a text/template (with sprig functions) that renders its address. The
// template sees the entry's fields plus `_key` and `_index`. A rendered collection address receives an auto id.
func Template(addressTemplate string, path string) (Mapper, error) {
	tmpl, err := template.New("address").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(addressTemplate)
	if err != nil {
		return nil, errors.Wrap(err, errors.Validation, "invalid address template")
	}
	return EntriesMapper(path, func(entry Entry) (model.Address, model.Document, error) {
		doc, err := entry.Document()
		if err != nil {
			return model.Address{}, nil, err
		}
		data := doc.Clone()
		data["_key"] = entry.Key
		data["_index"] = entry.Index
		buf := bytes.NewBuffer(nil)
		if err := tmpl.Execute(buf, map[string]any(data)); err != nil {
			return model.Address{}, nil, errors.Wrap(err, errors.FixtureParse, "failed to render address of entry %s", entry.label())
		}
		address, err := model.ParseAddress(buf.String())
		if err != nil {
			return model.Address{}, nil, err
		}
		if address.IsCollection() {
			address = address.NewDoc()
		}
		return address, doc, nil
	}), nil
}
