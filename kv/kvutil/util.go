package kvutil

import (
	"bytes"
	"strings"

	"github.com/autom8ter/docseed/model"
)

const documentKeyPrefix = "docs/"

// DocumentKey returns the key a document address is stored under
func DocumentKey(address model.Address) []byte {
	return []byte(documentKeyPrefix + address.String())
}

// ChildPrefix returns the key prefix shared by every document in a collection and its sub-collections
func ChildPrefix(collection model.Address) []byte {
	return []byte(documentKeyPrefix + collection.String() + "/")
}

// ChildAddress returns the address of a direct child document of the collection if the key belongs to one
func ChildAddress(collection model.Address, key []byte) (model.Address, bool) {
	prefix := ChildPrefix(collection)
	if !bytes.HasPrefix(key, prefix) {
		return model.Address{}, false
	}
	id := string(key[len(prefix):])
	if id == "" || strings.Contains(id, "/") {
		return model.Address{}, false
	}
	return collection.Doc(id), true
}

// NextPrefix returns a prefix that is lexicographically larger than the input prefix
func NextPrefix(prefix []byte) []byte {
	buf := make([]byte, len(prefix))
	copy(buf, prefix)
	var i int
	for i = len(prefix) - 1; i >= 0; i-- {
		buf[i]++
		if buf[i] != 0 {
			break
		}
	}
	if i == -1 {
		buf = make([]byte, 0)
	}
	return buf
}
