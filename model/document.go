package model

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/autom8ter/docseed/errors"
	"github.com/samber/lo"
)

// Document is the set of fields written to a single document address. Values are JSON compatible, plus time.Time
// for store-native timestamps and ServerTimestamp for timestamps assigned by the store's clock.
type Document map[string]any

type serverTimestamp struct{}

// MarshalJSON encodes the sentinel as null so that stores can overwrite it after encoding
func (serverTimestamp) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// ServerTimestamp is a field value that the store replaces with its own clock when the write is applied
var ServerTimestamp any = serverTimestamp{}

// IsServerTimestamp returns true if the value is the ServerTimestamp sentinel
func IsServerTimestamp(value any) bool {
	_, ok := value.(serverTimestamp)
	return ok
}

// NewDocumentFromBytes decodes a json object into a document. Integral numbers that fit in 64 bits decode as int64
// and every other number decodes as float64.
func NewDocumentFromBytes(bits []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(bits))
	dec.UseNumber()
	var d Document
	if err := dec.Decode(&d); err != nil {
		return nil, errors.Wrap(err, errors.Validation, "invalid document")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New(errors.Validation, "invalid document: trailing data after json object")
	}
	if d == nil {
		return nil, errors.New(errors.Validation, "invalid document: expected a json object")
	}
	if err := normalizeNumbers(d); err != nil {
		return nil, err
	}
	return d, nil
}

func normalizeNumbers(m map[string]any) error {
	for k, v := range m {
		n, err := normalizeNumber(v)
		if err != nil {
			return err
		}
		m[k] = n
	}
	return nil
}

func normalizeNumber(v any) (any, error) {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil || math.IsInf(f, 0) {
			return nil, errors.New(errors.Validation, "invalid document: number %s is out of range", v.String())
		}
		return f, nil
	case map[string]any:
		return v, normalizeNumbers(v)
	case []any:
		for i, e := range v {
			n, err := normalizeNumber(e)
			if err != nil {
				return nil, err
			}
			v[i] = n
		}
		return v, nil
	default:
		return v, nil
	}
}

// Clone deep copies the document's maps and slices
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(cloneMap(d))
}

// Keys returns the top level field names in sorted order
func (d Document) Keys() []string {
	keys := lo.Keys(d)
	sort.Strings(keys)
	return keys
}

// Bytes encodes the document as json. ServerTimestamp fields are encoded as null.
func (d Document) Bytes() ([]byte, error) {
	bits, err := json.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(err, errors.Validation, "failed to json encode document")
	}
	return bits, nil
}

// ServerTimestampPaths returns the sjson/gjson paths of every field holding the ServerTimestamp sentinel, sorted
func (d Document) ServerTimestampPaths() []string {
	return d.paths(IsServerTimestamp)
}

// TimestampPaths returns the paths of every field holding a time.Time or the ServerTimestamp sentinel, sorted
func (d Document) TimestampPaths() []string {
	return d.paths(func(value any) bool {
		if IsServerTimestamp(value) {
			return true
		}
		_, ok := value.(time.Time)
		return ok
	})
}

// ResolveServerTimestamps returns a copy of the document with every ServerTimestamp sentinel replaced by now
func (d Document) ResolveServerTimestamps(now time.Time) Document {
	return Document(resolveMap(d, now))
}

// SetPath sets a possibly nested field addressed by an escaped dotted path, creating intermediate objects.
// A numeric segment below an array addresses an element of that array.
func (d Document) SetPath(path string, value any) {
	keys := splitPath(path)
	d[keys[0]] = setPath(d[keys[0]], keys[1:], value)
}

func setPath(current any, keys []string, value any) any {
	if len(keys) == 0 {
		return value
	}
	key := keys[0]
	switch c := current.(type) {
	case map[string]any:
		c[key] = setPath(c[key], keys[1:], value)
		return c
	case Document:
		c[key] = setPath(c[key], keys[1:], value)
		return c
	case []any:
		if i, err := strconv.Atoi(key); err == nil && i >= 0 {
			for len(c) <= i {
				c = append(c, nil)
			}
			c[i] = setPath(c[i], keys[1:], value)
			return c
		}
	}
	return map[string]any{key: setPath(nil, keys[1:], value)}
}

func (d Document) paths(match func(value any) bool) []string {
	var paths []string
	collectPaths(d, "", match, &paths)
	sort.Strings(paths)
	return paths
}

func collectPaths(m map[string]any, prefix string, match func(value any) bool, paths *[]string) {
	for k, v := range m {
		path := EscapePathKey(k)
		if prefix != "" {
			path = prefix + "." + path
		}
		collectValuePaths(v, path, match, paths)
	}
}

// array elements are addressed by index, as gjson and sjson do
func collectValuePaths(v any, path string, match func(value any) bool, paths *[]string) {
	if match(v) {
		*paths = append(*paths, path)
		return
	}
	switch v := v.(type) {
	case map[string]any:
		collectPaths(v, path, match, paths)
	case Document:
		collectPaths(v, path, match, paths)
	case []any:
		for i, e := range v {
			collectValuePaths(e, path+"."+strconv.Itoa(i), match, paths)
		}
	}
}

func splitPath(path string) []string {
	var (
		keys    []string
		current strings.Builder
		escaped bool
	)
	for _, r := range path {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '.':
			keys = append(keys, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(keys, current.String())
}

// EscapePathKey escapes the characters gjson/sjson treat as path syntax in a single key
func EscapePathKey(key string) string {
	return pathEscaper.Replace(key)
}

var pathEscaper = strings.NewReplacer(`\`, `\\`, ".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneMap(v)
	case Document:
		return Document(cloneMap(v))
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func resolveValue(v any, now time.Time) any {
	switch v := v.(type) {
	case serverTimestamp:
		return now
	case map[string]any:
		return resolveMap(v, now)
	case Document:
		return Document(resolveMap(v, now))
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = resolveValue(e, now)
		}
		return out
	default:
		return v
	}
}

func resolveMap(m map[string]any, now time.Time) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = resolveValue(v, now)
	}
	return out
}
