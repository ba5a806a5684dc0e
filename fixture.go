package docseed

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/autom8ter/docseed/errors"
	"github.com/autom8ter/docseed/model"
	"github.com/tidwall/gjson"
)

// Fixture is a parsed, read-only json fixture
type Fixture struct {
	// Source is the path the fixture was loaded from, if any
	Source string
	result gjson.Result
}

// LoadFixture reads and parses the json file at path. It fails with FixtureNotFound if the file cannot be read and
// FixtureParse if the content is not valid json.
func LoadFixture(path string) (*Fixture, error) {
	bits, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(err, errors.FixtureNotFound, "fixture %s does not exist", path)
		}
		return nil, errors.Wrap(err, errors.FixtureNotFound, "failed to read fixture %s", path)
	}
	f, err := ParseFixture(bits)
	if err != nil {
		return nil, errors.Wrap(err, 0, "fixture %s", path)
	}
	f.Source = path
	return f, nil
}

// ParseFixture parses an in-memory json fixture
func ParseFixture(bits []byte) (*Fixture, error) {
	if !gjson.ValidBytes(bits) {
		return nil, errors.New(errors.FixtureParse, "invalid json")
	}
	return &Fixture{result: gjson.ParseBytes(bits)}, nil
}

// Get returns the value at the gjson path. An empty path returns the root value.
func (f *Fixture) Get(path string) gjson.Result {
	if path == "" {
		return f.result
	}
	return f.result.Get(path)
}

// Raw returns the fixture's json
func (f *Fixture) Raw() string {
	return f.result.Raw
}

// Entry is a single value of a fixture container along with its key (objects) or position (arrays)
type Entry struct {
	Key   string
	Index int
	Value gjson.Result
}

// Document decodes the entry's value as a document. Non-object values fail with FixtureParse.
func (e Entry) Document() (model.Document, error) {
	if !e.Value.IsObject() {
		return nil, errors.New(errors.FixtureParse, "entry %s is not a json object", e.label())
	}
	doc, err := model.NewDocumentFromBytes([]byte(e.Value.Raw))
	if err != nil {
		return nil, errors.Wrap(err, errors.FixtureParse, "entry %s", e.label())
	}
	return doc, nil
}

func (e Entry) label() string {
	if e.Key != "" {
		return e.Key
	}
	return "#" + strconv.Itoa(e.Index)
}

// Entries returns the elements of an array or the members of an object, in source order
func Entries(value gjson.Result, path string) ([]Entry, error) {
	if !value.Exists() {
		return nil, errors.New(errors.FixtureParse, "%s does not exist", pathLabel(path))
	}
	if !value.IsArray() && !value.IsObject() {
		return nil, errors.New(errors.FixtureParse, "%s is not an array or object", pathLabel(path))
	}
	var (
		entries []Entry
		i       int
	)
	value.ForEach(func(key, val gjson.Result) bool {
		entry := Entry{Index: i, Value: val}
		if value.IsObject() {
			entry.Key = key.String()
		}
		entries = append(entries, entry)
		i++
		return true
	})
	return entries, nil
}

func pathLabel(path string) string {
	if path == "" {
		return "fixture root"
	}
	return path
}
