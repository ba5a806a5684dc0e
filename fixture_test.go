package docseed_test

import (
	"testing"

	"github.com/autom8ter/docseed"
	"github.com/autom8ter/docseed/errors"
	"github.com/autom8ter/docseed/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixture(t *testing.T) {
	t.Run("load", func(t *testing.T) {
		path := testutil.WriteFixture(t, "careers.json", testutil.CareersFixture())
		f, err := docseed.LoadFixture(path)
		require.NoError(t, err)
		assert.Equal(t, path, f.Source)
		assert.EqualValues(t, testutil.CareersCount, f.Get("#").Int())
		assert.Equal(t, "Software Engineer", f.Get("0.title").String())
	})
	t.Run("not found", func(t *testing.T) {
		_, err := docseed.LoadFixture("missing.json")
		assert.True(t, errors.Is(err, errors.FixtureNotFound))
		assert.Contains(t, err.Error(), "missing.json")
	})
	t.Run("parse error", func(t *testing.T) {
		path := testutil.WriteFixture(t, "broken.json", []byte(`{"quizzes": `))
		_, err := docseed.LoadFixture(path)
		assert.True(t, errors.Is(err, errors.FixtureParse))
		_, err = docseed.ParseFixture([]byte("not json"))
		assert.True(t, errors.Is(err, errors.FixtureParse))
	})
	t.Run("entries keep source order", func(t *testing.T) {
		f, err := docseed.ParseFixture([]byte(`{"z": {"n": 1}, "a": {"n": 2}, "m": {"n": 3}}`))
		require.NoError(t, err)
		entries, err := docseed.Entries(f.Get(""), "")
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "z", entries[0].Key)
		assert.Equal(t, "a", entries[1].Key)
		assert.Equal(t, "m", entries[2].Key)
		assert.Equal(t, 2, entries[2].Index)
	})
	t.Run("entries of a scalar", func(t *testing.T) {
		f, err := docseed.ParseFixture([]byte(`{"count": 3}`))
		require.NoError(t, err)
		_, err = docseed.Entries(f.Get("count"), "count")
		assert.True(t, errors.Is(err, errors.FixtureParse))
		_, err = docseed.Entries(f.Get("missing"), "missing")
		assert.True(t, errors.Is(err, errors.FixtureParse))
	})
	t.Run("entry document", func(t *testing.T) {
		f, err := docseed.ParseFixture([]byte(`[{"title": "a"}, "b"]`))
		require.NoError(t, err)
		entries, err := docseed.Entries(f.Get(""), "")
		require.NoError(t, err)
		doc, err := entries[0].Document()
		require.NoError(t, err)
		assert.Equal(t, "a", doc["title"])
		_, err = entries[1].Document()
		assert.True(t, errors.Is(err, errors.FixtureParse))
	})
}
