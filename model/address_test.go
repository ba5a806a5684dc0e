package model_test

import (
	"testing"
	"time"

	"github.com/autom8ter/docseed/errors"
	"github.com/autom8ter/docseed/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	t.Run("collection", func(t *testing.T) {
		a := model.Collection("careers")
		assert.True(t, a.IsCollection())
		assert.False(t, a.IsDocument())
		assert.Equal(t, "careers", a.ID())
		assert.Equal(t, "careers", a.String())
		assert.NoError(t, a.Validate())
	})
	t.Run("nested document", func(t *testing.T) {
		a := model.Collection("quizzes").Doc("tier1").Collection("questions").Doc("q1")
		assert.True(t, a.IsDocument())
		assert.False(t, a.IsAuto())
		assert.Equal(t, "q1", a.ID())
		assert.Equal(t, "quizzes/tier1/questions/q1", a.String())
		assert.Equal(t, "quizzes/tier1/questions", a.Parent().String())
		assert.Equal(t, "quizzes/tier1", a.Parent().Parent().String())
	})
	t.Run("auto", func(t *testing.T) {
		a := model.Collection("careers").NewDoc()
		assert.True(t, a.IsAuto())
		assert.NoError(t, a.Validate())
		resolved := a.WithID("abc")
		assert.False(t, resolved.IsAuto())
		assert.Equal(t, "careers/abc", resolved.String())
		assert.Equal(t, "careers/", a.String())
	})
	t.Run("doc does not alias parent", func(t *testing.T) {
		col := model.Collection("a").Doc("b").Collection("c")
		x := col.Doc("x")
		y := col.Doc("y")
		assert.Equal(t, "a/b/c/x", x.String())
		assert.Equal(t, "a/b/c/y", y.String())
	})
	t.Run("parse", func(t *testing.T) {
		a, err := model.ParseAddress("/quizzes/tier1/questions/")
		require.NoError(t, err)
		assert.True(t, a.IsCollection())
		assert.True(t, a.Equal(model.Collection("quizzes").Doc("tier1").Collection("questions")))
	})
	t.Run("parse invalid", func(t *testing.T) {
		_, err := model.ParseAddress("")
		assert.True(t, errors.Is(err, errors.Validation))
		_, err = model.ParseAddress("quizzes//questions")
		assert.True(t, errors.Is(err, errors.Validation))
	})
	t.Run("segment with separator", func(t *testing.T) {
		err := model.Collection("careers").Doc("a/b").Validate()
		assert.True(t, errors.Is(err, errors.Validation))
	})
	t.Run("auto only in last position", func(t *testing.T) {
		err := model.Collection("quizzes").NewDoc().Collection("questions").Doc("q1").Validate()
		assert.True(t, errors.Is(err, errors.Validation))
	})
}

func TestDocument(t *testing.T) {
	doc := model.Document{
		"title": "Engineer",
		"meta": map[string]any{
			"updatedAt": model.ServerTimestamp,
			"tags":      []any{"a", "b"},
		},
		"createdAt": model.ServerTimestamp,
		"a.b":       model.ServerTimestamp,
	}
	t.Run("server timestamp paths", func(t *testing.T) {
		assert.Equal(t, []string{`a\.b`, "createdAt", "meta.updatedAt"}, doc.ServerTimestampPaths())
	})
	t.Run("resolve", func(t *testing.T) {
		now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		resolved := doc.ResolveServerTimestamps(now)
		assert.Equal(t, now, resolved["createdAt"])
		assert.Equal(t, now, resolved["meta"].(map[string]any)["updatedAt"])
		assert.True(t, model.IsServerTimestamp(doc["createdAt"]))
	})
	t.Run("clone", func(t *testing.T) {
		clone := doc.Clone()
		clone["meta"].(map[string]any)["tags"].([]any)[0] = "z"
		assert.Equal(t, "a", doc["meta"].(map[string]any)["tags"].([]any)[0])
	})
	t.Run("bytes", func(t *testing.T) {
		bits, err := model.Document{"createdAt": model.ServerTimestamp, "n": 1}.Bytes()
		require.NoError(t, err)
		assert.JSONEq(t, `{"createdAt": null, "n": 1}`, string(bits))
	})
	t.Run("from bytes", func(t *testing.T) {
		d, err := model.NewDocumentFromBytes([]byte(`{"question": "2+2?", "options": ["3", "4"]}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"options", "question"}, d.Keys())
		_, err = model.NewDocumentFromBytes([]byte(`[1,2]`))
		assert.True(t, errors.Is(err, errors.Validation))
		_, err = model.NewDocumentFromBytes([]byte(`{"a": 1} {"b": 2}`))
		assert.True(t, errors.Is(err, errors.Validation))
	})
	t.Run("from bytes keeps integers", func(t *testing.T) {
		d, err := model.NewDocumentFromBytes([]byte(`{
			"salary": 50000,
			"big": 9007199254740993,
			"ratio": 0.5,
			"huge": 18446744073709551616,
			"range": {"min": -3, "steps": [1, 2.5]}
		}`))
		require.NoError(t, err)
		assert.Equal(t, int64(50000), d["salary"])
		assert.Equal(t, int64(9007199254740993), d["big"])
		assert.Equal(t, 0.5, d["ratio"])
		assert.Equal(t, float64(18446744073709551616), d["huge"])
		assert.Equal(t, map[string]any{"min": int64(-3), "steps": []any{int64(1), 2.5}}, d["range"])
		_, err = model.NewDocumentFromBytes([]byte(`{"n": 1e400}`))
		assert.True(t, errors.Is(err, errors.Validation))
	})
}

func TestDocumentPaths(t *testing.T) {
	published := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	doc := model.Document{
		"publishDate": published,
		"createdAt":   model.ServerTimestamp,
		"title":       "Go",
		"meta": map[string]any{
			"seen.at": published,
		},
	}
	assert.Equal(t, []string{"createdAt", `meta.seen\.at`, "publishDate"}, doc.TimestampPaths())

	restored := model.Document{}
	for _, p := range doc.TimestampPaths() {
		restored.SetPath(p, published)
	}
	assert.Equal(t, published, restored["publishDate"])
	assert.Equal(t, published, restored["meta"].(map[string]any)["seen.at"])

	t.Run("arrays", func(t *testing.T) {
		doc := model.Document{
			"schedule": []any{
				published,
				"tbd",
				map[string]any{"at": published},
				[]any{model.ServerTimestamp},
			},
		}
		assert.Equal(t, []string{"schedule.0", "schedule.2.at", "schedule.3.0"}, doc.TimestampPaths())
		assert.Equal(t, []string{"schedule.3.0"}, doc.ServerTimestampPaths())

		restored := model.Document{"schedule": []any{"", "tbd", map[string]any{"at": ""}, []any{nil}}}
		for _, p := range doc.TimestampPaths() {
			restored.SetPath(p, published)
		}
		assert.Equal(t, model.Document{
			"schedule": []any{published, "tbd", map[string]any{"at": published}, []any{published}},
		}, restored)
	})
}
