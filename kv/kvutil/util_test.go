package kvutil_test

import (
	"bytes"
	"testing"

	"github.com/autom8ter/docseed/kv/kvutil"
	"github.com/autom8ter/docseed/model"
	"github.com/stretchr/testify/assert"
)

func TestKVUtil(t *testing.T) {
	t.Run("next prefix", func(t *testing.T) {
		const input = "hello"
		next := kvutil.NextPrefix([]byte(input))
		assert.Equal(t, 1, bytes.Compare(next, []byte(input)))
	})
	t.Run("document key", func(t *testing.T) {
		addr := model.Collection("quizzes").Doc("tier1").Collection("questions").Doc("q1")
		assert.Equal(t, "docs/quizzes/tier1/questions/q1", string(kvutil.DocumentKey(addr)))
	})
	t.Run("direct children only", func(t *testing.T) {
		col := model.Collection("quizzes")
		child, ok := kvutil.ChildAddress(col, []byte("docs/quizzes/tier1"))
		assert.True(t, ok)
		assert.Equal(t, "quizzes/tier1", child.String())

		_, ok = kvutil.ChildAddress(col, []byte("docs/quizzes/tier1/questions/q1"))
		assert.False(t, ok)
		_, ok = kvutil.ChildAddress(col, []byte("docs/quizzesx/tier1"))
		assert.False(t, ok)
	})
}
