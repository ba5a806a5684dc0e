package firestore

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/autom8ter/docseed/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	published := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	out := toFirestore(model.Document{
		"publishDate": published,
		"createdAt":   model.ServerTimestamp,
		"meta": map[string]any{
			"updatedAt": model.ServerTimestamp,
		},
	})
	assert.Equal(t, published, out["publishDate"])
	assert.Equal(t, firestore.ServerTimestamp, out["createdAt"])
	assert.Equal(t, firestore.ServerTimestamp, out["meta"].(map[string]any)["updatedAt"])
}

func TestEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST is not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, "docseed-test")
	require.NoError(t, err)
	defer s.Close()
	col := model.Collection("docseed_test_careers")

	b := s.Batch()
	addr, err := b.Set(col.NewDoc(), model.Document{"title": "Engineer", "createdAt": model.ServerTimestamp})
	require.NoError(t, err)
	assert.False(t, addr.IsAuto())
	require.NoError(t, b.Commit(ctx))

	doc, err := s.Get(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, "Engineer", doc["title"])
	_, ok := doc["createdAt"].(time.Time)
	assert.True(t, ok)

	listed, err := s.List(ctx, col)
	require.NoError(t, err)
	clear := s.Batch()
	for _, a := range listed {
		require.NoError(t, clear.Delete(a))
	}
	require.NoError(t, clear.Commit(ctx))
}
