package redis_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/autom8ter/docseed/kv"
	kvredis "github.com/autom8ter/docseed/kv/redis"
	"github.com/go-redis/redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR is not set")
	}
	ctx := context.Background()
	db, err := kvredis.Open(ctx, &redis.Options{Addr: addr})
	require.NoError(t, err)
	defer db.Close()
	prefix := fmt.Sprintf("docs/redis_test_%d/", os.Getpid())
	data := map[string]string{}
	for i := 0; i < 10; i++ {
		data[fmt.Sprintf("%s%d", prefix, i)] = fmt.Sprint(i)
	}
	t.Run("set", func(t *testing.T) {
		assert.Nil(t, db.Tx(ctx, true, func(tx kv.Tx) error {
			for k, v := range data {
				assert.Nil(t, tx.Set(ctx, []byte(k), []byte(v)))
			}
			return nil
		}))
	})
	t.Run("get", func(t *testing.T) {
		assert.Nil(t, db.Tx(ctx, false, func(tx kv.Tx) error {
			for k, v := range data {
				data, err := tx.Get(ctx, []byte(k))
				assert.NoError(t, err)
				assert.EqualValues(t, v, string(data))
			}
			return nil
		}))
	})
	t.Run("failed update applies nothing", func(t *testing.T) {
		key := prefix + "partial"
		assert.Error(t, db.Tx(ctx, true, func(tx kv.Tx) error {
			assert.NoError(t, tx.Set(ctx, []byte(key), []byte("x")))
			return fmt.Errorf("abort")
		}))
		assert.Nil(t, db.Tx(ctx, false, func(tx kv.Tx) error {
			val, err := tx.Get(ctx, []byte(key))
			assert.NoError(t, err)
			assert.Nil(t, val)
			return nil
		}))
	})
	t.Run("iterate", func(t *testing.T) {
		assert.Nil(t, db.Tx(ctx, false, func(tx kv.Tx) error {
			iter, err := tx.NewIterator(ctx, kv.IterOpts{Prefix: []byte(prefix)})
			assert.NoError(t, err)
			defer iter.Close()
			i := 0
			for iter.Valid() {
				i++
				assert.NoError(t, iter.Next())
			}
			assert.Equal(t, len(data), i)
			return nil
		}))
	})
	t.Run("cleanup", func(t *testing.T) {
		assert.Nil(t, db.Tx(ctx, true, func(tx kv.Tx) error {
			for k := range data {
				assert.NoError(t, tx.Delete(ctx, []byte(k)))
			}
			return nil
		}))
	})
}
