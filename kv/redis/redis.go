package redis

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/autom8ter/docseed/errors"
	"github.com/autom8ter/docseed/kv"
	"github.com/autom8ter/docseed/store/kvstore"
	"github.com/go-redis/redis/v9"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

func init() {
	kvstore.Register("redis", func(ctx context.Context, params map[string]any) (kv.DB, error) {
		if params["addr"] == nil {
			return nil, errors.New(errors.Validation, "'addr' is a required paramater")
		}
		return Open(ctx, &redis.Options{
			Addr:     cast.ToString(params["addr"]),
			Username: cast.ToString(params["username"]),
			Password: cast.ToString(params["password"]),
			DB:       cast.ToInt(params["db"]),
		})
	})
}

const scanCount = 500

type redisKV struct {
	client *redis.Client
}

// Open connects to a redis server and verifies the connection
func Open(ctx context.Context, opts *redis.Options) (kv.DB, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &redisKV{client: client}, nil
}

// Tx reads directly from the server and buffers writes, which are applied together in a MULTI/EXEC block
func (r *redisKV) Tx(ctx context.Context, isUpdate bool, fn func(kv.Tx) error) error {
	tx := &redisTx{
		client:   r.client,
		readOnly: !isUpdate,
		writes:   map[string][]byte{},
	}
	if err := fn(tx); err != nil {
		return err
	}
	if !isUpdate || len(tx.order) == 0 {
		return nil
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range tx.order {
			value := tx.writes[key]
			if value == nil {
				pipe.Del(ctx, key)
				continue
			}
			pipe.Set(ctx, key, value, 0)
		}
		return nil
	})
	return err
}

func (r *redisKV) Close() error {
	return r.client.Close()
}

type redisTx struct {
	client   *redis.Client
	readOnly bool
	// a nil value marks a delete
	writes map[string][]byte
	order  []string
}

func (t *redisTx) Get(ctx context.Context, key []byte) ([]byte, error) {
	if value, ok := t.writes[string(key)]; ok {
		return value, nil
	}
	value, err := t.client.Get(ctx, string(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return value, nil
}

func (t *redisTx) Set(ctx context.Context, key, value []byte) error {
	if t.readOnly {
		return errors.New(errors.Internal, "writes forbidden in read-only transaction")
	}
	if value == nil {
		value = []byte{}
	}
	t.write(string(key), value)
	return nil
}

func (t *redisTx) Delete(ctx context.Context, key []byte) error {
	if t.readOnly {
		return errors.New(errors.Internal, "writes forbidden in read-only transaction")
	}
	t.write(string(key), nil)
	return nil
}

func (t *redisTx) write(key string, value []byte) {
	if _, ok := t.writes[key]; !ok {
		t.order = append(t.order, key)
	}
	t.writes[key] = value
}

// Now returns the redis server's clock
func (t *redisTx) Now(ctx context.Context) (time.Time, error) {
	now, err := t.client.Time(ctx).Result()
	if err != nil {
		return time.Time{}, err
	}
	return now.UTC(), nil
}

// NewIterator scans the matching keys up front and merges them with the transaction's pending writes
func (t *redisTx) NewIterator(ctx context.Context, opts kv.IterOpts) (kv.Iterator, error) {
	var (
		keys   []string
		cursor uint64
	)
	match := globEscaper.Replace(string(opts.Prefix)) + "*"
	for {
		page, next, err := t.client.Scan(ctx, cursor, match, scanCount).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, page...)
		if next == 0 {
			break
		}
		cursor = next
	}
	for key, value := range t.writes {
		if value != nil && strings.HasPrefix(key, string(opts.Prefix)) {
			keys = append(keys, key)
		}
	}
	keys = lo.Filter(lo.Uniq(keys), func(key string, _ int) bool {
		value, pending := t.writes[key]
		if pending && value == nil {
			return false
		}
		return opts.Seek == nil || key >= string(opts.Seek)
	})
	sort.Strings(keys)
	return &redisIterator{ctx: ctx, tx: t, keys: keys}, nil
}

var globEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)

type redisIterator struct {
	ctx  context.Context
	tx   *redisTx
	keys []string
	pos  int
}

func (r *redisIterator) Valid() bool {
	return r.pos < len(r.keys)
}

func (r *redisIterator) Key() []byte {
	return []byte(r.keys[r.pos])
}

func (r *redisIterator) Value() ([]byte, error) {
	return r.tx.Get(r.ctx, r.Key())
}

func (r *redisIterator) Next() error {
	r.pos++
	return nil
}

func (r *redisIterator) Close() {}
