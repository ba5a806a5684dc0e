package benchmarks

import (
	"context"
	"testing"

	"github.com/autom8ter/docseed"
	"github.com/autom8ter/docseed/kv/badger"
	"github.com/autom8ter/docseed/store"
	"github.com/autom8ter/docseed/store/kvstore"
	"github.com/autom8ter/docseed/testutil"
)

// badgerStore opens an in-memory badger backed store that is closed when the benchmark ends
func badgerStore(b *testing.B) store.Store {
	db, err := badger.Open("")
	if err != nil {
		b.Fatal(err)
	}
	s := kvstore.New(db)
	b.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// careersFixture returns a flat fixture of n random careers
func careersFixture(b *testing.B, n int) *docseed.Fixture {
	f, err := docseed.ParseFixture(testutil.JSON(b, testutil.NewCareers(n)))
	if err != nil {
		b.Fatal(err)
	}
	return f
}

// quizzesFixture returns a nested fixture of tiers with questionsPerTier questions each
func quizzesFixture(b *testing.B, tiers, questionsPerTier int) *docseed.Fixture {
	counts := make([]int, tiers)
	for i := range counts {
		counts[i] = questionsPerTier
	}
	f, err := docseed.ParseFixture(testutil.JSON(b, testutil.NewQuizzes(counts...)))
	if err != nil {
		b.Fatal(err)
	}
	return f
}

func run(ctx context.Context, b *testing.B, s store.Store, job docseed.Job) {
	if _, err := docseed.New(s).Run(ctx, job); err != nil {
		b.Fatal(err)
	}
}
