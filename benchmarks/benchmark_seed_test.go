package benchmarks

import (
	"context"
	"testing"

	"github.com/autom8ter/docseed"
	"github.com/autom8ter/docseed/model"
	"github.com/autom8ter/docseed/store"
	"github.com/autom8ter/docseed/store/memstore"
)

var (
	careers = model.Collection("careers")
	quizzes = model.Collection("quizzes")
)

func BenchmarkFlatBatch100(b *testing.B) {
	ctx := context.Background()
	job := docseed.Job{
		Name:     "careers",
		Fixture:  careersFixture(b, 100),
		Mapper:   docseed.FlatList(careers, ""),
		Enricher: docseed.ServerTimestamps("createdAt"),
	}
	for name, s := range map[string]store.Store{"memory": memstore.New(), "badger": badgerStore(b)} {
		s := s
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				run(ctx, b, s, job)
			}
		})
	}
}

func BenchmarkNestedSequential(b *testing.B) {
	ctx := context.Background()
	job := docseed.Job{
		Name:    "quizzes",
		Fixture: quizzesFixture(b, 5, 20),
		Mapper: docseed.Nested(docseed.NestedOpts{
			Root:          quizzes,
			GroupsPath:    "quizzes",
			LeafPath:      "questions",
			SubCollection: "questions",
		}),
		Enricher: docseed.Pick("question", "options"),
		Mode:     docseed.WriteSequential,
	}
	for name, s := range map[string]store.Store{"memory": memstore.New(), "badger": badgerStore(b)} {
		s := s
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				run(ctx, b, s, job)
			}
		})
	}
}

func BenchmarkClearThenSeed(b *testing.B) {
	ctx := context.Background()
	s := badgerStore(b)
	job := docseed.Job{
		Name:    "careers",
		Fixture: careersFixture(b, 100),
		Mapper:  docseed.FlatList(careers, ""),
		Clear:   careers,
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		run(ctx, b, s, job)
	}
}
