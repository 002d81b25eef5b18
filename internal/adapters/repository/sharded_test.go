package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	repository "github.com/okian/nyusatsu/internal/adapters/repository"
	record "github.com/okian/nyusatsu/internal/domain/record"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(caseID int64, reason string) record.Record {
	return record.Record{CaseID: caseID, EligibilityReason: reason}
}

func TestShardedStore(t *testing.T) {
	Convey("Given an empty sharded store", t, func() {
		ctx := context.Background()
		s := repository.NewShardedStore(repository.WithShardCount(4))

		Convey("When a record is saved", func() {
			created, err := s.Save(ctx, rec(1001, "first"))

			Convey("Then it is created and retrievable", func() {
				So(err, ShouldBeNil)
				So(created, ShouldBeTrue)
				got, err := s.Get(ctx, 1001)
				So(err, ShouldBeNil)
				So(got.EligibilityReason, ShouldEqual, "first")
				So(s.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the same case is saved twice", func() {
			_, _ = s.Save(ctx, rec(1001, "first"))
			created, err := s.Save(ctx, rec(1001, "second"))

			Convey("Then the record is replaced, not duplicated", func() {
				So(err, ShouldBeNil)
				So(created, ShouldBeFalse)
				got, _ := s.Get(ctx, 1001)
				So(got.EligibilityReason, ShouldEqual, "second")
				So(s.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When an unknown case is requested", func() {
			_, err := s.Get(ctx, 42)

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When records are saved out of order", func() {
			for _, id := range []int64{30, 10, 20, 5, 40} {
				_, _ = s.Save(ctx, rec(id, ""))
			}

			Convey("Then All returns them sorted by case id", func() {
				all := s.All(ctx)
				ids := make([]int64, len(all))
				for i, r := range all {
					ids[i] = r.CaseID
				}
				So(ids, ShouldResemble, []int64{5, 10, 20, 30, 40})
			})
		})

		Convey("When workers save concurrently", func() {
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						_, _ = s.Save(ctx, rec(int64(g*100+i), ""))
					}
				}(g)
			}
			wg.Wait()

			Convey("Then every case is stored once", func() {
				So(s.Count(ctx), ShouldEqual, 800)
				So(s.All(ctx), ShouldHaveLength, 800)
			})
		})
	})

	Convey("Given a store with the default shard count", t, func() {
		s := repository.NewShardedStore(repository.WithShardCount(0))

		Convey("Then it still accepts records", func() {
			_, err := s.Save(context.Background(), rec(-1, ""))
			So(err, ShouldBeNil)
			So(s.Count(context.Background()), ShouldEqual, 1)
		})
	})
}
