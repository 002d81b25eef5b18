package service_test

import (
	"context"
	"errors"
	"io"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	service "github.com/okian/nyusatsu/internal/app"
	"github.com/okian/nyusatsu/internal/domain/model"
	"github.com/okian/nyusatsu/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

var fixedNow = time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)

func row(line int, values map[string]any) model.Row {
	return model.Row{Source: "cases.csv", Line: line, Values: values}
}

func sampleRows() []model.Row {
	return []model.Row{
		row(2, map[string]any{
			model.FieldCaseID:            "1001",
			model.FieldCaseName:          "庁舎清掃業務",
			model.FieldQualificationText: "全省庁統一資格 役務の提供 D",
		}),
		row(3, map[string]any{
			model.FieldCaseID:            "1002",
			model.FieldQualificationText: "全省庁統一資格 物品の製造 A",
		}),
		row(4, map[string]any{
			model.FieldCaseID:            "1001",
			model.FieldQualificationText: "全省庁統一資格 物品の製造 A",
		}),
		row(5, map[string]any{
			model.FieldCaseName: "番号なし",
		}),
		row(6, map[string]any{
			model.FieldCaseID: "abc",
		}),
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should be created", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50_000),
			service.WithDedupeSize(25_000),
			service.WithShardCount(2),
			service.WithClock(func() time.Time { return fixedNow }),
			service.WithLogger(logger.Discard()),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_Run(t *testing.T) {
	Convey("Given a service with a fixed clock", t, func() {
		svc := service.New(
			service.WithWorkerCount(3),
			service.WithQueueSize(2),
			service.WithClock(func() time.Time { return fixedNow }),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When a batch with duplicates and bad rows is run", func() {
			stats, err := svc.Run(ctx, sampleRows())

			Convey("Then every row is accounted for", func() {
				So(err, ShouldBeNil)
				So(stats.RunID, ShouldNotBeEmpty)
				So(stats.Rows, ShouldEqual, 5)
				So(stats.Duplicates, ShouldEqual, 1)
				So(stats.Submitted, ShouldEqual, 4)
				So(stats.Processed, ShouldEqual, int64(4))
				So(stats.Saved, ShouldEqual, int64(2))
				So(stats.Skipped, ShouldEqual, int64(1))
				So(stats.Invalid, ShouldEqual, int64(1))
				So(stats.Failed, ShouldEqual, int64(0))
			})

			Convey("Then the first occurrence of a case wins", func() {
				So(stats.Stored, ShouldEqual, 2)
				So(stats.Records[0].CaseID, ShouldEqual, int64(1001))
				So(stats.Records[0].IsEligibleToBid, ShouldBeTrue)
				So(stats.Records[1].CaseID, ShouldEqual, int64(1002))
				So(stats.Records[1].IsEligibleToBid, ShouldBeFalse)
				So(stats.Eligible, ShouldEqual, int64(1))
				So(stats.Ineligible, ShouldEqual, int64(1))
			})

			Convey("Then records are stamped by the service clock", func() {
				for _, rec := range stats.Records {
					So(rec.ProcessedAt, ShouldNotBeNil)
					So(rec.ProcessedAt.Equal(fixedNow), ShouldBeTrue)
				}
				So(stats.Duration, ShouldEqual, time.Duration(0))
			})
		})

		Convey("When two batches are run", func() {
			first, err := svc.Run(ctx, sampleRows())
			So(err, ShouldBeNil)
			second, err := svc.Run(ctx, sampleRows())
			So(err, ShouldBeNil)

			Convey("Then each gets its own run id and state", func() {
				So(second.RunID, ShouldNotEqual, first.RunID)
				So(second.Duplicates, ShouldEqual, 1)
				So(second.Stored, ShouldEqual, 2)
			})
		})

		Convey("When an empty batch is run", func() {
			stats, err := svc.Run(ctx, nil)

			Convey("Then nothing is stored", func() {
				So(err, ShouldBeNil)
				So(stats.Stored, ShouldEqual, 0)
				So(stats.Records, ShouldBeEmpty)
			})
		})
	})

	Convey("Given case ids that differ only by leading zeros", t, func() {
		svc := service.New(
			service.WithWorkerCount(4),
			service.WithLogger(logger.Discard()),
			service.WithClock(func() time.Time { return fixedNow }),
		)
		rows := []model.Row{
			row(2, map[string]any{
				model.FieldCaseID:            "1001",
				model.FieldQualificationText: "全省庁統一資格 役務の提供 D",
			}),
			row(3, map[string]any{
				model.FieldCaseID:            "01001",
				model.FieldQualificationText: "全省庁統一資格 物品の製造 A",
			}),
		}

		Convey("When the batch is run", func() {
			stats, err := svc.Run(context.Background(), rows)

			Convey("Then the later row is a duplicate and the first one is kept", func() {
				So(err, ShouldBeNil)
				So(stats.Duplicates, ShouldEqual, 1)
				So(stats.Stored, ShouldEqual, 1)
				So(stats.Records[0].CaseID, ShouldEqual, int64(1001))
				So(stats.Records[0].IsEligibleToBid, ShouldBeTrue)
			})
		})
	})

	Convey("Given a canceled context", t, func() {
		svc := service.New(service.WithLogger(logger.Discard()))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("When a batch is run", func() {
			_, err := svc.Run(ctx, sampleRows())

			Convey("Then the cancellation is reported", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})

	Convey("Given a batch canceled after its first record is stamped", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		var calls atomic.Int64
		svc := service.New(
			service.WithWorkerCount(1),
			service.WithQueueSize(1),
			service.WithLogger(logger.Discard()),
			service.WithClock(func() time.Time {
				// Call 1 is the batch start, call 2 the first worker stamp.
				if calls.Add(1) == 2 {
					cancel()
				}
				return fixedNow
			}),
		)
		rows := make([]model.Row, 200)
		for i := range rows {
			rows[i] = row(i+2, map[string]any{
				model.FieldCaseID:            strconv.Itoa(5000 + i),
				model.FieldQualificationText: "資格不要",
			})
		}

		Convey("When the batch is run", func() {
			stats, err := svc.Run(ctx, rows)

			Convey("Then the workers stop without draining the remaining rows", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(stats.Stored, ShouldBeGreaterThanOrEqualTo, 1)
				So(stats.Stored, ShouldBeLessThan, len(rows))
				So(stats.Processed, ShouldBeLessThanOrEqualTo, int64(stats.Submitted))
			})
		})
	})
}
