package samplerows

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okian/nyusatsu/internal/domain/qualification"
	"github.com/okian/nyusatsu/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

func TestQualificationText(t *testing.T) {
	convey.Convey("Given the qualification patterns", t, func() {
		parser := qualification.NewParser()
		want := map[string][]qualification.Kind{
			PatternUnified:         {qualification.KindUnified},
			PatternRegionalBureau:  {qualification.KindRegionalBureau},
			PatternLocalGovernment: {qualification.KindLocalGovernment},
			PatternMinistry:        {qualification.KindMinistry},
			PatternIndustry:        {qualification.KindIndustrySpecific},
			PatternNoQualification: {qualification.KindNoQualificationRequired},
			PatternUnknown:         {qualification.KindUnknown},
			PatternBlank:           {},
			PatternCombined:        {qualification.KindUnified, qualification.KindIndustrySpecific},
		}

		convey.Convey("Then each generated clause parses as its rule family", func() {
			for _, pattern := range Patterns {
				for i := 0; i < 20; i++ {
					reqs := parser.Parse(qualificationText(pattern))
					kinds := make([]qualification.Kind, 0, len(reqs))
					for _, r := range reqs {
						kinds = append(kinds, r.Kind)
					}
					convey.So(kinds, convey.ShouldResemble, want[pattern])
				}
			}
		})
	})
}

func TestGenerateSingleRow(t *testing.T) {
	convey.Convey("Given a configuration without duplicates or missing ids", t, func() {
		config := &Config{FirstCaseID: 500}
		printer := message.NewPrinter(language.Japanese)

		convey.Convey("When a row is generated", func() {
			row := generateSingleRow(config, printer, 7)

			convey.Convey("Then it fills the export layout", func() {
				convey.So(row.Cells, convey.ShouldHaveLength, len(Header))
				convey.So(row.Cells[colCaseID], convey.ShouldEqual, "507")
				convey.So(row.Cells[colCaseName], convey.ShouldNotBeEmpty)
				convey.So(row.Cells[colPlannedPrice], convey.ShouldNotBeEmpty)
				convey.So(Patterns, convey.ShouldContain, row.Pattern)
			})
		})
	})

	convey.Convey("Given a configuration where every row is a duplicate", t, func() {
		config := &Config{FirstCaseID: 500, DuplicateRate: 1.1}
		printer := message.NewPrinter(language.Japanese)

		convey.Convey("Then later rows reuse an earlier case id", func() {
			for i := 1; i < 30; i++ {
				id, err := strconv.Atoi(generateSingleRow(config, printer, i).Cells[colCaseID])
				convey.So(err, convey.ShouldBeNil)
				convey.So(id, convey.ShouldBeBetweenOrEqual, 500, 500+i-1)
			}
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a generation run", t, func() {
		dir := t.TempDir()
		ctx := context.Background()

		convey.Convey("When a Shift_JIS CSV is generated and verified", func() {
			config := &Config{
				NumRows:       250,
				Workers:       4,
				DuplicateRate: 0.1,
				MissingRate:   0.05,
				Output:        filepath.Join(dir, "rows.csv"),
				Encoding:      EncodingShiftJIS,
				Verify:        true,
			}
			stats, err := Run(ctx, config)

			convey.Convey("Then the statistics add up", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(stats.RowsGenerated, convey.ShouldEqual, 250)
				total := 0
				for _, n := range stats.ByPattern {
					total += n
				}
				convey.So(total, convey.ShouldEqual, 250)
				convey.So(stats.Duplicates+stats.MissingIDs, convey.ShouldBeLessThan, 250)
				convey.So(config.FirstCaseID, convey.ShouldEqual, DefaultFirstCaseID)
			})
		})

		convey.Convey("When a workbook is generated and verified", func() {
			_, err := Run(ctx, &Config{NumRows: 40, Workers: 3, Output: filepath.Join(dir, "rows.xlsx"), Verify: true})

			convey.Convey("Then it succeeds", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When no rows are requested", func() {
			_, err := Run(ctx, &Config{Output: filepath.Join(dir, "none.csv")})

			convey.Convey("Then it is rejected", func() {
				convey.So(errors.Is(err, ErrNoRows), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the output extension is unknown", func() {
			_, err := Run(ctx, &Config{NumRows: 5, Output: filepath.Join(dir, "rows.pdf")})

			convey.Convey("Then writing fails", func() {
				convey.So(errors.Is(err, ErrUnsupportedOutput), convey.ShouldBeTrue)
			})
		})
	})
}
