package normalize_test

import (
	"encoding/json"
	"testing"
	"time"

	normalize "github.com/okian/nyusatsu/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizePrice(t *testing.T) {
	Convey("Given price strings", t, func() {
		Convey("When the price has separators and a currency suffix", func() {
			v, ok := normalize.NormalizePrice("1,500,000円")

			Convey("Then the plain amount is returned", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 1500000.0)
			})
		})

		Convey("When the price uses the 万 multiplier", func() {
			v, ok := normalize.NormalizePrice("150万円")

			Convey("Then it is scaled by ten thousand", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 1500000.0)
			})
		})

		Convey("When the price uses the 千 multiplier and a yen sign", func() {
			v, ok := normalize.NormalizePrice("￥2.5千")

			Convey("Then it is scaled by one thousand", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 2500.0)
			})
		})

		Convey("When the digits are full-width", func() {
			v, ok := normalize.NormalizePrice("１２，０００円")

			Convey("Then they are folded before parsing", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 12000.0)
			})
		})

		Convey("When several numbers appear", func() {
			v, ok := normalize.NormalizePrice("予定価格 3,000円（税抜 2,700円）")

			Convey("Then the first one wins", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 3000.0)
			})
		})

		Convey("When the text is empty or has no digits", func() {
			_, okEmpty := normalize.NormalizePrice("")
			_, okText := normalize.NormalizePrice("非公表")

			Convey("Then the price is absent", func() {
				So(okEmpty, ShouldBeFalse)
				So(okText, ShouldBeFalse)
			})
		})
	})
}

func TestNormalizeDate(t *testing.T) {
	Convey("Given date strings", t, func() {
		want := normalize.Date{Year: 2024, Month: time.March, Day: 5}

		Convey("When slash and dash layouts are used", func() {
			a, okA := normalize.NormalizeDate("2024/03/05")
			b, okB := normalize.NormalizeDate("2024-03-05")

			Convey("Then both yield the same date", func() {
				So(okA, ShouldBeTrue)
				So(okB, ShouldBeTrue)
				So(a, ShouldResemble, want)
				So(b, ShouldResemble, want)
				So(a.String(), ShouldEqual, "2024-03-05")
			})
		})

		Convey("When month-first layouts are used", func() {
			a, okA := normalize.NormalizeDate("3/5/2024")
			b, okB := normalize.NormalizeDate("03-05-2024")

			Convey("Then the four digit group is the year", func() {
				So(okA, ShouldBeTrue)
				So(okB, ShouldBeTrue)
				So(a, ShouldResemble, want)
				So(b, ShouldResemble, want)
			})
		})

		Convey("When the Japanese layout is used with a trailing time", func() {
			d, ok := normalize.NormalizeDate("2024年3月5日 10:00")

			Convey("Then the date part is parsed", func() {
				So(ok, ShouldBeTrue)
				So(d, ShouldResemble, want)
			})
		})

		Convey("When the date is not a real calendar date", func() {
			_, okMonth := normalize.NormalizeDate("2024/13/01")
			_, okDay := normalize.NormalizeDate("2023-02-29")

			Convey("Then it is absent", func() {
				So(okMonth, ShouldBeFalse)
				So(okDay, ShouldBeFalse)
			})
		})

		Convey("When the text is blank or free text", func() {
			_, okBlank := normalize.NormalizeDate("  ")
			_, okText := normalize.NormalizeDate("未定")

			Convey("Then it is absent", func() {
				So(okBlank, ShouldBeFalse)
				So(okText, ShouldBeFalse)
			})
		})

		Convey("When a date is encoded as JSON", func() {
			b, err := json.Marshal(want)

			Convey("Then it is an ISO string", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `"2024-03-05"`)

				var back normalize.Date
				So(json.Unmarshal(b, &back), ShouldBeNil)
				So(back, ShouldResemble, want)
			})
		})
	})
}

func TestBusinessTypes(t *testing.T) {
	Convey("Given business type text", t, func() {
		Convey("When several lines map to the same code", func() {
			text := "ITサービス\nシステム開発\n建設・工事"
			names, codes := normalize.ExtractBusinessTypesWithCodes(text)

			Convey("Then codes are deduplicated in first-seen order", func() {
				So(codes, ShouldResemble, []string{"B05", "B04"})
				So(names, ShouldResemble, []string{"ITサービス", "建設・工事"})
				So(normalize.NormalizeBusinessTypes(text), ShouldResemble, []string{"B05", "B04"})
			})
		})

		Convey("When a line matches no catalog entry", func() {
			names, codes := normalize.ExtractBusinessTypesWithCodes("  宇宙開発  \n\n")

			Convey("Then it defaults to B99 with the line as the name", func() {
				So(codes, ShouldResemble, []string{"B99"})
				So(names, ShouldResemble, []string{"宇宙開発"})
			})
		})

		Convey("When a line contains an entry name", func() {
			_, codes := normalize.ExtractBusinessTypesWithCodes("役務の提供（清掃）")

			Convey("Then containment is enough", func() {
				So(codes, ShouldResemble, []string{"B08"})
			})
		})

		Convey("When the text is empty", func() {
			names, codes := normalize.ExtractBusinessTypesWithCodes("")

			Convey("Then both lists are empty", func() {
				So(names, ShouldBeEmpty)
				So(codes, ShouldBeEmpty)
			})
		})
	})
}

func TestExtractPrefecture(t *testing.T) {
	Convey("Given addresses", t, func() {
		Convey("When the address contains a prefecture", func() {
			p, ok := normalize.ExtractPrefecture("〒100-8977 東京都千代田区霞が関1-1-1")

			Convey("Then it is returned", func() {
				So(ok, ShouldBeTrue)
				So(p, ShouldEqual, "東京都")
			})
		})

		Convey("When prefectures from several regions appear", func() {
			p, ok := normalize.ExtractPrefecture("沖縄県那覇市（北海道事務所）")

			Convey("Then the earlier region in catalog order wins", func() {
				So(ok, ShouldBeTrue)
				So(p, ShouldEqual, "北海道")
			})
		})

		Convey("When there is no prefecture", func() {
			_, okText := normalize.ExtractPrefecture("千代田区霞が関")
			_, okEmpty := normalize.ExtractPrefecture("")

			Convey("Then it is absent", func() {
				So(okText, ShouldBeFalse)
				So(okEmpty, ShouldBeFalse)
			})
		})
	})
}
