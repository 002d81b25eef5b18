package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/nyusatsu/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestCanonical(t *testing.T) {
	convey.Convey("Given export headers", t, func() {
		convey.Convey("When a Japanese header is resolved", func() {
			field, ok := model.Canonical("入札資格")

			convey.Convey("Then it maps to the canonical field", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(field, convey.ShouldEqual, model.FieldQualificationText)
			})
		})

		convey.Convey("When either award date header is resolved", func() {
			a, _ := model.Canonical("落札日")
			b, _ := model.Canonical("契約締結日")
			c, _ := model.Canonical("落札日(or 契約締結日)")

			convey.Convey("Then both map to the award date", func() {
				convey.So(a, convey.ShouldEqual, model.FieldAwardDateText)
				convey.So(b, convey.ShouldEqual, model.FieldAwardDateText)
				convey.So(c, convey.ShouldEqual, model.FieldAwardDateText)
			})
		})

		convey.Convey("When a canonical name is resolved", func() {
			field, ok := model.Canonical(" case_id ")

			convey.Convey("Then it resolves to itself", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(field, convey.ShouldEqual, model.FieldCaseID)
			})
		})

		convey.Convey("When an unknown header is resolved", func() {
			_, ok := model.Canonical("備考2")

			convey.Convey("Then it is rejected", func() {
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When every mapped column is checked", func() {
			convey.Convey("Then it names a known field", func() {
				known := map[string]bool{}
				for _, f := range model.Fields() {
					known[f] = true
				}
				for header, field := range model.Columns {
					convey.So(known[field], convey.ShouldBeTrue)
					convey.So(header, convey.ShouldNotBeBlank)
				}
			})
		})
	})
}

func TestRowCaseID(t *testing.T) {
	convey.Convey("Given a row", t, func() {
		convey.Convey("When the case id is padded text", func() {
			r := model.Row{Values: map[string]any{model.FieldCaseID: " 1001 "}}
			convey.So(r.CaseID(), convey.ShouldEqual, "1001")
		})

		convey.Convey("When the case id is a JSON number", func() {
			r := model.Row{Values: map[string]any{model.FieldCaseID: json.Number("42")}}
			convey.So(r.CaseID(), convey.ShouldEqual, "42")
		})

		convey.Convey("When the case id is missing or not scalar", func() {
			convey.So(model.Row{}.CaseID(), convey.ShouldEqual, "")
			r := model.Row{Values: map[string]any{model.FieldCaseID: []any{"1"}}}
			convey.So(r.CaseID(), convey.ShouldEqual, "")
		})
	})
}

func TestRowCaseKey(t *testing.T) {
	convey.Convey("Given rows with numerically equal case ids", t, func() {
		padded := model.Row{Values: map[string]any{model.FieldCaseID: "01001"}}
		plain := model.Row{Values: map[string]any{model.FieldCaseID: json.Number("1001")}}

		convey.Convey("Then they share a case key", func() {
			convey.So(padded.CaseKey(), convey.ShouldEqual, "1001")
			convey.So(plain.CaseKey(), convey.ShouldEqual, padded.CaseKey())
		})
	})

	convey.Convey("Given a case id that is not an integer", t, func() {
		r := model.Row{Values: map[string]any{model.FieldCaseID: " A-7 "}}
		convey.So(r.CaseKey(), convey.ShouldEqual, "A-7")
		convey.So(model.Row{}.CaseKey(), convey.ShouldEqual, "")
	})
}
