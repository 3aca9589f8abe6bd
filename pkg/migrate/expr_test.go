package migrate

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestExprEval(t *testing.T) {
	Convey("Literal and Identity", t, func() {
		v, err := Lit(Int(7)).Eval(String("ignored"), nil)
		So(err, ShouldBeNil)
		So(v.Equal(Int(7)), ShouldBeTrue)

		v2, err := Identity().Eval(Int(9), nil)
		So(err, ShouldBeNil)
		So(v2.Equal(Int(9)), ShouldBeTrue)

		So(Identity().IsIdentity(), ShouldBeTrue)
		So(Lit(Unit()).IsIdentity(), ShouldBeFalse)
	})

	Convey("Field projects a record field", t, func() {
		focus := NewRecord(Field{Name: "name", Value: String("ada")})

		v, err := FieldExpr("name").Eval(focus, nil)
		So(err, ShouldBeNil)
		So(v.Equal(String("ada")), ShouldBeTrue)

		_, err = FieldExpr("missing").Eval(focus, nil)
		So(err, ShouldNotBeNil)
		So(err.(*MigrationError).Kind, ShouldEqual, MissingPath)
	})

	Convey("Convert coerces between primitive tags", t, func() {
		v, err := Convert(TagInt, TagString, Lit(Int(12))).Eval(Unit(), nil)
		So(err, ShouldBeNil)
		So(v.Equal(String("12")), ShouldBeTrue)

		_, err = Convert(TagString, TagInt, Lit(String("not-a-number"))).Eval(Unit(), nil)
		So(err, ShouldNotBeNil)
		So(err.(*MigrationError).Kind, ShouldEqual, ConversionFailed)
	})

	Convey("Convert with a govaluate formula applies arithmetic", t, func() {
		e, err := NewConvertWithFormula(TagDouble, TagDouble, Lit(Double(100)), "value / 100")
		So(err, ShouldBeNil)

		v, err := e.Eval(Unit(), nil)
		So(err, ShouldBeNil)
		So(v.Equal(Double(1)), ShouldBeTrue)
	})

	Convey("NewConvertWithFormula rejects formulas referencing other identifiers", t, func() {
		_, err := NewConvertWithFormula(TagDouble, TagDouble, Lit(Double(1)), "value + other")
		So(err, ShouldNotBeNil)
		So(err.(*MigrationError).Kind, ShouldEqual, ImpureExpr)
	})

	Convey("Concat joins string parts with a separator", t, func() {
		e := Concat("-", Lit(String("a")), Lit(String("b")), Lit(String("c")))
		v, err := e.Eval(Unit(), nil)
		So(err, ShouldBeNil)
		So(v.Equal(String("a-b-c")), ShouldBeTrue)
	})

	Convey("Join binds args positionally for its body", t, func() {
		focus := NewRecord(
			Field{Name: "first", Value: String("ada")},
			Field{Name: "last", Value: String("lovelace")},
		)
		e := Join(
			Concat(" ", Arg(0), Arg(1)),
			FieldExpr("first"), FieldExpr("last"),
		)
		v, err := e.Eval(focus, nil)
		So(err, ShouldBeNil)
		So(v.Equal(String("ada lovelace")), ShouldBeTrue)
	})
}
