package migrate

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestValueConstructorsAndAccessors(t *testing.T) {
	Convey("Record", t, func() {
		r := NewRecord(Field{Name: "a", Value: Int(1)}, Field{Name: "b", Value: String("x")})

		Convey("GetField finds present fields in order", func() {
			v, ok := r.GetField("a")
			So(ok, ShouldBeTrue)
			So(v.Equal(Int(1)), ShouldBeTrue)
		})

		Convey("GetField reports absence", func() {
			_, ok := r.GetField("c")
			So(ok, ShouldBeFalse)
		})

		Convey("WithFieldAppended adds a trailing field", func() {
			r2 := r.WithFieldAppended("c", Bool(true))
			So(len(r2.Fields()), ShouldEqual, 3)
			v, _ := r2.GetField("c")
			So(v.Equal(Bool(true)), ShouldBeTrue)
		})

		Convey("WithFieldRemoved closes the gap", func() {
			r2, ok := r.WithFieldRemoved("a")
			So(ok, ShouldBeTrue)
			So(len(r2.Fields()), ShouldEqual, 1)
			_, found := r2.GetField("a")
			So(found, ShouldBeFalse)
		})

		Convey("WithFieldRenamed preserves value and position", func() {
			r2, ok := r.WithFieldRenamed("a", "z")
			So(ok, ShouldBeTrue)
			v, found := r2.GetField("z")
			So(found, ShouldBeTrue)
			So(v.Equal(Int(1)), ShouldBeTrue)
			So(r2.Fields()[0].Name, ShouldEqual, "z")
		})
	})

	Convey("Option wire form", t, func() {
		Convey("None is Variant(None, Record([]))", func() {
			n := None()
			So(n.IsVariant(), ShouldBeTrue)
			So(n.CaseName(), ShouldEqual, "None")
			So(len(n.Payload().Fields()), ShouldEqual, 0)
			So(n.IsNone(), ShouldBeTrue)
		})

		Convey("Some wraps the inner value under field \"value\"", func() {
			s := Some(Int(42))
			So(s.CaseName(), ShouldEqual, "Some")
			inner, ok := s.IsSome()
			So(ok, ShouldBeTrue)
			So(inner.Equal(Int(42)), ShouldBeTrue)
		})
	})

	Convey("Equal is deep structural equality", t, func() {
		a := NewRecord(Field{Name: "x", Value: NewSequence(Int(1), Int(2))})
		b := NewRecord(Field{Name: "x", Value: NewSequence(Int(1), Int(2))})
		c := NewRecord(Field{Name: "x", Value: NewSequence(Int(1), Int(3))})

		So(a.Equal(b), ShouldBeTrue)
		So(a.Equal(c), ShouldBeFalse)
	})

	Convey("Map entries round-trip through WithEntries", t, func() {
		m := NewMap(MapEntry{Key: String("k"), Value: Int(1)})
		m2 := m.WithEntries(append(m.Entries(), MapEntry{Key: String("k2"), Value: Int(2)}))
		So(len(m2.Entries()), ShouldEqual, 2)
	})
}
