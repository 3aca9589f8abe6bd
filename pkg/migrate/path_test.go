package migrate

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPath(t *testing.T) {
	Convey("Append and AndThen build paths without mutating the receiver", t, func() {
		base := Root.Append(Field("status"))
		extended := base.Append(Case("Active"))

		So(len(base.Nodes), ShouldEqual, 1)
		So(len(extended.Nodes), ShouldEqual, 2)

		joined := FieldPath("items").AndThen(Root.Append(Elements))
		So(len(joined.Nodes), ShouldEqual, 2)
		So(joined.Nodes[1], ShouldResemble, Elements)
	})

	Convey("Equal compares structurally", t, func() {
		a := Root.Append(Field("x")).Append(Optional)
		b := Root.Append(Field("x")).Append(Optional)
		c := Root.Append(Field("y")).Append(Optional)

		So(a.Equal(b), ShouldBeTrue)
		So(a.Equal(c), ShouldBeFalse)
	})

	Convey("String renders a dot-joined cursor with markers", t, func() {
		p := Root.Append(Field("status")).Append(Case("Active")).Append(Field("count"))
		So(p.String(), ShouldEqual, "status.?Active.count")

		p2 := FieldPath("items").Append(Elements)
		So(p2.String(), ShouldEqual, "items.[]")

		p3 := Root.Append(Field("tags")).Append(MapKeys)
		So(p3.String(), ShouldEqual, "tags.{keys}")
	})

	Convey("Root is the empty path", t, func() {
		So(Root.IsRoot(), ShouldBeTrue)
		So(FieldPath("x").IsRoot(), ShouldBeFalse)
	})
}
