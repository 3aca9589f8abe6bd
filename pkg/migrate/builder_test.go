package migrate

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBuilder(t *testing.T) {
	Convey("fluent calls accumulate actions in order", t, func() {
		m := NewBuilder().
			AddField(Root, "active", Lit(Bool(true))).
			RenameField(Root, "active", "enabled").
			Build()

		So(len(m.Actions), ShouldEqual, 2)
		So(m.Actions[0].(AddField).Name, ShouldEqual, "active")
		So(m.Actions[1].(Rename).To, ShouldEqual, "enabled")
	})

	Convey("BuildStrict succeeds when coverage is complete", t, func() {
		source := Shape{Kind: ShapePrimitive, Primitive: TagString}
		target := Shape{Kind: ShapePrimitive, Primitive: TagString}

		m, err := NewBuilder().
			TransformValue(Root, Identity(), exprPtr(Identity())).
			BuildStrict(source, target)

		So(err, ShouldBeNil)
		So(len(m.Actions), ShouldEqual, 1)
	})

	Convey("BuildStrict returns the partial migration alongside an error on incomplete coverage", t, func() {
		source := Shape{Kind: ShapeRecord, Fields: []ShapeField{
			{Name: "x", Shape: Shape{Kind: ShapePrimitive, Primitive: TagString}},
		}}
		target := Shape{Kind: ShapeRecord, Fields: []ShapeField{}}

		m, err := NewBuilder().BuildStrict(source, target)

		So(err, ShouldNotBeNil)
		So(len(m.Actions), ShouldEqual, 0)
	})
}
