package migrate

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestActionReverseAndLossiness(t *testing.T) {
	Convey("AddField reverses to DropField and is lossless", t, func() {
		a := AddField{Name: "age", Default: Lit(Int(0))}
		So(a.IsLossy(), ShouldBeFalse)

		rev, ok := a.Reverse()
		So(ok, ShouldBeTrue)
		drop, ok := rev.(DropField)
		So(ok, ShouldBeTrue)
		So(drop.Name, ShouldEqual, "age")
		So(drop.IsLossy(), ShouldBeFalse)
	})

	Convey("DropField with no reverse default is lossy and irreversible", t, func() {
		d := DropField{Name: "legacy"}
		So(d.IsLossy(), ShouldBeTrue)
		_, ok := d.Reverse()
		So(ok, ShouldBeFalse)
	})

	Convey("Rename reverses to the swapped rename", t, func() {
		r := Rename{From: "a", To: "b"}
		rev, ok := r.Reverse()
		So(ok, ShouldBeTrue)
		So(rev.(Rename).From, ShouldEqual, "b")
		So(rev.(Rename).To, ShouldEqual, "a")
	})

	Convey("Mandate and Optionalize are mutual reverses", t, func() {
		m := Mandate{Name: "x", Default: Lit(Int(0))}
		rev, ok := m.Reverse()
		So(ok, ShouldBeTrue)
		So(rev.(Optionalize).Name, ShouldEqual, "x")

		o := Optionalize{Name: "x"}
		rev2, ok := o.Reverse()
		So(ok, ShouldBeTrue)
		So(rev2.(Mandate).Name, ShouldEqual, "x")
		So(rev2.(Mandate).Default.IsIdentity(), ShouldBeTrue)
	})

	Convey("RemoveCase is lossy with no reverse", t, func() {
		rc := RemoveCase{Name: "Legacy"}
		So(rc.IsLossy(), ShouldBeTrue)
		_, ok := rc.Reverse()
		So(ok, ShouldBeFalse)
	})

	Convey("TransformValue lossiness follows whether an Inverse was given", t, func() {
		lossy := TransformValue{Forward: Lit(Unit())}
		So(lossy.IsLossy(), ShouldBeTrue)

		inv := Identity()
		lossless := TransformValue{Forward: Identity(), Inverse: &inv}
		So(lossless.IsLossy(), ShouldBeFalse)
	})

	Convey("TransformElements/Keys/Values lossiness follows the placeholder-inverse rule", t, func() {
		lossyElems := TransformElements{Forward: Lit(Unit()), Inverse: Identity()}
		So(lossyElems.IsLossy(), ShouldBeTrue)

		losslessElems := TransformElements{Forward: Identity(), Inverse: Identity()}
		So(losslessElems.IsLossy(), ShouldBeFalse)

		genuineInverse := TransformKeys{Forward: Lit(String("k")), Inverse: Lit(String("k2"))}
		So(genuineInverse.IsLossy(), ShouldBeFalse)
	})

	Convey("applyLocal on AddField appends the field", t, func() {
		focus := NewRecord(Field{Name: "id", Value: String("1")})
		a := AddField{Name: "active", Default: Lit(Bool(true))}

		out, err := a.applyLocal(focus)
		So(err, ShouldBeNil)
		v, ok := out.GetField("active")
		So(ok, ShouldBeTrue)
		So(v.Equal(Bool(true)), ShouldBeTrue)
	})

	Convey("RenameCase no-ops on a non-matching case", t, func() {
		rc := RenameCase{From: "Active", To: "Enabled"}
		focus := NewVariant("Inactive", NewRecord())

		out, err := rc.applyLocal(focus)
		So(err, ShouldBeNil)
		So(out.CaseName(), ShouldEqual, "Inactive")
	})

	Convey("RemoveCase surfaces CaseRemoved when it matches", t, func() {
		rc := RemoveCase{Name: "Legacy"}
		focus := NewVariant("Legacy", NewRecord())

		_, err := rc.applyLocal(focus)
		So(err, ShouldNotBeNil)
		So(err.(*MigrationError).Kind, ShouldEqual, CaseRemoved)
	})
}
