package migrate

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMigrationError(t *testing.T) {
	Convey("WithElement appends a dotted path segment", t, func() {
		e := newMissingPath("items")
		e2 := e.WithElement("0")
		So(e2.Path, ShouldEqual, "items.0")
		So(e.Path, ShouldEqual, "items") // original untouched

		root := newMissingPath("")
		rooted := root.WithElement("tags")
		So(rooted.Path, ShouldEqual, "tags")
	})

	Convey("Error() renders a readable message per kind", t, func() {
		So(newMissingPath("a.b").Error(), ShouldContainSubstring, "missing path")
		So(newCaseRemoved("status", "Legacy").Error(), ShouldContainSubstring, "Legacy")
		So(NewIncomplete([]string{"a"}, []string{"b"}).Error(), ShouldContainSubstring, "1 missing source")
	})

	Convey("Unwrap exposes the wrapped cause", t, func() {
		cause := errors.New("boom")
		e := &MigrationError{Kind: ImpureExpr, Cause: cause}
		So(errors.Unwrap(e), ShouldEqual, cause)
	})
}

func TestMultiError(t *testing.T) {
	Convey("Append flattens nested MultiErrors and ignores nil", t, func() {
		var m MultiError
		m.Append(errors.New("first"))
		m.Append(nil)
		m.Append(MultiError{Errors: []error{errors.New("second"), errors.New("third")}})

		So(m.Count(), ShouldEqual, 3)
	})

	Convey("Error renders every message", t, func() {
		m := MultiError{Errors: []error{errors.New("a"), errors.New("b")}}
		So(m.Error(), ShouldContainSubstring, "a")
		So(m.Error(), ShouldContainSubstring, "b")
	})
}
