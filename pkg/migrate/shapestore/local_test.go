package shapestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/wayneeseguin/migrate/pkg/migrate"
)

func TestLocalStore(t *testing.T) {
	Convey("Get parses an unversioned descriptor by name", t, func() {
		dir := t.TempDir()
		writeShape(t, dir, "user.yml", `{kind: primitive, primitive: string}`)

		store := NewLocalStore(dir)
		shape, err := store.Get(context.Background(), "user", "")
		So(err, ShouldBeNil)
		So(shape.Kind, ShouldEqual, migrate.ShapePrimitive)
	})

	Convey("Get parses a versioned descriptor by name@version", t, func() {
		dir := t.TempDir()
		writeShape(t, dir, "user@v2.yml", `{kind: primitive, primitive: int}`)

		store := NewLocalStore(dir)
		_, err := store.Get(context.Background(), "user", "v2")
		So(err, ShouldBeNil)
	})

	Convey("Get returns ErrNotFound for a missing descriptor", t, func() {
		store := NewLocalStore(t.TempDir())
		_, err := store.Get(context.Background(), "ghost", "")
		So(err, ShouldNotBeNil)
		_, ok := err.(ErrNotFound)
		So(ok, ShouldBeTrue)
	})
}

func writeShape(t *testing.T, dir, name, data string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
		t.Fatalf("writeShape: %v", err)
	}
}
