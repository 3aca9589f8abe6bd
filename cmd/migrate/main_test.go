package main

import (
	"os"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEnvFlag(t *testing.T) {
	Convey("envFlag treats unset, empty, 0, and false as disabled", t, func() {
		os.Unsetenv("MIGRATE_TEST_FLAG")
		So(envFlag("MIGRATE_TEST_FLAG"), ShouldBeFalse)

		for _, v := range []string{"", "0", "false"} {
			os.Setenv("MIGRATE_TEST_FLAG", v)
			So(envFlag("MIGRATE_TEST_FLAG"), ShouldBeFalse)
		}

		os.Setenv("MIGRATE_TEST_FLAG", "1")
		So(envFlag("MIGRATE_TEST_FLAG"), ShouldBeTrue)
		os.Unsetenv("MIGRATE_TEST_FLAG")
	})
}

func TestReadInput(t *testing.T) {
	Convey("readInput reads the first named file when given one", t, func() {
		f, err := os.CreateTemp(t.TempDir(), "input-*.yaml")
		So(err, ShouldBeNil)
		_, err = f.WriteString("hello: world\n")
		So(err, ShouldBeNil)
		f.Close()

		data, err := readInput([]string{f.Name()})
		So(err, ShouldBeNil)
		So(strings.TrimSpace(string(data)), ShouldEqual, "hello: world")
	})
}
