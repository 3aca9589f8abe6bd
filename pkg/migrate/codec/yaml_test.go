package codec

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/wayneeseguin/migrate/pkg/migrate"
)

func TestYAMLRoundTrip(t *testing.T) {
	Convey("round-trips a record with nested sequence, map, and option fields", t, func() {
		v := migrate.NewRecord(
			migrate.Field{Name: "id", Value: migrate.Int(1)},
			migrate.Field{Name: "tags", Value: migrate.NewSequence(migrate.String("a"), migrate.String("b"))},
			migrate.Field{Name: "scores", Value: migrate.NewMap(
				migrate.MapEntry{Key: migrate.String("k"), Value: migrate.Int(9)},
			)},
			migrate.Field{Name: "nickname", Value: migrate.None()},
		)

		data, err := EncodeYAML(v)
		So(err, ShouldBeNil)

		back, err := DecodeYAML(data)
		So(err, ShouldBeNil)
		So(back.Equal(v), ShouldBeTrue)
	})

	Convey("round-trips Some(x) as a Variant wrapping a Record, not a nested Variant", t, func() {
		v := migrate.NewRecord(
			migrate.Field{Name: "nickname", Value: migrate.Some(migrate.String("ace"))},
		)

		data, err := EncodeYAML(v)
		So(err, ShouldBeNil)

		back, err := DecodeYAML(data)
		So(err, ShouldBeNil)
		So(back.Equal(v), ShouldBeTrue)

		nickname, _ := back.GetField("nickname")
		inner, ok := nickname.IsSome()
		So(ok, ShouldBeTrue)
		So(inner.Equal(migrate.String("ace")), ShouldBeTrue)
	})

	Convey("round-trips a multi-case variant", t, func() {
		v := migrate.NewVariant("Active", migrate.NewRecord(
			migrate.Field{Name: "since", Value: migrate.String("2026-01-01")},
		))

		data, err := EncodeYAML(v)
		So(err, ShouldBeNil)

		back, err := DecodeYAML(data)
		So(err, ShouldBeNil)
		So(back.Equal(v), ShouldBeTrue)
	})

	Convey("round-trips bytes via the !!binary tag", t, func() {
		v := migrate.Bytes([]byte("hello"))

		data, err := EncodeYAML(v)
		So(err, ShouldBeNil)

		back, err := DecodeYAML(data)
		So(err, ShouldBeNil)
		So(back.Equal(v), ShouldBeTrue)
	})
}
