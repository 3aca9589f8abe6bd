package shapestore

import (
	"bytes"
	"context"
	"io/ioutil"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/wayneeseguin/migrate/pkg/migrate"
)

// fakeS3 implements just enough of s3iface.S3API for S3Store.Get, embedding
// the interface so the rest of its (large) method set is satisfied by a nil
// promoted field that is never called in these tests.
type fakeS3 struct {
	s3iface.S3API
	objects map[string]string
	err     error
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "no such key", nil)
	}
	return &s3.GetObjectOutput{Body: ioutil.NopCloser(bytes.NewBufferString(body))}, nil
}

func TestS3Store(t *testing.T) {
	Convey("Get fetches, parses, and caches a descriptor", t, func() {
		fake := &fakeS3{objects: map[string]string{
			"user.yml": `{kind: primitive, primitive: string}`,
		}}
		store := &S3Store{client: fake, bucket: "bucket", cache: map[string]migrate.Shape{}}

		shape, err := store.Get(context.Background(), "user", "")
		So(err, ShouldBeNil)
		So(shape.Kind, ShouldEqual, migrate.ShapePrimitive)

		// second call is served from cache; blank out the fake to prove it
		fake.objects = nil
		shape2, err := store.Get(context.Background(), "user", "")
		So(err, ShouldBeNil)
		So(shape2.Kind, ShouldEqual, migrate.ShapePrimitive)
	})

	Convey("Get maps ErrCodeNoSuchKey to ErrNotFound", t, func() {
		fake := &fakeS3{objects: map[string]string{}}
		store := &S3Store{client: fake, bucket: "bucket", cache: map[string]migrate.Shape{}}

		_, err := store.Get(context.Background(), "ghost", "")
		So(err, ShouldNotBeNil)
		_, ok := err.(ErrNotFound)
		So(ok, ShouldBeTrue)
	})

	Convey("objectKey joins the prefix when set", t, func() {
		store := &S3Store{prefix: "shapes"}
		So(store.objectKey(Key{Name: "user"}), ShouldEqual, "shapes/user.yml")

		noPrefix := &S3Store{}
		So(noPrefix.objectKey(Key{Name: "user"}), ShouldEqual, "user.yml")
	})
}

