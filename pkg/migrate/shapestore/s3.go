package shapestore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/wayneeseguin/migrate/pkg/migrate"
)

// S3Target configures an S3-backed Store, mirroring the teacher's
// AwsTarget shape for per-target session options.
type S3Target struct {
	Bucket           string `yaml:"bucket"`
	Prefix           string `yaml:"prefix"`
	Region           string `yaml:"region"`
	Endpoint         string `yaml:"endpoint"`
	S3ForcePathStyle bool   `yaml:"s3_force_path_style"`
}

// S3Store resolves shape descriptors as objects under
// s3://Bucket/Prefix/<name>@<version>.yml. It caches every descriptor it
// has successfully fetched, since shapes don't change within a single
// migration run.
type S3Store struct {
	client s3iface.S3API
	bucket string
	prefix string

	mu    sync.RWMutex
	cache map[string]migrate.Shape
}

// NewS3Store builds an S3Store from target, establishing a session the
// way the teacher's AWS operator does (explicit region/endpoint/path-style
// overrides, falling back to the SDK's default credential chain).
func NewS3Store(target S3Target) (*S3Store, error) {
	cfg := aws.NewConfig()
	if target.Region != "" {
		cfg = cfg.WithRegion(target.Region)
	}
	if target.Endpoint != "" {
		cfg = cfg.WithEndpoint(target.Endpoint)
	}
	if target.S3ForcePathStyle {
		cfg = cfg.WithS3ForcePathStyle(true)
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	return &S3Store{
		client: s3.New(sess),
		bucket: target.Bucket,
		prefix: target.Prefix,
		cache:  make(map[string]migrate.Shape),
	}, nil
}

func (s *S3Store) objectKey(key Key) string {
	if s.prefix == "" {
		return key.String() + ".yml"
	}
	return s.prefix + "/" + key.String() + ".yml"
}

func (s *S3Store) Get(ctx context.Context, name, version string) (migrate.Shape, error) {
	key := Key{Name: name, Version: version}
	cacheKey := key.String()

	s.mu.RLock()
	if shape, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return shape, nil
	}
	s.mu.RUnlock()

	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return migrate.Shape{}, ErrNotFound{Key: key}
		}
		return migrate.Shape{}, fmt.Errorf("get s3 object: %w", err)
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, out.Body); err != nil {
		return migrate.Shape{}, fmt.Errorf("read s3 object: %w", err)
	}

	shape, err := migrate.ParseShapeYAML(buf.Bytes())
	if err != nil {
		return migrate.Shape{}, err
	}

	s.mu.Lock()
	s.cache[cacheKey] = shape
	s.mu.Unlock()

	return shape, nil
}
