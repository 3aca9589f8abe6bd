package shapestore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/wayneeseguin/migrate/pkg/migrate"
)

// LocalStore resolves shape descriptors from a directory on disk, each
// named "<name>@<version>.yml" or, when version is empty, "<name>.yml".
type LocalStore struct {
	Dir string
}

// NewLocalStore returns a Store rooted at dir.
func NewLocalStore(dir string) LocalStore {
	return LocalStore{Dir: dir}
}

func (s LocalStore) Get(_ context.Context, name, version string) (migrate.Shape, error) {
	key := Key{Name: name, Version: version}
	path := filepath.Join(s.Dir, key.String()+".yml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return migrate.Shape{}, ErrNotFound{Key: key}
		}
		return migrate.Shape{}, err
	}
	return migrate.ParseShapeYAML(data)
}
