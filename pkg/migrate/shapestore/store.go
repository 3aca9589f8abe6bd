// Package shapestore resolves named schema descriptors (YAML documents
// parsed by migrate.ParseShapeYAML) from a backing store, so a migration
// file can reference a shape by name/version instead of embedding it.
package shapestore

import (
	"context"
	"fmt"

	"github.com/wayneeseguin/migrate/pkg/migrate"
)

// Store resolves a named, versioned shape descriptor to a parsed Shape.
type Store interface {
	Get(ctx context.Context, name, version string) (migrate.Shape, error)
}

// Key identifies one descriptor within a Store.
type Key struct {
	Name    string
	Version string
}

func (k Key) String() string {
	if k.Version == "" {
		return k.Name
	}
	return fmt.Sprintf("%s@%s", k.Name, k.Version)
}

// ErrNotFound is returned by a Store when a (name, version) pair has no
// descriptor.
type ErrNotFound struct {
	Key Key
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("shape not found: %s", e.Key)
}
