// Package config provides the migrate CLI's configuration: the handful
// of settings the migration engine actually needs, loaded from an
// optional TOML defaults file and overridable by flags/environment.
//
// This intentionally does not carry forward the teacher's Vault/AWS
// target pool or performance-tuning surface (see DESIGN.md): the
// migration engine has no secret-resolution or concurrency-tuning
// concerns of its own.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the migrate CLI's effective configuration.
type Config struct {
	Debug  bool `toml:"debug"`
	Trace  bool `toml:"trace"`
	Strict bool `toml:"strict"`

	// Output records a preferred rendering format. cmd/migrate does not
	// read it: apply and compose always render YAML.
	Output string `toml:"output"` // "yaml" (default) or "json"

	ShapeStore ShapeStoreConfig `toml:"shape_store"`
	NATS       NATSConfig       `toml:"nats"`
}

// ShapeStoreConfig names which shapestore.Store backend to build and its
// connection details.
type ShapeStoreConfig struct {
	Backend string `toml:"backend"` // "local" or "s3"
	Dir     string `toml:"dir"`     // for "local"

	Bucket           string `toml:"bucket"`
	Prefix           string `toml:"prefix"`
	Region           string `toml:"region"`
	Endpoint         string `toml:"endpoint"`
	S3ForcePathStyle bool   `toml:"s3_force_path_style"`
}

// NATSConfig configures migratesvc's Server/Client.
type NATSConfig struct {
	URL     string `toml:"url"`
	Subject string `toml:"subject"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Output:     "yaml",
		ShapeStore: ShapeStoreConfig{Backend: "local", Dir: "."},
		NATS:       NATSConfig{URL: "nats://127.0.0.1:4222", Subject: "migrate.apply"},
	}
}

// Load reads path as TOML over Default(), returning Default() unchanged
// if path does not exist.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
