package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/manifold-dev/manifold/internal/spec"
)

// Config keys, following a key-constant convention for Viper lookups.
const (
	KeyDefaultBoundary = "default_boundary"
	KeySyncRemote      = "sync.remote"
	KeySyncBranch      = "sync.branch"
	KeySyncAuthor      = "sync.author"
	KeySyncEmail       = "sync.email"
)

const defaultConfigYAML = `# Manifold configuration.

# Boundary assigned to specs created without an explicit --boundary flag.
default_boundary: personal

sync:
  # remote: origin
  branch: main
  author: Manifold
  email: manifold@localhost
`

// Load reads config.yaml from p.Home using Viper, creating the directory
// and a default config file on first run. A missing config.yaml is not
// an error.
func Load(p Paths) (*viper.Viper, error) {
	if err := os.MkdirAll(p.Home, 0o755); err != nil {
		return nil, fmt.Errorf("config: creating home directory: %w", err)
	}
	if err := ensureDefaultConfigFile(p.Config); err != nil {
		return nil, fmt.Errorf("config: writing default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(KeyDefaultBoundary, string(spec.BoundaryPersonal))
	v.SetDefault(KeySyncBranch, "main")
	v.SetDefault(KeySyncAuthor, "Manifold")
	v.SetDefault(KeySyncEmail, "manifold@localhost")
	v.SetConfigFile(p.Config)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", p.Config, err)
	}
	return v, nil
}

func ensureDefaultConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// DefaultBoundary reads the configured default boundary, falling back to
// personal if unset or invalid.
func DefaultBoundary(v *viper.Viper) spec.Boundary {
	b := spec.Boundary(v.GetString(KeyDefaultBoundary))
	if spec.ValidateBoundary(b) != nil {
		return spec.BoundaryPersonal
	}
	return b
}
