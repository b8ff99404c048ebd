// Package config resolves Manifold's on-disk layout and loads its
// user-level configuration file: directories follow a flag > env var >
// platform default precedence chain, and the config file is loaded with
// Viper, falling back to a written-out default on first run.
package config

import (
	"os"
	"path/filepath"
)

// Environment variable overrides, checked after the --data-dir/--sync-dir
// flags and before the platform default.
const (
	EnvHome    = "MANIFOLD_HOME"
	EnvDataDir = "MANIFOLD_DATA_DIR"
	EnvSyncDir = "MANIFOLD_SYNC_DIR"
)

// DefaultHomeDirName is the directory created under the user's home
// directory when no override is set.
const DefaultHomeDirName = ".manifold"

// Paths holds every directory Manifold reads or writes.
type Paths struct {
	Home    string // ~/.manifold
	Config  string // config.yaml
	DataDir string // sqlite store + blobs
	SyncDir string // git-backed export repository
}

// Resolve computes Paths following the precedence chain flag > env > default.
func Resolve(dataDirFlag, syncDirFlag string) (Paths, error) {
	home, err := resolveHome()
	if err != nil {
		return Paths{}, err
	}

	dataDir, err := firstNonEmpty(dataDirFlag, os.Getenv(EnvDataDir), filepath.Join(home, "db"))
	if err != nil {
		return Paths{}, err
	}
	syncDir, err := firstNonEmpty(syncDirFlag, os.Getenv(EnvSyncDir), filepath.Join(home, "sync"))
	if err != nil {
		return Paths{}, err
	}

	return Paths{
		Home:    home,
		Config:  filepath.Join(home, "config.yaml"),
		DataDir: dataDir,
		SyncDir: syncDir,
	}, nil
}

// EnsureDirs creates every directory p names.
func (p Paths) EnsureDirs() error {
	for _, dir := range []string{p.Home, p.DataDir, p.SyncDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func resolveHome() (string, error) {
	if env := os.Getenv(EnvHome); env != "" {
		return filepath.Abs(env)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultHomeDirName), nil
}

func firstNonEmpty(vals ...string) (string, error) {
	for _, v := range vals {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	return vals[len(vals)-1], nil
}
