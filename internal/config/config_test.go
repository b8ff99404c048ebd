package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/manifold-dev/manifold/internal/spec"
)

func TestResolveUsesFlagsOverEnv(t *testing.T) {
	t.Setenv(EnvDataDir, "/env/data")
	t.Setenv(EnvSyncDir, "/env/sync")

	p, err := Resolve("/flag/data", "/flag/sync")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.DataDir != "/flag/data" {
		t.Errorf("DataDir = %s, want /flag/data", p.DataDir)
	}
	if p.SyncDir != "/flag/sync" {
		t.Errorf("SyncDir = %s, want /flag/sync", p.SyncDir)
	}
}

func TestResolveFallsBackToEnv(t *testing.T) {
	t.Setenv(EnvDataDir, "/env/data")
	t.Setenv(EnvSyncDir, "")

	p, err := Resolve("", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.DataDir != "/env/data" {
		t.Errorf("DataDir = %s, want /env/data", p.DataDir)
	}
	if filepath.Base(p.SyncDir) != "sync" {
		t.Errorf("SyncDir = %s, want default under home", p.SyncDir)
	}
}

func TestResolveDefaultsUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvSyncDir, "")

	p, err := Resolve("", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Home != home {
		t.Errorf("Home = %s, want %s", p.Home, home)
	}
	if p.DataDir != filepath.Join(home, "db") {
		t.Errorf("DataDir = %s, want %s", p.DataDir, filepath.Join(home, "db"))
	}
	if p.Config != filepath.Join(home, "config.yaml") {
		t.Errorf("Config = %s, want %s", p.Config, filepath.Join(home, "config.yaml"))
	}
}

func TestEnsureDirsCreatesEveryDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	p, err := Resolve("", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := p.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	for _, dir := range []string{p.Home, p.DataDir, p.SyncDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("expected %s to be a directory", dir)
		}
	}
}

func TestLoadWritesDefaultConfigOnFirstRun(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	p, err := Resolve("", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	v, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(p.Config); err != nil {
		t.Fatalf("expected config.yaml to be created: %v", err)
	}
	if DefaultBoundary(v) != spec.BoundaryPersonal {
		t.Errorf("DefaultBoundary = %s, want personal", DefaultBoundary(v))
	}
}

func TestLoadReadsExistingOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	p, err := Resolve("", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := os.MkdirAll(p.Home, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p.Config, []byte("default_boundary: work\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	v, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if DefaultBoundary(v) != spec.BoundaryWork {
		t.Errorf("DefaultBoundary = %s, want work", DefaultBoundary(v))
	}
}

func TestDefaultBoundaryFallsBackOnInvalidValue(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	p, err := Resolve("", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := os.MkdirAll(p.Home, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p.Config, []byte("default_boundary: nonsense\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	v, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if DefaultBoundary(v) != spec.BoundaryPersonal {
		t.Errorf("DefaultBoundary = %s, want personal fallback", DefaultBoundary(v))
	}
}
