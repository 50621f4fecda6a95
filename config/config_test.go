package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestEngineApplyDefaults(t *testing.T) {
	t.Run("zero values get defaults", func(t *testing.T) {
		var cfg Engine
		cfg.ApplyDefaults()
		if cfg.Parallelism != runtime.GOMAXPROCS(0) {
			t.Errorf("expected parallelism %d, got %d", runtime.GOMAXPROCS(0), cfg.Parallelism)
		}
		if cfg.MinLeafSize != 1 {
			t.Errorf("expected min_leaf_size 1, got %d", cfg.MinLeafSize)
		}
		if cfg.SplitFactor != 4 {
			t.Errorf("expected split_factor 4, got %d", cfg.SplitFactor)
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected logging.level info, got %q", cfg.Logging.Level)
		}
	})

	t.Run("explicit values are kept", func(t *testing.T) {
		cfg := Engine{Parallelism: 2, MinLeafSize: 128, SplitFactor: 8}
		cfg.ApplyDefaults()
		if cfg.Parallelism != 2 || cfg.MinLeafSize != 128 || cfg.SplitFactor != 8 {
			t.Errorf("defaults overwrote explicit values: %+v", cfg)
		}
	})
}

func TestEngineValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Engine
		wantErr bool
	}{
		{"defaults are valid", Engine{}, false},
		{"negative parallelism", Engine{Parallelism: -1}, true},
		{"oversized split factor", Engine{SplitFactor: 1000}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.ApplyDefaults()
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}

	t.Run("bad log level", func(t *testing.T) {
		var cfg Engine
		cfg.ApplyDefaults()
		cfg.Logging.Level = "nope"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for invalid log level")
		}
	})
}

func TestLoad_FromConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "streamkit.yml")
	yml := strings.Join([]string{
		"parallelism: 3",
		"min_leaf_size: 64",
		"logging:",
		"  level: debug",
	}, "\n")
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Parallelism != 3 {
		t.Errorf("expected parallelism 3, got %d", cfg.Parallelism)
	}
	if cfg.MinLeafSize != 64 {
		t.Errorf("expected min_leaf_size 64, got %d", cfg.MinLeafSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging.level debug, got %q", cfg.Logging.Level)
	}
	// unset keys fall back to defaults
	if cfg.SplitFactor != 4 {
		t.Errorf("expected default split_factor 4, got %d", cfg.SplitFactor)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "streamkit.yml")
	if err := os.WriteFile(path, []byte("parallelism: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STREAMKIT_PARALLELISM", "7")

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Parallelism != 7 {
		t.Errorf("expected env override 7, got %d", cfg.Parallelism)
	}
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("STREAMKIT_MIN_LEAF_SIZE", "256")
	cfg, err := Load(WithFileSystem(&fakeFS{}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinLeafSize != 256 {
		t.Errorf("expected min_leaf_size 256, got %d", cfg.MinLeafSize)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("STREAMKIT_SPLIT_FACTOR=2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("STREAMKIT_SPLIT_FACTOR") })

	cfg, err := Load(WithEnvFile(envPath))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SplitFactor != 2 {
		t.Errorf("expected split_factor 2 from .env, got %d", cfg.SplitFactor)
	}
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	t.Setenv("STREAMKIT_PARALLELISM", "-2")
	if _, err := Load(WithFileSystem(&fakeFS{})); err == nil {
		t.Error("expected validation error for negative parallelism")
	}
}

// fakeFS reports no files present, isolating tests from the working tree.
type fakeFS struct{}

func (f *fakeFS) Exists(string) bool   { return false }
func (f *fakeFS) LoadEnv(string) error { return nil }
