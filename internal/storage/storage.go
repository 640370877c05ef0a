// Package storage provides the key-value backends and the .snip/ workspace
// directory.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jacksmith/snip/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	// snipDir is the name of the snip directory.
	snipDir = ".snip"
	// dbDir is the subdirectory for the pebble backend.
	dbDir = "db"
	// configFile is the name of the config file within .snip/.
	configFile = "config.yaml"
)

// Backend selects the key-value store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendPebble Backend = "pebble"
)

// StorageConfig contains settings stored in .snip/config.yaml.
type StorageConfig struct {
	Version int     `yaml:"version"`
	Backend Backend `yaml:"backend"`
}

// Workspace provides access to a .snip/ directory.
type Workspace struct {
	root string // path to directory containing .snip/
}

// Open returns a Workspace for the given directory.
// Returns error if .snip/ does not exist.
func Open(dir string) (*Workspace, error) {
	path := filepath.Join(dir, snipDir)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(".snip/ directory not found in %s (run 'snip init')", dir)
		}
		return nil, fmt.Errorf("failed to access .snip/: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf(".snip is not a directory")
	}

	return &Workspace{root: dir}, nil
}

// Init creates the .snip/ directory with an empty data blob.
// Returns error if .snip/ already exists.
func Init(dir string, backend Backend) (*Workspace, error) {
	path := filepath.Join(dir, snipDir)

	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf(".snip/ directory already exists in %s", dir)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check for .snip/: %w", err)
	}

	if backend == "" {
		backend = BackendFile
	}
	if backend != BackendFile && backend != BackendPebble {
		return nil, fmt.Errorf("unknown backend %q (expected %q or %q)", backend, BackendFile, BackendPebble)
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .snip/: %w", err)
	}

	cfgData, err := yaml.Marshal(&StorageConfig{Version: 1, Backend: backend})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(path, configFile), cfgData, 0644); err != nil {
		os.RemoveAll(path)
		return nil, fmt.Errorf("failed to write config.yaml: %w", err)
	}

	w := &Workspace{root: dir}
	kv, err := w.OpenKV(0)
	if err != nil {
		os.RemoveAll(path)
		return nil, err
	}
	defer kv.Close()

	if err := SaveData(context.Background(), kv, model.NewStorageData()); err != nil {
		// Clean up on failure
		os.RemoveAll(path)
		return nil, fmt.Errorf("failed to write initial data: %w", err)
	}

	return w, nil
}

// Root returns the root directory containing .snip/.
func (w *Workspace) Root() string {
	return w.root
}

// SnipPath returns the path to the .snip/ directory.
func (w *Workspace) SnipPath() string {
	return filepath.Join(w.root, snipDir)
}

// StorageConfig reads .snip/config.yaml. A missing backend means file.
func (w *Workspace) StorageConfig() (*StorageConfig, error) {
	data, err := os.ReadFile(filepath.Join(w.SnipPath(), configFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
	}
	cfg := &StorageConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configFile, err)
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendFile
	}
	return cfg, nil
}

// OpenKV opens the backend recorded in .snip/config.yaml, wrapped with the
// given quota (0 disables it). The caller must Close it.
func (w *Workspace) OpenKV(quotaBytes int) (KV, error) {
	sc, err := w.StorageConfig()
	if err != nil {
		return nil, err
	}

	var kv KV
	switch sc.Backend {
	case BackendFile:
		kv = NewFileKV(w.SnipPath())
	case BackendPebble:
		kv, err = OpenPebble(filepath.Join(w.SnipPath(), dbDir))
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown backend %q in %s", sc.Backend, configFile)
	}
	return WithQuota(kv, quotaBytes), nil
}
