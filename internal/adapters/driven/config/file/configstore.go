// Package file is a TOML-backed ConfigStore. Configuration lives in a
// single config.toml inside the recall directory (~/.recall by
// default).
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
	"github.com/MordecaiM24/recall-sub000/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// configFileName is the file inside the recall directory.
const configFileName = "config.toml"

// ConfigStore is a file-based implementation of driven.ConfigStore.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewConfigStore creates a TOML config store rooted at configDir.
// An empty configDir defaults to ~/.recall.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		configDir = filepath.Join(home, ".recall")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, configFileName),
	}, nil
}

// Load reads the configuration file. A missing file yields the
// defaults; a present file overlays the defaults, so partial files
// are valid.
func (s *ConfigStore) Load() (domain.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := domain.DefaultConfig()
	cfg.DataDir = filepath.Join(filepath.Dir(s.filePath), "data")

	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return domain.Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid config at %s: %w", s.filePath, err)
	}
	return cfg, nil
}

// Save persists the configuration with restricted permissions, since
// it can carry an API key.
func (s *ConfigStore) Save(cfg domain.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Path returns the backing file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
