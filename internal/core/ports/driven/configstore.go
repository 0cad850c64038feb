package driven

import "github.com/MordecaiM24/recall-sub000/internal/core/domain"

// ConfigStore loads and persists engine configuration.
type ConfigStore interface {
	// Load returns the stored configuration, with defaults filled in
	// for any field the file does not set.
	Load() (domain.Config, error)

	// Save persists the configuration.
	Save(cfg domain.Config) error

	// Path returns the backing file path.
	Path() string
}
