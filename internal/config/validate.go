package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks a loaded configuration for values the engine cannot work
// with. Validation failures are configuration bugs and abort startup.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if strings.TrimSpace(cfg.SourceRoot) == "" {
		return errors.New("source_root must not be empty")
	}

	ext := strings.TrimSpace(cfg.ModuleExtension)
	if ext == "" {
		return errors.New("module_extension must not be empty")
	}
	if strings.HasPrefix(ext, ".") {
		return fmt.Errorf("module_extension must not include the dot: %q", cfg.ModuleExtension)
	}

	if cfg.Analyzer.TimeoutSeconds <= 0 {
		return fmt.Errorf("analyzer.timeout_seconds must be positive, got %d", cfg.Analyzer.TimeoutSeconds)
	}

	for _, pattern := range cfg.Ignore {
		if strings.TrimSpace(pattern) == "" {
			return errors.New("ignore patterns must not be empty strings")
		}
	}

	return nil
}
