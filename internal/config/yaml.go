package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// parseYAML overlays values present in the YAML file onto cfg. Keys missing
// from the file keep their current value.
func parseYAML(cfg *Config, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}
