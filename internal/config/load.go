package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectFileName is the project file Load looks for when no explicit
// path is given.
const ProjectFileName = "strata.yaml"

// Load loads a project with priority: defaults < file < overrides. An
// empty path falls back to FindProjectFile; running without any project
// file is not an error, the defaults carry.
func Load(path string, overrides Overrides) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = FindProjectFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading project from %s: %w", path, err)
		}
	}

	overrides.apply(cfg)

	return cfg, nil
}

// FindProjectFile looks for a project file in the working directory.
func FindProjectFile() string {
	if _, err := os.Stat(ProjectFileName); err == nil {
		return ProjectFileName
	}
	return ""
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
