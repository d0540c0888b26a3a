// Package driverconfig loads the optional funxy.yaml project file the
// CLI driver reads before it starts walking source files.
package driverconfig

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is funxy.yaml's shape.
type Config struct {
	// Root is the directory the driver walks for source files, relative
	// to the config file's own directory. Defaults to "." when unset.
	Root string `yaml:"root"`

	// RegistryPath is where the sqlite-backed module registry persists
	// between runs. Defaults to ".funxy/registry.db" when unset.
	RegistryPath string `yaml:"registryPath"`

	// Color forces colored diagnostic output on or off; nil means
	// "detect from the terminal" (the driver's default).
	Color *bool `yaml:"color"`
}

// Load reads and parses a funxy.yaml file at path, applying defaults for
// any field left unset. A missing file is not an error — Load returns
// the defaults: Root "." and RegistryPath ".funxy/registry.db".
func Load(path string) (*Config, error) {
	cfg := &Config{Root: ".", RegistryPath: ".funxy/registry.db"}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.RegistryPath == "" {
		cfg.RegistryPath = ".funxy/registry.db"
	}
	return cfg, nil
}
