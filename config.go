package docseed

import (
	"os"
	"path/filepath"

	"github.com/autom8ter/docseed/errors"
	"github.com/autom8ter/docseed/util"
)

// DefaultProvider is the store provider used when none is configured
const DefaultProvider = "firestore"

// Config configures the docseed command
type Config struct {
	// Provider is the registered store provider: firestore, badger, tikv, redis or memory
	Provider string `json:"provider,omitempty"`
	// Params are passed to the provider's opener, ex: project_id and credentials_file for firestore
	Params map[string]any `json:"params,omitempty"`
	// LogLevel is one of debug, info, warn or error
	LogLevel string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
	// FixturesDir is the directory relative fixture and schema paths are resolved against. It defaults to the
	// directory of the config file.
	FixturesDir string `json:"fixtures_dir,omitempty"`
	// Plans are seeding plans in addition to the built-in presets. A plan named like a preset replaces it.
	Plans []Plan `json:"plans,omitempty" validate:"dive"`
}

// LoadConfig loads a yaml or json config file
func LoadConfig(path string) (*Config, error) {
	bits, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.Validation, "failed to read config %s", path)
	}
	cfg := &Config{}
	if err := util.DecodeYAML(bits, cfg); err != nil {
		return nil, errors.Wrap(err, 0, "config %s", path)
	}
	if cfg.FixturesDir == "" {
		cfg.FixturesDir = filepath.Dir(path)
	} else if !filepath.IsAbs(cfg.FixturesDir) {
		cfg.FixturesDir = filepath.Join(filepath.Dir(path), cfg.FixturesDir)
	}
	cfg.setDefaults()
	return cfg, nil
}

// DefaultConfig returns the config used when no config file is given
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Params == nil {
		c.Params = map[string]any{}
	}
}

// Plan returns the configured plan or preset with the given name
func (c *Config) Plan(name string) (Plan, bool) {
	if p, ok := c.find(name); ok {
		return p, true
	}
	return Preset(name)
}

// AllPlans returns the configured plans followed by the presets they do not replace
func (c *Config) AllPlans() []Plan {
	plans := append([]Plan(nil), c.Plans...)
	for _, p := range Presets() {
		if _, ok := c.find(p.Name); !ok {
			plans = append(plans, p)
		}
	}
	return plans
}

func (c *Config) find(name string) (Plan, bool) {
	for _, p := range c.Plans {
		if p.Name == name {
			return p, true
		}
	}
	return Plan{}, false
}
