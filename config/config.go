// Package config holds engine-wide tunables loaded from YAML, grounded on
// kailas-cloud-vecdex's internal/config package: a plain struct with
// yaml tags, ApplyDefaults filling zero values, and a Load that reads a
// file and applies them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables spec.md §4.10 leaves caller-overridable per
// request but that a deployment wants sane process-wide defaults for.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Worker  WorkerConfig  `yaml:"worker"`
	Storage StorageConfig `yaml:"storage"`
}

// SearchConfig mirrors spec.md §4.10's per-request thresholds.
type SearchConfig struct {
	TypoTokensThreshold int `yaml:"typo_tokens_threshold"`
	DropTokensThreshold int `yaml:"drop_tokens_threshold"`
	CartesianProductCap int `yaml:"cartesian_product_cap"`
	MaxPerPage          int `yaml:"max_per_page"`
}

// WorkerConfig holds worker tunables. QueueDepth is loaded and defaulted
// but not read by search.NewWorker, whose request channel is unbuffered.
type WorkerConfig struct {
	QueueDepth int `yaml:"queue_depth"`
}

// DefaultStorageEngine is the storage engine name used when a deployment
// leaves StorageConfig.Engine unset or names one the binary never
// registered (storage.OpenStorage falls back to it).
const DefaultStorageEngine = "bolt"

// StorageConfig selects and locates the document storage backend.
type StorageConfig struct {
	Engine string `yaml:"engine"`
	Path   string `yaml:"path"`
}

// Default returns a Config with every field at spec.md's stated defaults.
func Default() Config {
	c := Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero-valued fields with their defaults (typo-tokens
// threshold 100, drop-tokens threshold 10, cartesian-product cap 10,
// per_page cap 250, ...), the same pattern as vecdex's Config.ApplyDefaults.
func (c *Config) ApplyDefaults() {
	if c.Search.TypoTokensThreshold <= 0 {
		c.Search.TypoTokensThreshold = 100
	}
	if c.Search.DropTokensThreshold <= 0 {
		c.Search.DropTokensThreshold = 10
	}
	if c.Search.CartesianProductCap <= 0 {
		c.Search.CartesianProductCap = 10
	}
	if c.Search.MaxPerPage <= 0 {
		c.Search.MaxPerPage = 250
	}
	if c.Worker.QueueDepth <= 0 {
		c.Worker.QueueDepth = 16
	}
	if c.Storage.Engine == "" {
		c.Storage.Engine = DefaultStorageEngine
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "kestrel.db"
	}
}

// Load reads a YAML config file from path, applying defaults to any field
// the file leaves unset.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.ApplyDefaults()
	return c, nil
}
