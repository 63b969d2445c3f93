// Package config loads incgraph.toml.
//
// Every setting is optional. Values are resolved in order: built-in
// defaults, the TOML file, INCGRAPH_* environment variables, then command
// line flags (applied by the CLI).
package config

import "time"

// DefaultFile is looked up in the working directory when --config is not
// given.
const DefaultFile = "incgraph.toml"

// Config holds every tunable of an incgraph run.
type Config struct {
	// Workers bounds concurrent compiler invocations. 0 means one per CPU.
	Workers int `toml:"workers"`
	// Timeout bounds a single compiler invocation.
	Timeout time.Duration `toml:"timeout"`
	// Formats lists the artifact formats written per graph.
	Formats []string `toml:"formats"`
	// Exclude holds directory name globs skipped while scanning.
	Exclude []string `toml:"exclude"`
	// Ignore drops rule files whose path contains this substring.
	Ignore string `toml:"ignore"`
	// Cache enables the rendered-artifact cache.
	Cache *bool `toml:"cache"`
	// CacheDir overrides the cache location.
	CacheDir string `toml:"cache_dir"`
}

// CacheEnabled reports whether artifact caching is on. It defaults to true.
func (c *Config) CacheEnabled() bool {
	return c.Cache == nil || *c.Cache
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
