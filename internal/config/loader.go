package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	incerrors "github.com/matzehuels/incgraph/pkg/errors"
	"github.com/matzehuels/incgraph/pkg/render/nodelink"
)

// DefaultTimeout is the per-compile timeout when none is configured.
const DefaultTimeout = 2 * time.Minute

// Load reads the file at path. An empty path loads DefaultFile if it
// exists and the defaults otherwise; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		cfg := Default()
		ApplyEnvOverrides(cfg)
		return cfg, validate(cfg)
	case err != nil:
		return nil, incerrors.Wrap(incerrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(string(data))
}

// Parse decodes TOML text, applies defaults and environment overrides and
// validates the result.
func Parse(text string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return nil, incerrors.Wrap(incerrors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, incerrors.New(incerrors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}

	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if len(cfg.Formats) == 0 {
		cfg.Formats = []string{nodelink.FormatSVG}
	}
}

// Validate checks a configuration after flags were applied.
func Validate(cfg *Config) error {
	return validate(cfg)
}

func validate(cfg *Config) error {
	if cfg.Workers < 0 {
		return incerrors.New(incerrors.ErrCodeInvalidConfig, "workers must be >= 0, got %d", cfg.Workers)
	}
	if cfg.Timeout <= 0 {
		return incerrors.New(incerrors.ErrCodeInvalidConfig, "timeout must be positive, got %s", cfg.Timeout)
	}
	if err := nodelink.ValidateFormats(cfg.Formats); err != nil {
		return incerrors.Wrap(incerrors.ErrCodeInvalidConfig, err, "formats")
	}
	for _, p := range cfg.Exclude {
		if strings.TrimSpace(p) == "" {
			return incerrors.New(incerrors.ErrCodeInvalidConfig, "exclude patterns must not be empty")
		}
	}
	return nil
}
