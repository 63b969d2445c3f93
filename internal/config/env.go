package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies INCGRAPH_<KEY> environment variables, e.g.
// INCGRAPH_WORKERS=4 or INCGRAPH_FORMATS=svg,png. Unparseable values are
// ignored.
func ApplyEnvOverrides(cfg *Config) {
	setEnvInt(&cfg.Workers, "INCGRAPH_WORKERS")
	setEnvDuration(&cfg.Timeout, "INCGRAPH_TIMEOUT")
	setEnvList(&cfg.Formats, "INCGRAPH_FORMATS")
	setEnvList(&cfg.Exclude, "INCGRAPH_EXCLUDE")
	setEnvString(&cfg.Ignore, "INCGRAPH_IGNORE")
	setEnvString(&cfg.CacheDir, "INCGRAPH_CACHE_DIR")
	if val, ok := os.LookupEnv("INCGRAPH_CACHE"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Cache = &b
		}
	}
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			*target = i
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			*target = d
		}
	}
}

func setEnvList(target *[]string, key string) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	var out []string
	for _, s := range strings.Split(val, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	*target = out
}
