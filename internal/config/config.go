// Package config resolves runtime settings from three layers: built-in
// defaults, an optional HCL file, then environment variables. Later
// layers win.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/perankh/perankh/internal/archive"
)

// Config is the full runtime configuration.
type Config struct {
	DBPath           string `hcl:"db_path,optional" env:"PERANKH_DB_PATH"`
	LockStaleMinutes int    `hcl:"lock_stale_minutes,optional" env:"PERANKH_LOCK_STALE_MINUTES"`
	MaxArchiveMB     int64  `hcl:"max_archive_mb,optional" env:"PERANKH_MAX_ARCHIVE_MB"`
	MaxXMLMB         int64  `hcl:"max_xml_mb,optional" env:"PERANKH_MAX_XML_MB"`
	Verbose          bool   `hcl:"verbose,optional" env:"PERANKH_VERBOSE"`
}

// DefaultPath is where Load looks for a config file when none is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".perankh", "config.hcl")
}

func defaults() Config {
	dbPath := "perankh.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".perankh", "perankh.db")
	}
	limits := archive.DefaultLimits()
	return Config{
		DBPath:           dbPath,
		LockStaleMinutes: 10,
		MaxArchiveMB:     limits.MaxCompressed / (1 << 20),
		MaxXMLMB:         limits.MaxUncompressed / (1 << 20),
	}
}

// Load resolves the configuration. An explicit path must exist; the
// default path is used only when present.
func Load(path string) (*Config, error) {
	cfg := defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if explicit {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// LockStaleAfter converts the configured horizon to a duration.
func (c *Config) LockStaleAfter() time.Duration {
	return time.Duration(c.LockStaleMinutes) * time.Minute
}

// Limits builds the archive limits from the configured sizes. Entry
// count and compression ratio bounds are not configurable; no legitimate
// save needs looser ones.
func (c *Config) Limits() archive.Limits {
	limits := archive.DefaultLimits()
	limits.MaxCompressed = c.MaxArchiveMB << 20
	limits.MaxUncompressed = c.MaxXMLMB << 20
	return limits
}
