// Package config loads barcoder's configuration file.
//
// The file is TOML by default (barcoder.toml); files ending in .yaml or
// .yml are read as YAML. Every field is optional and falls back to
// [Defaults]:
//
//	[defaults]
//	layout = "threecol"
//	format = "pdf"
//	output_dir = "labels"
//	audit = "issued.csv"
//	seen = ["issued.csv", "legacy-codes.txt"]
//
//	[server]
//	addr = ":8080"
//	cache_ttl = "30m"
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/labmed/barcoder/pkg/errors"
)

// FileName is the base name of the default config file.
const FileName = "config.toml"

// Config is the whole configuration file.
type Config struct {
	Defaults Defaults `toml:"defaults" yaml:"defaults"`
	Server   Server   `toml:"server" yaml:"server"`
}

// Defaults are the values sheet and codes commands use when a flag is not
// given.
type Defaults struct {
	Layout         string   `toml:"layout" yaml:"layout"`
	Format         string   `toml:"format" yaml:"format"`
	Engine         string   `toml:"engine" yaml:"engine"`
	OutputDir      string   `toml:"output_dir" yaml:"output_dir"`
	OutputTemplate string   `toml:"output_template" yaml:"output_template"`
	URL            string   `toml:"url" yaml:"url"`
	Note           string   `toml:"note" yaml:"note"`
	Audit          string   `toml:"audit" yaml:"audit"`
	Seen           []string `toml:"seen" yaml:"seen"`
	Grid           bool     `toml:"grid" yaml:"grid"`
	VLines         bool     `toml:"vlines" yaml:"vlines"`
	MaxRetries     int      `toml:"max_retries" yaml:"max_retries"`
	DPI            float64  `toml:"dpi" yaml:"dpi"`
}

// Server configures `barcoder serve`.
type Server struct {
	Addr            string        `toml:"addr" yaml:"addr"`
	MaxCodes        int           `toml:"max_codes" yaml:"max_codes"`
	CacheEntries    int           `toml:"cache_entries" yaml:"cache_entries"`
	CacheTTL        time.Duration `toml:"cache_ttl" yaml:"cache_ttl"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	Audit           string        `toml:"audit" yaml:"audit"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Defaults: Defaults{
			Layout:     "threecol",
			Format:     "pdf",
			Engine:     "native",
			OutputDir:  ".",
			MaxRetries: 10000,
			DPI:        300,
		},
		Server: Server{
			Addr:            ":8080",
			MaxCodes:        10000,
			CacheEntries:    64,
			CacheTTL:        30 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/barcoder/config.toml, or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "barcoder", FileName), nil
}

// Load reads the file at path over the defaults. An empty path loads the
// default location, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "reading config")
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes config data. ext selects the format (".yaml", ".yml",
// anything else is TOML).
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing config")
		}
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing config")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
		}
	}
	return cfg, nil
}
