// Package config loads versekit settings.
//
// Configuration hierarchy (highest to lowest priority):
//  1. CLI flags
//  2. Environment variables (VERSEKIT_*)
//  3. Config file (YAML)
//  4. Defaults
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/versekit/core/compress"
	"github.com/FocuswithJustin/versekit/core/errors"
	"github.com/FocuswithJustin/versekit/core/passage"
	"github.com/FocuswithJustin/versekit/core/versification"
	"github.com/FocuswithJustin/versekit/internal/logging"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VERSEKIT_"

// lookupEnv is injectable for tests.
var lookupEnv = os.LookupEnv

// Config is the full set of settings.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Render  RenderConfig  `yaml:"render"`
	Passage PassageConfig `yaml:"passage"`
	Store   StoreConfig   `yaml:"store"`
	Cache   CacheConfig   `yaml:"cache"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RenderConfig controls passage naming.
type RenderConfig struct {
	Case       string `yaml:"case"`
	Persistent bool   `yaml:"persistent"`
}

// PassageConfig picks the implementation used for new passages.
type PassageConfig struct {
	Kind string `yaml:"kind"`
}

// StoreConfig locates the passage database and blob directory.
type StoreConfig struct {
	Path        string `yaml:"path"`
	BlobDir     string `yaml:"blob_dir"`
	Compression string `yaml:"compression"`
}

// CacheConfig tunes the parsed-reference cache.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// Default returns the built-in settings. The store lives under the user's
// config directory, falling back to the working directory.
func Default() *Config {
	base := "."
	if dir, err := os.UserConfigDir(); err == nil {
		base = filepath.Join(dir, "versekit")
	}
	return &Config{
		Log:     LogConfig{Level: "info", Format: "text"},
		Render:  RenderConfig{Case: "sentence"},
		Passage: PassageConfig{Kind: "ranged"},
		Store: StoreConfig{
			Path:        filepath.Join(base, "passages.db"),
			BlobDir:     filepath.Join(base, "blobs"),
			Compression: "zip",
		},
		Cache: CacheConfig{TTL: 10 * time.Minute},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NewNotFound("config file", path)
			}
			return nil, errors.NewIO("read config", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewParse("config", path, err.Error())
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"LOG_LEVEL":   &c.Log.Level,
		"LOG_FORMAT":  &c.Log.Format,
		"CASE":        &c.Render.Case,
		"KIND":        &c.Passage.Kind,
		"STORE_PATH":  &c.Store.Path,
		"BLOB_DIR":    &c.Store.BlobDir,
		"COMPRESSION": &c.Store.Compression,
	}
	for name, field := range strs {
		if v, ok := lookupEnv(EnvPrefix + name); ok {
			*field = v
		}
	}
	if v, ok := lookupEnv(EnvPrefix + "PERSISTENT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.NewArgument(EnvPrefix+"PERSISTENT", v, "expected a boolean")
		}
		c.Render.Persistent = b
	}
	if v, ok := lookupEnv(EnvPrefix + "CACHE_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.NewArgument(EnvPrefix+"CACHE_TTL", v, "expected a duration such as 10m")
		}
		c.Cache.TTL = d
	}
	return nil
}

// Validate checks every setting that has a closed set of values.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return err
	}
	if _, err := c.RenderOptions(); err != nil {
		return err
	}
	if _, err := passage.ParseKind(c.Passage.Kind); err != nil {
		return err
	}
	t, err := compress.ParseType(c.Store.Compression)
	if err != nil {
		return err
	}
	if t == compress.TypeBZip2 {
		return errors.NewArgument("compression", c.Store.Compression, "BZIP2 blobs can be read but not written")
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return errors.NewArgument("store.path", "", "must not be empty")
	}
	if strings.TrimSpace(c.Store.BlobDir) == "" {
		return errors.NewArgument("store.blob_dir", "", "must not be empty")
	}
	return nil
}

// RenderOptions builds the naming options.
func (c *Config) RenderOptions() (passage.RenderOptions, error) {
	cs, err := versification.ParseCase(c.Render.Case)
	if err != nil {
		return passage.RenderOptions{}, err
	}
	return passage.NewRenderOptions(cs, c.Render.Persistent)
}

// Kind returns the configured passage kind. Call after Validate.
func (c *Config) Kind() passage.Kind {
	k, _ := passage.ParseKind(c.Passage.Kind)
	return k
}

// Compression returns the configured blob compression. Call after Validate.
func (c *Config) Compression() compress.Type {
	t, _ := compress.ParseType(c.Store.Compression)
	return t
}

// InitLogging applies the log settings to the global logger.
func (c *Config) InitLogging() {
	level, _ := logging.ParseLevel(c.Log.Level)
	format, _ := logging.ParseFormat(c.Log.Format)
	logging.InitLogger(level, format)
}

// YAML renders the configuration as a config file.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
