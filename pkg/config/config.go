// Package config loads journal settings from dreamlog.yaml and DREAMLOG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/dreamlog/internal/platform"
	"github.com/aretw0/dreamlog/pkg/codec"
	"github.com/aretw0/dreamlog/pkg/core"
	"github.com/aretw0/dreamlog/pkg/reference"
)

// EnvPrefix prefixes every environment override, e.g. DREAMLOG_ADAPTER.
const EnvPrefix = "DREAMLOG"

// Adapters lists the storage adapter names accepted in configuration.
var Adapters = []string{"fs", "sqlite", "redis", "memory"}

// Redis holds the redis adapter connection settings.
type Redis struct {
	Addr     string `yaml:"addr" envconfig:"ADDR"`
	Password string `yaml:"password" envconfig:"PASSWORD"`
	DB       int    `yaml:"db" envconfig:"DB"`
	Prefix   string `yaml:"prefix" envconfig:"PREFIX"`
}

// Transcribe holds the speech-to-text endpoint settings.
type Transcribe struct {
	URL      string `yaml:"url" envconfig:"URL"`
	APIKey   string `yaml:"api_key" envconfig:"API_KEY"`
	Model    string `yaml:"model" envconfig:"MODEL"`
	Language string `yaml:"language" envconfig:"LANGUAGE"`
}

// Config is the resolved application configuration.
// Environment variables override file values; unset variables leave them alone.
type Config struct {
	Dir        string     `yaml:"dir" envconfig:"DIR"`
	Adapter    string     `yaml:"adapter" envconfig:"ADAPTER"`
	Key        string     `yaml:"key" envconfig:"KEY"`
	Codec      string     `yaml:"codec" envconfig:"CODEC"`
	SQLitePath string     `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	Redis      Redis      `yaml:"redis" envconfig:"REDIS"`
	Transcribe Transcribe `yaml:"transcribe" envconfig:"TRANSCRIBE"`

	// Strict fails reads on a corrupt collection instead of treating it as empty.
	Strict   bool `yaml:"strict" envconfig:"STRICT"`
	ReadOnly bool `yaml:"read_only" envconfig:"READ_ONLY"`
	// ValidateTags restricts tags to the built-in vocabulary.
	ValidateTags bool `yaml:"validate_tags" envconfig:"VALIDATE_TAGS"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Dir:     ".",
		Adapter: "fs",
		Key:     core.DefaultKey,
		Codec:   "json",
		Redis: Redis{
			Addr: "localhost:6379",
		},
	}
}

// Load reads the optional YAML file at path, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if cfg.Transcribe.APIKey == "" {
		cfg.Transcribe.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks adapter and codec names.
func (c Config) Validate() error {
	var errs []error
	if !isAdapter(c.Adapter) {
		errs = append(errs, fmt.Errorf("unknown adapter %q (available: %s)", c.Adapter, strings.Join(Adapters, ", ")))
	}
	if _, err := codec.Lookup(c.Codec); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Options converts the configuration into service options.
func (c Config) Options() ([]platform.Option, error) {
	cd, err := codec.Lookup(c.Codec)
	if err != nil {
		return nil, err
	}

	opts := []platform.Option{
		platform.WithAdapter(c.Adapter),
		platform.WithKey(c.Key),
		platform.WithCodec(cd),
		platform.WithStrictDecoding(c.Strict),
		platform.WithReadOnly(c.ReadOnly),
	}
	if c.SQLitePath != "" {
		opts = append(opts, platform.WithSQLitePath(c.SQLitePath))
	}
	if c.Adapter == "redis" {
		opts = append(opts, platform.WithRedis(c.Redis.Addr, c.Redis.Password, c.Redis.DB))
		if c.Redis.Prefix != "" {
			opts = append(opts, platform.WithRedisPrefix(c.Redis.Prefix))
		}
	}
	if c.ValidateTags {
		opts = append(opts, platform.WithTagPolicy(reference.NewPolicy()))
	}
	return opts, nil
}

func isAdapter(name string) bool {
	for _, a := range Adapters {
		if a == name {
			return true
		}
	}
	return false
}
