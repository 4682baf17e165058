package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "collectionbuilder.yaml"

// Config represents the application configuration.
type Config struct {
	Content     ContentConfig               `yaml:"content"`
	Output      OutputConfig                `yaml:"output"`
	Authors     AuthorsConfig               `yaml:"authors"`
	Build       BuildConfig                 `yaml:"build"`
	Highlight   HighlightConfig             `yaml:"highlight"`
	Logging     LoggingConfig               `yaml:"logging"`
	Metrics     MetricsConfig               `yaml:"metrics"`
	History     HistoryConfig               `yaml:"history"`
	Notify      NotifyConfig                `yaml:"notify"`
	Collections map[string]CollectionConfig `yaml:"collections,omitempty"`
}

// ContentConfig locates the content tree.
type ContentConfig struct {
	Root string `yaml:"root"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// AuthorsConfig locates the author registry.
type AuthorsConfig struct {
	File        string `yaml:"file"`
	ImagePrefix string `yaml:"image_prefix"`
}

// BuildConfig tunes the build pass.
type BuildConfig struct {
	Concurrency int `yaml:"concurrency"`
	// IncludeDrafts keeps drafts in the collections (flagged). Pointer so an
	// explicit false survives defaulting.
	IncludeDrafts *bool `yaml:"include_drafts,omitempty"`
}

// Drafts reports whether drafts are admitted.
func (b BuildConfig) Drafts() bool {
	return b.IncludeDrafts == nil || *b.IncludeDrafts
}

// HighlightConfig selects the code highlighting theme.
type HighlightConfig struct {
	Theme string `yaml:"theme"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig enables Prometheus textfile export when Textfile is set.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// HistoryConfig enables the SQLite build history when Database is set.
type HistoryConfig struct {
	Database string `yaml:"database,omitempty"`
}

// NotifyConfig publishes a message on NATS after every build when NATSURL is set.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// CollectionConfig overrides where a collection is read from.
type CollectionConfig struct {
	// Directory is relative to content.root unless absolute.
	Directory string `yaml:"directory,omitempty"`
	Include   string `yaml:"include,omitempty"`
}

// Load reads configPath, expands ${VAR} references, applies defaults and
// validates. .env/.env.local are loaded first without overriding the
// existing environment.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	// #nosec G304 -- the config path is chosen by the operator.
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.resolveRelativeTo(filepath.Dir(configPath))
	return cfg, nil
}

// Parse decodes YAML configuration, expanding environment variables, then
// applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
			Fatal().
			Build()
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// resolveRelativeTo anchors relative paths at the config file's directory.
func (c *Config) resolveRelativeTo(dir string) {
	if dir == "" || dir == "." {
		return
	}
	anchor := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Content.Root = anchor(c.Content.Root)
	c.Output.Directory = anchor(c.Output.Directory)
	c.Authors.File = anchor(c.Authors.File)
	c.Metrics.Textfile = anchor(c.Metrics.Textfile)
	c.History.Database = anchor(c.History.Database)
}
