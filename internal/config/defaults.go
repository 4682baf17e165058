package config

import (
	"path/filepath"
	"runtime"
	"strings"

	"git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
)

// Defaults for every optional setting.
const (
	DefaultContentRoot     = "./data"
	DefaultOutputDirectory = "./.content-collections/generated"
	DefaultAuthorsFile     = "./data/authors.yaml"
	DefaultImagePrefix     = "/authors/"
	DefaultTheme           = "poimandres"
	DefaultNotifySubject   = "collectionbuilder.build.completed"
	DefaultHistoryDatabase = "./.content-collections/history.db"
)

// Collection names that may be overridden under collections:.
var knownCollections = map[string]string{
	"customers": "customer",
	"jobs":      "job",
	"posts":     "blog",
}

// DefaultCollectionDirectory returns the directory name (under content.root)
// a collection is read from by default.
func DefaultCollectionDirectory(name string) (string, bool) {
	dir, ok := knownCollections[name]
	return dir, ok
}

// normalize case-folds enumerations and trims paths. Unknown enumeration
// values are config errors rather than silent defaults.
func (c *Config) normalize() error {
	level, err := logLevelNormalizer.NormalizeWithError(string(c.Logging.Level))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid logging.level").Fatal().Build()
	}
	c.Logging.Level = level

	format, err := logFormatNormalizer.NormalizeWithError(string(c.Logging.Format))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid logging.format").Fatal().Build()
	}
	c.Logging.Format = format

	c.Content.Root = strings.TrimSpace(c.Content.Root)
	c.Output.Directory = strings.TrimSpace(c.Output.Directory)
	c.Authors.File = strings.TrimSpace(c.Authors.File)
	c.Highlight.Theme = strings.TrimSpace(c.Highlight.Theme)
	return nil
}

func (c *Config) applyDefaults() {
	if c.Content.Root == "" {
		c.Content.Root = DefaultContentRoot
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDirectory
	}
	if c.Authors.File == "" {
		c.Authors.File = DefaultAuthorsFile
	}
	if c.Authors.ImagePrefix == "" {
		c.Authors.ImagePrefix = DefaultImagePrefix
	}
	if c.Build.Concurrency == 0 {
		c.Build.Concurrency = runtime.NumCPU()
	}
	if c.Build.IncludeDrafts == nil {
		include := true
		c.Build.IncludeDrafts = &include
	}
	if c.Highlight.Theme == "" {
		c.Highlight.Theme = DefaultTheme
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
	if c.Notify.NATSURL != "" && c.Notify.Subject == "" {
		c.Notify.Subject = DefaultNotifySubject
	}
}

// CollectionSource returns the directory and include pattern for a known
// collection, applying overrides. Relative override directories are joined
// to content.root.
func (c *Config) CollectionSource(name string) (dir, include string) {
	dir = filepath.Join(c.Content.Root, knownCollections[name])
	include = "*.mdx"
	if override, ok := c.Collections[name]; ok {
		if override.Directory != "" {
			dir = override.Directory
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(c.Content.Root, dir)
			}
		}
		if override.Include != "" {
			include = override.Include
		}
	}
	return dir, include
}
