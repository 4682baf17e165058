package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
)

const initHeader = `# collectionbuilder configuration
# Values support ${VAR} expansion; .env and .env.local are loaded first.
`

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	include := true
	example := Config{
		Content: ContentConfig{Root: DefaultContentRoot},
		Output:  OutputConfig{Directory: DefaultOutputDirectory},
		Authors: AuthorsConfig{File: DefaultAuthorsFile, ImagePrefix: DefaultImagePrefix},
		Build:   BuildConfig{Concurrency: 4, IncludeDrafts: &include},
		Highlight: HighlightConfig{
			Theme: DefaultTheme,
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		History: HistoryConfig{Database: DefaultHistoryDatabase},
		Collections: map[string]CollectionConfig{
			"customers": {Directory: "customer", Include: "*.mdx"},
			"jobs":      {Directory: "job", Include: "*.mdx"},
			"posts":     {Directory: "blog", Include: "*.mdx"},
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}
	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create config directory").
				WithContext("path", dir).
				Build()
		}
	}
	if err := os.WriteFile(configPath, append([]byte(initHeader), data...), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
