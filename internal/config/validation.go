package config

import (
	"net/url"
	"path"
	"slices"

	"git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/collectionbuilder/internal/markup"
)

// Validate checks the configuration after defaults were applied.
func (c *Config) Validate() error {
	if c.Build.Concurrency < 1 {
		return errors.ConfigError("build.concurrency must be at least 1").
			WithContext("value", c.Build.Concurrency).
			Build()
	}
	if c.Content.Root == "" {
		return errors.ConfigError("content.root is required").Build()
	}
	if c.Output.Directory == "" {
		return errors.ConfigError("output.directory is required").Build()
	}
	if _, err := markup.LookupTheme(c.Highlight.Theme); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid highlight.theme").
			WithContext("theme", c.Highlight.Theme).
			Fatal().
			Build()
	}
	if c.Notify.NATSURL != "" {
		u, err := url.Parse(c.Notify.NATSURL)
		if err != nil || !slices.Contains([]string{"nats", "tls", "ws", "wss"}, u.Scheme) {
			return errors.ConfigError("notify.nats_url must be a nats://, tls://, ws:// or wss:// URL").
				WithContext("value", c.Notify.NATSURL).
				Build()
		}
	}

	names := make([]string, 0, len(c.Collections))
	for name := range c.Collections {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if _, ok := knownCollections[name]; !ok {
			return errors.ConfigError("unknown collection").
				WithContext("collection", name).
				WithContext("known", []string{"customers", "jobs", "posts"}).
				Build()
		}
		if include := c.Collections[name].Include; include != "" {
			if _, err := path.Match(include, ""); err != nil {
				return errors.WrapError(err, errors.CategoryConfig, "invalid include pattern").
					WithContext("collection", name).
					WithContext("include", include).
					Fatal().
					Build()
			}
		}
	}
	return nil
}
