package config

import (
	"strings"

	"git.home.luguber.info/inful/notebuilder/internal/foundation/errors"
)

// Validate checks configuration consistency. Resolver registration is checked
// separately at engine construction, where the registry is known.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Content.Root) == "" {
		return errors.ConfigError("content.root must not be empty").Build()
	}

	if !strings.HasPrefix(c.Links.StubURL, "/") && !strings.Contains(c.Links.StubURL, "://") {
		return errors.ConfigError("links.stub_url must be absolute").
			WithContext("stub_url", c.Links.StubURL).
			Build()
	}

	seen := map[string]struct{}{}
	for _, name := range c.Links.Resolvers {
		name = strings.TrimSpace(name)
		if name == "" {
			return errors.ConfigError("links.resolvers must not contain empty names").Build()
		}
		if _, dup := seen[name]; dup {
			return errors.ConfigError("links.resolvers contains a duplicate name").
				WithContext("name", name).
				Build()
		}
		seen[name] = struct{}{}
	}

	if c.Events.Enabled && strings.TrimSpace(c.Events.Subject) == "" {
		return errors.ConfigError("events.subject is required when events are enabled").Build()
	}

	return nil
}
