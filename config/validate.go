package config

import (
	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/event"
	"github.com/teranos/fabric/tree"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := event.ParseMode(c.Process.Mode); err != nil {
		return errors.Wrap(err, "process.mode")
	}
	if c.Process.Concurrency <= 0 {
		return errors.Newf("process.concurrency must be > 0, got %d", c.Process.Concurrency)
	}

	if _, err := event.ParseMode(c.Events.Mode); err != nil {
		return errors.Wrap(err, "events.mode")
	}

	if _, err := tree.ParseMode(c.Barrel.Mode); err != nil {
		return errors.Wrap(err, "barrel.mode")
	}
	if c.Barrel.Extension != "" && dotted(c.Barrel.Extension) == "." {
		return errors.New("barrel.extension cannot be a bare dot")
	}

	if c.Graph.Enabled && c.Graph.Path == "" {
		return errors.New("graph.path cannot be empty when graph.enabled is set")
	}

	for from := range c.Extension {
		if from == "" || from == "." {
			return errors.New("extension keys must name an extension")
		}
	}

	return nil
}
