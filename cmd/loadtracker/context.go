package main

import (
	"sync"
	"time"

	"github.com/spf13/cobra"

	"loadtracker/internal/infra/config"
)

// skipConfigAnnotation marks commands that need only the timezone.
const skipConfigAnnotation = "skipConfigLoad"

type commandContext struct {
	loadConfig   func() (*config.AppConfig, error)
	loadLocation func() (*time.Location, error)
	now          func() time.Time

	configOnce sync.Once
	config     *config.AppConfig
	configErr  error

	locationOnce sync.Once
	loc          *time.Location
	locationErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{
		loadConfig:   config.Load,
		loadLocation: config.LoadLocation,
		now:          time.Now,
	}
}

func (c *commandContext) ensureConfig() (*config.AppConfig, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = c.loadConfig()
	})
	return c.config, c.configErr
}

// ensureLocation prefers the full configuration when it has been loaded and
// otherwise reads TIMEZONE alone.
func (c *commandContext) ensureLocation() (*time.Location, error) {
	c.locationOnce.Do(func() {
		if c.config != nil && c.config.Location != nil {
			c.loc = c.config.Location
			return
		}
		c.loc, c.locationErr = c.loadLocation()
	})
	return c.loc, c.locationErr
}

func (c *commandContext) location() *time.Location {
	if loc, err := c.ensureLocation(); err == nil && loc != nil {
		return loc
	}
	return time.UTC
}

// today is the current time in the configured timezone.
func (c *commandContext) today() time.Time {
	return c.now().In(c.location())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations[skipConfigAnnotation] == "true" {
			return true
		}
	}
	return false
}
