// SPDX-License-Identifier: MIT

// Package config holds the settings of the labsite tool itself. The site
// descriptor is configured by the site package, not here.
package config

import (
	"time"

	"github.com/mehdiaitsaid/owasp-top-10-labs/internal/validate"
)

// Environment variables read by FromEnv.
const (
	EnvLogLevel        = "LABSITE_LOG_LEVEL"
	EnvLogFormat       = "LABSITE_LOG_FORMAT"
	EnvFile            = "LABSITE_FILE"
	EnvSiteDir         = "LABSITE_SITE_DIR"
	EnvMetricsTextfile = "LABSITE_METRICS_TEXTFILE"
	EnvWatchDebounce   = "LABSITE_WATCH_DEBOUNCE"
)

// Defaults.
const (
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
	DefaultWatchDebounce = 500 * time.Millisecond
)

var logFormats = []string{"json", "console"}

// Config is the tool configuration. Precedence is flags > environment > defaults;
// FromEnv covers the last two and the CLI applies flags on top.
type Config struct {
	LogLevel        string
	LogFormat       string
	File            string // descriptor override file; empty means built-in values only
	SiteDir         string // site root for route discovery; empty disables link checking
	MetricsTextfile string // node-exporter textfile; empty disables
	WatchDebounce   time.Duration
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		WatchDebounce: DefaultWatchDebounce,
	}
}

// FromEnv returns the defaults overridden by LABSITE_* environment variables.
func FromEnv() Config {
	d := Defaults()
	return Config{
		LogLevel:        ParseString(EnvLogLevel, d.LogLevel),
		LogFormat:       ParseString(EnvLogFormat, d.LogFormat),
		File:            ParseString(EnvFile, d.File),
		SiteDir:         ParseString(EnvSiteDir, d.SiteDir),
		MetricsTextfile: ParseString(EnvMetricsTextfile, d.MetricsTextfile),
		WatchDebounce:   ParseDuration(EnvWatchDebounce, d.WatchDebounce),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	v := validate.New()

	if _, err := validate.ParseLogLevel(c.LogLevel); err != nil {
		v.AddError("logLevel", validate.ErrInvalidLogLevel.Message, c.LogLevel)
	}
	v.OneOf("logFormat", c.LogFormat, logFormats)
	if c.SiteDir != "" {
		v.Directory("siteDir", c.SiteDir)
	}
	v.DurationRange("watchDebounce", c.WatchDebounce, 10*time.Millisecond, time.Minute)

	return v.Err()
}
