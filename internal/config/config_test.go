// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehdiaitsaid/owasp-top-10-labs/internal/validate"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	siteDir := t.TempDir()
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "console")
	t.Setenv(EnvFile, "site.yaml")
	t.Setenv(EnvSiteDir, siteDir)
	t.Setenv(EnvMetricsTextfile, "/var/lib/node_exporter/labsite.prom")
	t.Setenv(EnvWatchDebounce, "2s")

	want := Config{
		LogLevel:        "debug",
		LogFormat:       "console",
		File:            "site.yaml",
		SiteDir:         siteDir,
		MetricsTextfile: "/var/lib/node_exporter/labsite.prom",
		WatchDebounce:   2 * time.Second,
	}
	cfg := FromEnv()
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ReportsEveryField(t *testing.T) {
	cfg := Config{
		LogLevel:      "loud",
		LogFormat:     "xml",
		SiteDir:       filepath.Join(t.TempDir(), "missing"),
		WatchDebounce: time.Millisecond,
	}

	err := cfg.Validate()
	require.Error(t, err)
	var verr validate.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"logLevel", "logFormat", "siteDir", "watchDebounce"}, verr.Fields())
}
