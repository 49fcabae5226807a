// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		envSet   bool
		want     string
	}{
		{name: "environment variable set", envValue: "from-env", envSet: true, want: "from-env"},
		{name: "environment variable not set", want: "default"},
		{name: "environment variable empty string", envValue: "", envSet: true, want: "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envSet {
				t.Setenv("LABSITE_TEST_STRING", tt.envValue)
			}
			assert.Equal(t, tt.want, ParseString("LABSITE_TEST_STRING", "default"))
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		envSet   bool
		want     time.Duration
	}{
		{name: "valid duration", envValue: "750ms", envSet: true, want: 750 * time.Millisecond},
		{name: "not set", want: time.Second},
		{name: "empty", envValue: "", envSet: true, want: time.Second},
		{name: "invalid falls back", envValue: "soon", envSet: true, want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envSet {
				t.Setenv("LABSITE_TEST_DURATION", tt.envValue)
			}
			assert.Equal(t, tt.want, ParseDuration("LABSITE_TEST_DURATION", time.Second))
		})
	}
}
