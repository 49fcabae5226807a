// SPDX-License-Identifier: MIT

package site

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "json", want: FormatJSON},
		{in: "YAML", want: FormatYAML},
		{in: "yml", want: FormatYAML},
		{in: "toml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarshal_UsesGeneratorKeys(t *testing.T) {
	d, err := Default(mockClock(2025))
	require.NoError(t, err)

	out, err := Marshal(d, FormatJSON)
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, `"baseUrl": "/owasp-top-10-labs/"`)
	assert.Contains(t, s, `"onBrokenLinks": "throw"`)
	assert.Contains(t, s, `"sidebarId": "tutorialSidebar"`)
	assert.Contains(t, s, `"copyright": "Copyright © 2025 Pr. AIT SAID Mehdi."`)
	assert.NotContains(t, s, `"docId"`)

	out, err = Marshal(d, FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(out), "baseUrl: /owasp-top-10-labs/\n")
}

func TestWriteFile(t *testing.T) {
	d, err := Default(mockClock(2025))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))
	require.NoError(t, WriteFile(context.Background(), path, d, FormatYAML))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Descriptor
	require.NoError(t, yaml.Unmarshal(data, &got))
	if diff := cmp.Diff(*d, got); diff != "" {
		t.Errorf("written descriptor mismatch (-want +got):\n%s", diff)
	}

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".site.yaml*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "no temporary files left behind")
}

func TestMarshal_OutputLoadsBack(t *testing.T) {
	ctx := context.Background()
	holderFile := writeFile(t, t.TempDir(), "site.yaml", "copyrightHolder: OWASP Club\n")

	for _, format := range []Format{FormatJSON, FormatYAML} {
		for _, opts := range [][]Option{nil, {WithFile(holderFile)}} {
			first, err := Load(ctx, append(opts, WithClock(mockClock(2025)), WithLogger(zerolog.Nop()))...)
			require.NoError(t, err)
			want, err := Marshal(first, format)
			require.NoError(t, err)

			file := writeFile(t, t.TempDir(), "site."+string(format), string(want))
			again, err := Load(ctx, WithClock(mockClock(2025)), WithFile(file), WithLogger(zerolog.Nop()))
			require.NoError(t, err, "format %s", format)
			got, err := Marshal(again, format)
			require.NoError(t, err)

			if diff := cmp.Diff(string(want), string(got)); diff != "" {
				t.Errorf("%s output changed after reload (-want +got):\n%s", format, diff)
			}
		}
	}
}
